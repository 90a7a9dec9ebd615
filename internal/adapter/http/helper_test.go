package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	domain "loanledger/internal/domain/loan"
	"loanledger/internal/domain/transfer"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidCollateral, http.StatusBadRequest, "InvalidCollateral"},
		{domain.ErrInvalidDuration, http.StatusBadRequest, "InvalidDuration"},
		{domain.ErrNotFound, http.StatusNotFound, "LoanNotFound"},
		{domain.ErrAlreadyFunded, http.StatusConflict, "AlreadyFunded"},
		{domain.ErrNotFunded, http.StatusConflict, "LoanNotFunded"},
		{domain.ErrAlreadyRepaid, http.StatusConflict, "AlreadyRepaid"},
		{domain.ErrAlreadyClaimed, http.StatusConflict, "AlreadyClaimed"},
		{domain.ErrExpired, http.StatusConflict, "LoanExpired"},
		{domain.ErrStillActive, http.StatusConflict, "LoanStillActive"},
		{domain.ErrIncorrectPaymentAmount, http.StatusUnprocessableEntity, "IncorrectPaymentAmount"},
		{domain.ErrArithmeticOverflow, http.StatusUnprocessableEntity, "ArithmeticOverflow"},
		{domain.ErrDivisionByZero, http.StatusUnprocessableEntity, "DivisionByZero"},
		{fmt.Errorf("deliver funding: %w", transfer.ErrTransferRejected), http.StatusBadGateway, "TransferRejected"},
		{errors.New("connection reset"), http.StatusInternalServerError, "Internal"},
	}
	for _, tt := range tests {
		status, body := mapError(tt.err)
		if status != tt.status || body.Code != tt.code {
			t.Errorf("mapError(%v) = %d %q, want %d %q", tt.err, status, body.Code, tt.status, tt.code)
		}
	}

	// internals never leak
	if _, body := mapError(errors.New("dsn user:secret")); body.Error != "internal error" {
		t.Fatalf("leaked error: %q", body.Error)
	}
}

func TestParseAt(t *testing.T) {
	want := time.Date(2025, 1, 6, 0, 30, 56, 0, time.UTC)
	for _, raw := range []string{"1736123456", "1736123456000", "2025-01-06T00:30:56Z", "2025-01-06T07:30:56+07:00"} {
		got, err := parseAt(raw)
		if err != nil || !got.Equal(want) {
			t.Errorf("parseAt(%q) = %s, %v", raw, got, err)
		}
	}
	if got, err := parseAt(""); err != nil || !got.IsZero() {
		t.Fatalf("empty: %s, %v", got, err)
	}
	for _, raw := range []string{"2025-01-06 00:30:56", "yesterday"} {
		if _, err := parseAt(raw); err == nil {
			t.Errorf("parseAt(%q) should fail", raw)
		}
	}
}

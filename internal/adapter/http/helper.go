package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	domain "loanledger/internal/domain/loan"
	"loanledger/internal/domain/transfer"
	"loanledger/pkg/id"

	"github.com/labstack/echo/v4"
)

// HeaderAccountID carries the caller's account on every request that acts
// on behalf of someone.
const HeaderAccountID = "Ax-Account-Id"

var errInternal = ErrorResponse{Error: "internal error", Code: "Internal"}

var statusByCode = map[string]int{
	"InvalidCollateral":      http.StatusBadRequest,
	"InvalidDuration":        http.StatusBadRequest,
	"LoanNotFound":           http.StatusNotFound,
	"AlreadyFunded":          http.StatusConflict,
	"LoanNotFunded":          http.StatusConflict,
	"AlreadyRepaid":          http.StatusConflict,
	"AlreadyClaimed":         http.StatusConflict,
	"LoanExpired":            http.StatusConflict,
	"LoanStillActive":        http.StatusConflict,
	"IncorrectPaymentAmount": http.StatusUnprocessableEntity,
	"ArithmeticOverflow":     http.StatusUnprocessableEntity,
	"DivisionByZero":         http.StatusUnprocessableEntity,
}

// mapError turns a usecase error into a status and body. Unknown errors
// become an opaque 500.
func mapError(err error) (int, ErrorResponse) {
	if errors.Is(err, transfer.ErrTransferRejected) {
		return http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: "TransferRejected"}
	}
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		return http.StatusInternalServerError, errInternal
	}
	return status, ErrorResponse{Error: err.Error(), Code: code}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: "BadRequest"})
}

func loanIDParam(c echo.Context) (uint64, error) {
	raw := c.Param("loan_id")
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid loan_id %q", raw)
	}
	return n, nil
}

func callerAccount(c echo.Context) (string, error) {
	acct := strings.TrimSpace(c.Request().Header.Get(HeaderAccountID))
	if acct == "" {
		return "", errors.New("missing " + HeaderAccountID)
	}
	if !id.IsHex32(acct) {
		return "", errors.New("invalid " + HeaderAccountID)
	}
	return acct, nil
}

// parseAt accepts epoch seconds, epoch milliseconds or RFC3339 with a zone.
// An empty value yields the zero time.
func parseAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 { // ms
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New("at must be epoch (s/ms) or RFC3339 with timezone")
}

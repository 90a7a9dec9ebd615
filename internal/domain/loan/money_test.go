package loan

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEther(t *testing.T) {
	wei, err := Ether("0.0001")
	if err != nil {
		t.Fatal(err)
	}
	if wei.String() != "100000000000000" {
		t.Fatalf("wei = %s", wei)
	}
	if _, err := Ether("0.0000000000000000001"); err == nil {
		t.Fatal("sub-wei amount must be rejected")
	}
	if _, err := Ether("abc"); err == nil {
		t.Fatal("want parse error")
	}
}

func TestMaxAmount(t *testing.T) {
	want := "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	if MaxAmount.String() != want {
		t.Fatalf("MaxAmount = %s", MaxAmount)
	}
	if err := CheckAmount(MaxAmount); err != nil {
		t.Fatal(err)
	}
	if err := CheckAmount(MaxAmount.Add(decimal.NewFromInt(1))); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("err = %v", err)
	}
	if err := CheckAmount(decimal.NewFromInt(-1)); err == nil {
		t.Fatal("negative must be rejected")
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNotFound, "LoanNotFound"},
		{ErrExpired, "LoanExpired"},
		{ErrStillActive, "LoanStillActive"},
		{fmt.Errorf("wrapped: %w", ErrNotFunded), "LoanNotFunded"},
		{errors.New("something else"), ""},
	}
	for _, tt := range tests {
		if got := Code(tt.err); got != tt.want {
			t.Errorf("Code(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

package http

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	domain "loanledger/internal/domain/loan"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex32Validation(t *testing.T) {
	type P struct {
		AccountID string `json:"account_id" validate:"hex32"`
	}
	cv := NewValidator()

	require.NoError(t, cv.Validate(P{AccountID: strings.Repeat("a", 32)}))

	for _, s := range []string{
		"",
		strings.Repeat("A", 32),
		"deadbeef",
		strings.Repeat("g", 32),
		strings.Repeat("a", 33),
	} {
		err := cv.Validate(P{AccountID: s})
		require.Error(t, err, s)
		assert.True(t, containsFieldMsg(ToFieldErrors(err), "account_id", "32-char lowercase hex"), "%q: %+v", s, ToFieldErrors(err))
	}
}

func TestWeiValidation(t *testing.T) {
	type P struct {
		Payment decimal.Decimal `json:"payment" validate:"wei"`
	}
	cv := NewValidator()

	for _, v := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(1), domain.MustEther("0.0001"), domain.MaxAmount} {
		assert.NoError(t, cv.Validate(P{Payment: v}), v.String())
	}
	for _, v := range []decimal.Decimal{
		decimal.NewFromInt(-1),
		decimal.RequireFromString("1.5"),
		domain.MaxAmount.Add(decimal.NewFromInt(1)),
	} {
		err := cv.Validate(P{Payment: v})
		require.Error(t, err, v.String())
		assert.True(t, containsFieldMsg(ToFieldErrors(err), "payment", "whole number of wei"), "%s: %+v", v, ToFieldErrors(err))
	}
}

func TestFieldMessages(t *testing.T) {
	type P struct {
		Name  string `json:"name" validate:"required"`
		Rate  int    `json:"interest_rate" validate:"gte=10"`
		Years int    `json:"duration_years,omitempty" validate:"lte=5"`
		Mail  string `validate:"email"`
	}
	err := NewValidator().Validate(P{Rate: 9, Years: 6, Mail: "nope"})
	require.Error(t, err)
	fe := ToFieldErrors(err)

	assert.True(t, containsFieldMsg(fe, "name", "is required"), "%+v", fe)
	assert.True(t, containsFieldMsg(fe, "interest_rate", "greater than or equal to 10"), "%+v", fe)
	assert.True(t, containsFieldMsg(fe, "duration_years", "less than or equal to 5"), "%+v", fe)
	// no json tag falls back to the Go field name
	assert.True(t, containsFieldMsg(fe, "Mail", "email validation failed"), "%+v", fe)
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	assert.Equal(t, []FieldError{{Field: "_", Message: "boom"}}, fe)
}

func TestToFieldErrors_Wrapped(t *testing.T) {
	type P struct {
		Payment decimal.Decimal `json:"payment" validate:"wei"`
	}
	err := NewValidator().Validate(P{Payment: decimal.NewFromInt(-5)})
	fe := ToFieldErrors(fmt.Errorf("bind: %w", err))
	assert.True(t, containsFieldMsg(fe, "payment", "whole number of wei"), "%+v", fe)
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

package loan

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SecondsPerYear is a Julian year (365.25 days).
const SecondsPerYear int64 = 31_557_600

// MaxDurationYears keeps due dates inside the SQL DATETIME range.
const MaxDurationYears = 1000

type InterestMode string

const (
	// InterestSimple charges rate% of the loan amount per whole year
	// elapsed, with a one-year minimum.
	InterestSimple InterestMode = "simple"
	// InterestLegacy reproduces the deployed contract bit for bit:
	// floor(rate/100) truncates to 0 for rates below 100, and repaying
	// within the first year divides by zero.
	InterestLegacy InterestMode = "legacy"
)

func ParseInterestMode(s string) (InterestMode, error) {
	switch m := InterestMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", InterestSimple:
		return InterestSimple, nil
	case InterestLegacy:
		return InterestLegacy, nil
	default:
		return "", fmt.Errorf("unknown interest mode %q", s)
	}
}

// DueDateFor returns start + years * SecondsPerYear.
func DueDateFor(start time.Time, years uint32) (time.Time, error) {
	if years > MaxDurationYears {
		return time.Time{}, ErrInvalidDuration
	}
	return start.Add(time.Duration(int64(years)*SecondsPerYear) * time.Second), nil
}

// YearsElapsed is floor((at - start) / SecondsPerYear), never negative.
func YearsElapsed(start, at time.Time) int64 {
	elapsed := at.Unix() - start.Unix()
	if elapsed <= 0 {
		return 0
	}
	return elapsed / SecondsPerYear
}

// Interest computes the interest owed on loanAmount after the given whole
// years under mode.
func Interest(mode InterestMode, loanAmount decimal.Decimal, rate uint32, years int64) (decimal.Decimal, error) {
	r := decimal.NewFromInt(int64(rate))
	hundred := decimal.NewFromInt(100)

	switch mode {
	case InterestLegacy:
		pct, _ := floorDiv(r, hundred)
		product, err := checked(pct.Mul(loanAmount))
		if err != nil {
			return decimal.Zero, err
		}
		return floorDiv(product, decimal.NewFromInt(years))
	case InterestSimple, "":
		if years < 1 {
			years = 1
		}
		interest, err := floorDiv(loanAmount.Mul(r).Mul(decimal.NewFromInt(years)), hundred)
		if err != nil {
			return decimal.Zero, err
		}
		return checked(interest)
	default:
		return decimal.Zero, fmt.Errorf("unknown interest mode %q", mode)
	}
}

// AmountDue is the principal plus interest owed if the loan were repaid at.
func (l *Loan) AmountDue(at time.Time, mode InterestMode) (decimal.Decimal, error) {
	interest, err := Interest(mode, l.LoanAmount, l.InterestRate, YearsElapsed(l.StartDate, at))
	if err != nil {
		return decimal.Zero, err
	}
	return checked(l.LoanAmount.Add(interest))
}

package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// New builds a requested loan. Nothing is mutated on error.
func New(borrower string, collateral decimal.Decimal, rate, years uint32, now time.Time) (*Loan, error) {
	if collateral.Sign() <= 0 {
		return nil, ErrInvalidCollateral
	}
	if err := CheckAmount(collateral); err != nil {
		return nil, err
	}
	amount, err := checked(collateral.Mul(decimal.NewFromInt(2)))
	if err != nil {
		return nil, err
	}
	start := now.UTC().Truncate(time.Second)
	due, err := DueDateFor(start, years)
	if err != nil {
		return nil, err
	}
	return &Loan{
		Borrower:       borrower,
		Collateral:     collateral,
		LoanAmount:     amount,
		InterestRate:   rate,
		DurationYears:  years,
		StartDate:      start,
		DueDate:        due,
		State:          StateRequested,
		StateUpdatedAt: start,
	}, nil
}

// Fund records lender as the funder. Only the first exact payment wins.
func (l *Loan) Fund(lender string, payment decimal.Decimal, now time.Time) error {
	if l.IsFunded {
		return ErrAlreadyFunded
	}
	if !payment.Equal(l.LoanAmount) {
		return ErrIncorrectPaymentAmount
	}
	l.Lender = &lender
	l.IsFunded = true
	l.setState(StateFunded, now)
	return nil
}

// Repay settles the loan with an exact payment of the amount due at now and
// releases the collateral. It returns the amount due and the collateral
// handed back to the borrower.
func (l *Loan) Repay(payment decimal.Decimal, now time.Time, mode InterestMode) (due, returned decimal.Decimal, err error) {
	if !l.IsFunded {
		return decimal.Zero, decimal.Zero, ErrNotFunded
	}
	if l.IsRepaid {
		return decimal.Zero, decimal.Zero, ErrAlreadyRepaid
	}
	if now.After(l.DueDate) {
		return decimal.Zero, decimal.Zero, ErrExpired
	}
	due, err = l.AmountDue(now, mode)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if !payment.Equal(due) {
		return decimal.Zero, decimal.Zero, ErrIncorrectPaymentAmount
	}
	returned = l.Collateral
	l.Collateral = decimal.Zero
	l.IsRepaid = true
	l.setState(StateRepaid, now)
	return due, returned, nil
}

// ClaimCollateral seizes the collateral of a funded loan past its due date.
// IsRepaid stays false; the defaulted state records the outcome.
func (l *Loan) ClaimCollateral(now time.Time) (decimal.Decimal, error) {
	if !l.IsFunded {
		return decimal.Zero, ErrNotFunded
	}
	if l.IsRepaid {
		return decimal.Zero, ErrAlreadyRepaid
	}
	if l.State == StateDefaulted {
		return decimal.Zero, ErrAlreadyClaimed
	}
	if !now.After(l.DueDate) {
		return decimal.Zero, ErrStillActive
	}
	seized := l.Collateral
	l.Collateral = decimal.Zero
	l.setState(StateDefaulted, now)
	return seized, nil
}

func (l *Loan) setState(s State, now time.Time) {
	l.State = s
	l.StateUpdatedAt = now.UTC()
}

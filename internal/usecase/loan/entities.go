package loan

import (
	"time"

	domain "loanledger/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type RequestLoanInput struct {
	Borrower      string
	Collateral    decimal.Decimal
	InterestRate  uint32
	DurationYears uint32
}

type FundLoanInput struct {
	LoanID  uint64
	Lender  string
	Payment decimal.Decimal
}

type RepayLoanInput struct {
	LoanID  uint64
	Payer   string
	Payment decimal.Decimal
}

type ClaimCollateralInput struct {
	LoanID uint64
	Caller string
}

type LoanDTO struct {
	ID            uint64          `json:"id"`
	Borrower      string          `json:"borrower"`
	Lender        *string         `json:"lender"`
	Collateral    decimal.Decimal `json:"collateral"`
	LoanAmount    decimal.Decimal `json:"loan_amount"`
	InterestRate  uint32          `json:"interest_rate"`
	DurationYears uint32          `json:"duration_years"`
	StartDate     time.Time       `json:"start_date"`
	DueDate       time.Time       `json:"due_date"`
	IsFunded      bool            `json:"is_funded"`
	IsRepaid      bool            `json:"is_repaid"`
	State         string          `json:"state"`
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		ID:            l.ID,
		Borrower:      l.Borrower,
		Lender:        l.Lender,
		Collateral:    l.Collateral,
		LoanAmount:    l.LoanAmount,
		InterestRate:  l.InterestRate,
		DurationYears: l.DurationYears,
		StartDate:     l.StartDate.UTC(),
		DueDate:       l.DueDate.UTC(),
		IsFunded:      l.IsFunded,
		IsRepaid:      l.IsRepaid,
		State:         string(l.State),
	}
}

type RepaymentDTO struct {
	Loan               *LoanDTO        `json:"loan"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	CollateralReturned decimal.Decimal `json:"collateral_returned"`
}

type ClaimDTO struct {
	Loan            *LoanDTO        `json:"loan"`
	CollateralTaken decimal.Decimal `json:"collateral_taken"`
}

type AmountDueDTO struct {
	LoanID       uint64          `json:"loan_id"`
	At           time.Time       `json:"at"`
	YearsElapsed int64           `json:"years_elapsed"`
	InterestMode string          `json:"interest_mode"`
	AmountDue    decimal.Decimal `json:"amount_due"`
}

// EscrowDTO compares the journal's view of held collateral with the sum of
// collateral on open loans; the two must always agree.
type EscrowDTO struct {
	JournalBalance decimal.Decimal `json:"journal_balance"`
	OpenCollateral decimal.Decimal `json:"open_collateral"`
	OpenLoans      int             `json:"open_loans"`
	Consistent     bool            `json:"consistent"`
}

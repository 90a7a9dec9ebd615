package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateRequested State = "requested"
	StateFunded    State = "funded"
	StateRepaid    State = "repaid"
	StateDefaulted State = "defaulted"
)

// Table: loans. Amounts are wei kept as varchar(78) so the whole uint256
// range survives MySQL DECIMAL's 65-digit cap and SQLite's numeric affinity.
type Loan struct {
	ID             uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Borrower       string          `gorm:"column:borrower;size:32;not null;index:idx_loans_borrower" json:"borrower"`
	Lender         *string         `gorm:"column:lender;size:32;index:idx_loans_lender" json:"lender"`
	Collateral     decimal.Decimal `gorm:"column:collateral;type:varchar(78);not null" json:"collateral"`
	LoanAmount     decimal.Decimal `gorm:"column:loan_amount;type:varchar(78);not null" json:"loan_amount"`
	InterestRate   uint32          `gorm:"column:interest_rate;not null" json:"interest_rate"`
	DurationYears  uint32          `gorm:"column:duration_years;not null" json:"duration_years"`
	StartDate      time.Time       `gorm:"column:start_date;not null" json:"start_date"`
	DueDate        time.Time       `gorm:"column:due_date;not null" json:"due_date"`
	IsFunded       bool            `gorm:"column:is_funded;not null" json:"is_funded"`
	IsRepaid       bool            `gorm:"column:is_repaid;not null" json:"is_repaid"`
	State          State           `gorm:"column:state;size:16;not null;index:idx_loans_state" json:"state"`
	StateUpdatedAt time.Time       `gorm:"column:state_updated_at" json:"state_updated_at"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Open reports whether the ledger still holds the loan's collateral.
func (l *Loan) Open() bool {
	return l.State == StateRequested || l.State == StateFunded
}

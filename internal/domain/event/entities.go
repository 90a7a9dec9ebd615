package event

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindLoanRequested     Kind = "LoanRequested"
	KindLoanFunded        Kind = "LoanFunded"
	KindLoanRepaid        Kind = "LoanRepaid"
	KindCollateralClaimed Kind = "CollateralClaimed"
)

// Table: loan_events (notification outbox)
type Event struct {
	ID         uint64              `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	EventID    string              `gorm:"column:event_id;type:char(36);not null;uniqueIndex:ux_loan_events_event_id" json:"event_id"`
	LoanID     uint64              `gorm:"column:loan_id;not null;index" json:"loan_id"`
	Kind       Kind                `gorm:"column:kind;size:32;not null" json:"kind"`
	Actor      string              `gorm:"column:actor;size:32" json:"actor,omitempty"`
	Amount     decimal.NullDecimal `gorm:"column:amount;type:varchar(78)" json:"amount"`
	OccurredAt time.Time           `gorm:"column:occurred_at;not null" json:"occurred_at"`
}

func (Event) TableName() string { return "loan_events" }

type Repository interface {
	Create(ctx context.Context, e *Event) error
	ListByLoanID(ctx context.Context, loanID uint64) ([]Event, error)
}

// Publisher pushes committed events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

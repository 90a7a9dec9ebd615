package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// EscrowAccount is the ledger's own custody account.
const EscrowAccount = "ledger"

var ErrTransferRejected = errors.New("transfer rejected by destination")

type Kind string

const (
	KindCollateralDeposit Kind = "collateral_deposit"
	KindFunding           Kind = "funding"
	KindRepayment         Kind = "repayment"
	KindCollateralReturn  Kind = "collateral_return"
	KindCollateralSeizure Kind = "collateral_seizure"
)

// Table: transfers. One row per movement of value, written in the same
// transaction as the loan transition that caused it.
type Transfer struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	TransferID  string          `gorm:"column:transfer_id;type:char(32);not null;uniqueIndex:ux_transfers_transfer_id" json:"transfer_id"`
	LoanID      uint64          `gorm:"column:loan_id;not null;index" json:"loan_id"`
	Kind        Kind            `gorm:"column:kind;size:24;not null" json:"kind"`
	FromAccount string          `gorm:"column:from_account;size:32;not null" json:"from"`
	ToAccount   string          `gorm:"column:to_account;size:32;not null" json:"to"`
	Amount      decimal.Decimal `gorm:"column:amount;type:varchar(78);not null" json:"amount"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Transfer) TableName() string { return "transfers" }

// Outbound reports whether value leaves the ledger's custody to an account
// that has to accept it.
func (t *Transfer) Outbound() bool { return t.ToAccount != EscrowAccount }

// EscrowDelta is the signed effect of t on the escrow balance.
func (t *Transfer) EscrowDelta() decimal.Decimal {
	switch {
	case t.ToAccount == EscrowAccount:
		return t.Amount
	case t.FromAccount == EscrowAccount:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}

type Repository interface {
	Create(ctx context.Context, t *Transfer) error
	ListByLoanID(ctx context.Context, loanID uint64) ([]Transfer, error)
	// Transfers that touch the escrow account, oldest first.
	ListEscrow(ctx context.Context) ([]Transfer, error)
}

// Gateway delivers value to an external account. An error aborts the
// enclosing ledger call.
type Gateway interface {
	Deliver(ctx context.Context, t *Transfer) error
}

// AcceptAll is the default gateway: every destination accepts.
type AcceptAll struct{}

func (AcceptAll) Deliver(context.Context, *Transfer) error { return nil }

// RejectAccounts refuses deliveries to the listed accounts.
type RejectAccounts map[string]bool

func (r RejectAccounts) Deliver(_ context.Context, t *Transfer) error {
	if r[t.ToAccount] {
		return ErrTransferRejected
	}
	return nil
}

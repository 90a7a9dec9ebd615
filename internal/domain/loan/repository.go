package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	// Row-locking read; only meaningful inside a transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	ListByAccount(ctx context.Context, account string) ([]Loan, error)
	// Loans whose collateral is still held by the ledger.
	ListOpen(ctx context.Context) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}

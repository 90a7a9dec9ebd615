package transfermock

import (
	"context"

	domain "loanledger/internal/domain/transfer"
)

var (
	_ domain.Repository = (*Repo)(nil)
	_ domain.Gateway    = GatewayFunc(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, t *domain.Transfer) error
	ListByLoanIDFn func(ctx context.Context, loanID uint64) ([]domain.Transfer, error)
	ListEscrowFn   func(ctx context.Context) ([]domain.Transfer, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transfer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Transfer, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListEscrow(ctx context.Context) ([]domain.Transfer, error) {
	if m.ListEscrowFn != nil {
		return m.ListEscrowFn(ctx)
	}
	return nil, context.Canceled
}

// GatewayFunc adapts a function to domain.Gateway.
type GatewayFunc func(ctx context.Context, t *domain.Transfer) error

func (f GatewayFunc) Deliver(ctx context.Context, t *domain.Transfer) error { return f(ctx, t) }

package uow

import (
	"context"

	"loanledger/internal/domain/event"
	"loanledger/internal/domain/loan"
	"loanledger/internal/domain/transfer"
)

type Repos struct {
	Loans     loan.Repository
	Transfers transfer.Repository
	Events    event.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in; loan.ErrNotFound if missing
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan) error) error
}

package mysql

import (
	"context"
	"errors"
	"fmt"

	loanDomain "loanledger/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *LoanRepository) Tx(ctx context.Context, fn func(repo loanDomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LoanRepository{db: tx})
	})
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return notFound(&out, res.Error)
}

// GetByIDForUpdate issues SELECT ... FOR UPDATE; SQLite drops the clause and
// relies on its single writer.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return notFound(&out, res.Error)
}

func (r *LoanRepository) ListByAccount(ctx context.Context, account string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Where("borrower = ? OR lender = ?", account, account).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListOpen(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	err := r.db.WithContext(ctx).
		Where("state IN ?", []loanDomain.State{loanDomain.StateRequested, loanDomain.StateFunded}).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func notFound(l *loanDomain.Loan, err error) (*loanDomain.Loan, error) {
	switch {
	case err == nil:
		return l, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, loanDomain.ErrNotFound
	default:
		return nil, fmt.Errorf("load loan: %w", err)
	}
}

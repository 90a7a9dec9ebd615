package mysql

import (
	"context"

	transferDomain "loanledger/internal/domain/transfer"

	"gorm.io/gorm"
)

type TransferRepository struct{ db *gorm.DB }

func NewTransferRepository(db *gorm.DB) *TransferRepository { return &TransferRepository{db: db} }

func (r *TransferRepository) Create(ctx context.Context, t *transferDomain.Transfer) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransferRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]transferDomain.Transfer, error) {
	var out []transferDomain.Transfer
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *TransferRepository) ListEscrow(ctx context.Context) ([]transferDomain.Transfer, error) {
	var out []transferDomain.Transfer
	err := r.db.WithContext(ctx).
		Where("from_account = ? OR to_account = ?", transferDomain.EscrowAccount, transferDomain.EscrowAccount).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

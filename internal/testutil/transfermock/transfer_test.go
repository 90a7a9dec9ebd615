package transfermock

import (
	"context"
	"errors"
	"testing"

	domain "loanledger/internal/domain/transfer"
)

func TestRepo(t *testing.T) {
	ctx := context.Background()
	tr := &domain.Transfer{TransferID: "T-1", LoanID: 7}

	var created *domain.Transfer
	m := &Repo{
		CreateFn: func(_ context.Context, got *domain.Transfer) error {
			created = got
			return nil
		},
		ListByLoanIDFn: func(_ context.Context, loanID uint64) ([]domain.Transfer, error) {
			return []domain.Transfer{{LoanID: loanID}}, nil
		},
		ListEscrowFn: func(context.Context) ([]domain.Transfer, error) {
			return []domain.Transfer{*tr}, nil
		},
	}
	if err := m.Create(ctx, tr); err != nil || created != tr {
		t.Fatalf("Create: %v", err)
	}
	ts, err := m.ListByLoanID(ctx, 7)
	if err != nil || len(ts) != 1 || ts[0].LoanID != 7 {
		t.Fatalf("ListByLoanID: %+v, %v", ts, err)
	}
	if ts, err := m.ListEscrow(ctx); err != nil || len(ts) != 1 {
		t.Fatalf("ListEscrow: %+v, %v", ts, err)
	}

	// Defaults
	m = &Repo{}
	if err := m.Create(ctx, tr); err != nil {
		t.Fatalf("Create default: %v", err)
	}
	if _, err := m.ListByLoanID(ctx, 7); err != context.Canceled {
		t.Fatalf("ListByLoanID default: %v", err)
	}
	if _, err := m.ListEscrow(ctx); err != context.Canceled {
		t.Fatalf("ListEscrow default: %v", err)
	}
}

func TestGatewayFunc(t *testing.T) {
	sentinel := errors.New("refused")
	g := GatewayFunc(func(_ context.Context, tr *domain.Transfer) error {
		if tr.ToAccount == "x" {
			return sentinel
		}
		return nil
	})
	if err := g.Deliver(context.Background(), &domain.Transfer{ToAccount: "x"}); !errors.Is(err, sentinel) {
		t.Fatalf("err = %v", err)
	}
	if err := g.Deliver(context.Background(), &domain.Transfer{ToAccount: "y"}); err != nil {
		t.Fatalf("err = %v", err)
	}
}

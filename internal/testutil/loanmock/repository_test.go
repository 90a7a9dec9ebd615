package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "loanledger/internal/domain/loan"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{ID: 1}

	// Uses provided func
	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Loan) error {
			called = true
			if gotCtx != ctx {
				t.Fatalf("Create ctx mismatch")
			}
			if got != l {
				t.Fatalf("Create arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op, nil error
	m = &Repo{}
	if err := m.Create(ctx, l); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_GetByID(t *testing.T) {
	ctx := context.Background()
	want := &domain.Loan{ID: 2}

	m := &Repo{
		GetByIDFn: func(_ context.Context, id uint64) (*domain.Loan, error) {
			if id != 2 {
				t.Fatalf("GetByID id mismatch: got %d", id)
			}
			return want, nil
		},
		GetByIDForUpdateFn: func(_ context.Context, id uint64) (*domain.Loan, error) {
			return nil, domain.ErrNotFound
		},
	}
	got, err := m.GetByID(ctx, 2)
	if err != nil || got != want {
		t.Fatalf("GetByID: got %+v, %v", got, err)
	}
	if _, err := m.GetByIDForUpdate(ctx, 2); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByIDForUpdate: got %v", err)
	}

	// Default (nil func) → context.Canceled
	m = &Repo{}
	if _, err := m.GetByID(ctx, 2); err != context.Canceled {
		t.Fatalf("GetByID default: want context.Canceled, got %v", err)
	}
	if _, err := m.GetByIDForUpdate(ctx, 2); err != context.Canceled {
		t.Fatalf("GetByIDForUpdate default: want context.Canceled, got %v", err)
	}
}

func TestRepo_Lists(t *testing.T) {
	ctx := context.Background()
	m := &Repo{
		ListByAccountFn: func(_ context.Context, account string) ([]domain.Loan, error) {
			return []domain.Loan{{Borrower: account}}, nil
		},
		ListOpenFn: func(context.Context) ([]domain.Loan, error) {
			return []domain.Loan{{ID: 1}, {ID: 2}}, nil
		},
	}
	ls, err := m.ListByAccount(ctx, "acct")
	if err != nil || len(ls) != 1 || ls[0].Borrower != "acct" {
		t.Fatalf("ListByAccount: %+v, %v", ls, err)
	}
	open, err := m.ListOpen(ctx)
	if err != nil || len(open) != 2 {
		t.Fatalf("ListOpen: %+v, %v", open, err)
	}

	m = &Repo{}
	if _, err := m.ListByAccount(ctx, "acct"); err != context.Canceled {
		t.Fatalf("ListByAccount default: %v", err)
	}
	if _, err := m.ListOpen(ctx); err != context.Canceled {
		t.Fatalf("ListOpen default: %v", err)
	}
}

func TestRepo_Save(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{ID: 3}

	wantErr := errors.New("save-fail")
	m := &Repo{SaveFn: func(context.Context, *domain.Loan) error { return wantErr }}
	if err := m.Save(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Save: want %v, got %v", wantErr, err)
	}

	m = &Repo{}
	if err := m.Save(ctx, l); err != nil {
		t.Fatalf("Save default: want nil, got %v", err)
	}
}

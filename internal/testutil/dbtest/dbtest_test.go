package dbtest

import (
	"testing"

	"loanledger/internal/domain/event"
	"loanledger/internal/domain/loan"
	"loanledger/internal/domain/transfer"
)

func TestOpen_MigratesLedgerTables(t *testing.T) {
	gdb := Open(t)
	for _, model := range []any{&loan.Loan{}, &transfer.Transfer{}, &event.Event{}} {
		if !gdb.Migrator().HasTable(model) {
			t.Fatalf("table for %T missing", model)
		}
	}
}

func TestOpen_Isolated(t *testing.T) {
	a, b := Open(t), Open(t)
	if err := a.Create(&loan.Loan{Borrower: "a", State: loan.StateRequested}).Error; err != nil {
		t.Fatal(err)
	}
	var n int64
	if err := b.Model(&loan.Loan{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("second database sees %d loans", n)
	}
}

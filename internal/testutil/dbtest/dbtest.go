// Package dbtest opens throwaway SQLite databases carrying the ledger schema.
package dbtest

import (
	"path/filepath"
	"testing"

	"loanledger/internal/infrastructure/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated database in a temp file that is removed with t.
// A file rather than ":memory:" keeps every pooled connection on the same data.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	gdb, err := db.OpenGormWithDialector(sqlite.Open(path+"?_busy_timeout=5000"), db.WithLogLevel(logger.Silent))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

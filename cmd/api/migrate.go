package main

import (
	"log/slog"

	"loanledger/internal/infrastructure/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the ledger tables and exit",
	Run: func(cmd *cobra.Command, args []string) {
		gdb, err := db.Open(cfg)
		if err != nil {
			fatal("Failed to open database", err)
		}
		if err := db.Migrate(gdb); err != nil {
			fatal("Failed to migrate", err)
		}
		slog.Info("migrate: done", "driver", cfg.DBDriver)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

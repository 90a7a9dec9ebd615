package main

import (
	"fmt"
	"os"

	"loanledger/internal/config"
	"loanledger/internal/infrastructure/logger"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "loanledger-api",
	Short: "Collateralized peer-to-peer loan ledger",
	Long: `loanledger-api serves the loan ledger over HTTP. Borrowers lock
collateral to request a loan, lenders fund it, and the borrower repays
before the due date or the lender claims the collateral after it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		if verbose {
			c.LogLevel = "debug"
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		logger.Setup(os.Stderr, logger.Config{Format: c.LogFormat, Level: c.LogLevel})
		cfg = c
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cfg)
	},
}

// Execute runs the root command; with no subcommand it serves the API.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_FILE"), "YAML config file; environment variables override it")
}

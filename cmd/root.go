// Package cmd implements the tenbuy CLI commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagDryRun bool
	flagHeaded bool
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:   "tenbuy",
	Short: "Budget-gated automatic voucher purchase",
	Long:  "Buy the configured 10bis voucher once, if the remaining daily and monthly allowance covers it.",
	RunE:  runRun,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Run every step except the final order commit")
	rootCmd.PersistentFlags().BoolVar(&flagHeaded, "headed", false, "Show the browser window")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tenbis-tools/tenbuy/internal/cli"
	"github.com/tenbis-tools/tenbuy/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [vendor]")
	fmt.Printf("    Base URL:   %s\n", cfg.Vendor.BaseURL)
	fmt.Printf("    First name: %s\n", orUnset(cfg.Vendor.FirstName))
	fmt.Printf("    Email:      %s\n", maskEmail(config.GetEmail(cfg)))
	fmt.Println()

	fmt.Println("  [item]")
	fmt.Printf("    URL:   %s\n", cfg.Item.URL)
	fmt.Printf("    Price: %s\n", cli.FormatAmount(cfg.Item.PriceILS))
	fmt.Println()

	fmt.Println("  [budget]")
	boundary := "inclusive (price may equal remaining)"
	if cfg.Budget.ExclusiveBoundary {
		boundary = "exclusive (price must be below remaining)"
	}
	fmt.Printf("    Boundary: %s\n", boundary)
	fmt.Println()

	fmt.Println("  [browser]")
	fmt.Printf("    User data dir: %s\n", cfg.Browser.UserDataDir)
	fmt.Printf("    Headless:      %v\n", cfg.Browser.Headless)
	fmt.Printf("    Timeouts:      nav %v, step %v\n", cfg.NavTimeout(), cfg.StepTimeout())
	fmt.Println()

	fmt.Println("  [artifacts]")
	fmt.Printf("    Screenshots: %s\n", cfg.Artifacts.ScreenshotsDir)
	fmt.Printf("    Orders:      %s\n", cfg.Artifacts.OrdersDir)
	fmt.Println()

	fmt.Println("  [daemon]")
	fmt.Printf("    Interval: %dh\n", cfg.Daemon.IntervalHours)
	fmt.Printf("    Addr:     %s\n", cfg.Daemon.Addr)
	fmt.Println()

	fmt.Printf("  Journal: %s\n", config.JournalPath())
	fmt.Println()
	fmt.Println("  Run `tenbuy setup` to reconfigure.")
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "not configured"
	}
	return s
}

func maskEmail(email string) string {
	if email == "" {
		return "not configured"
	}
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

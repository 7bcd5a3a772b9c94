package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tenbis-tools/tenbuy/internal/balance"
	"github.com/tenbis-tools/tenbuy/internal/browser"
	"github.com/tenbis-tools/tenbuy/internal/cli"
	"github.com/tenbis-tools/tenbuy/internal/config"
	"github.com/tenbis-tools/tenbuy/internal/gate"
	"github.com/tenbis-tools/tenbuy/internal/session"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Read and show the remaining allowance without purchasing",
	RunE:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	progress("Launching browser...")
	sess, err := browser.Launch(browser.LaunchConfig{
		UserDataDir: cfg.Browser.UserDataDir,
		Headless:    cfg.Browser.Headless && !flagHeaded,
		NavTimeout:  cfg.NavTimeout(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	page := sess.Page()
	if err := page.Goto(ctx, cfg.Vendor.BaseURL); err != nil {
		return err
	}
	if err := session.EnsureLoggedIn(ctx, page, config.GetEmail(cfg)); err != nil {
		return err
	}

	progress("Reading transactions report...")
	a, err := balance.New(page, cfg.Vendor.FirstName, cfg.NavTimeout()).Read(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("REMAINING ALLOWANCE"))
	fmt.Println()
	fmt.Print(cli.RenderAllowance(a))
	fmt.Println()

	policy := gate.Policy{ExclusiveBoundary: cfg.Budget.ExclusiveBoundary}
	v := policy.Decide(a, cfg.Item.PriceILS)
	if v.Proceed {
		fmt.Printf("  A run now would purchase (%s item fits the allowance).\n",
			cli.FormatAmount(cfg.Item.PriceILS))
	} else {
		fmt.Printf("  A run now would skip: %s.\n", cli.FormatBlockReason(v.Reason, v.Shortfall))
	}
	fmt.Println()
	return nil
}

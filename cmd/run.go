package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tenbis-tools/tenbuy/internal/balance"
	"github.com/tenbis-tools/tenbuy/internal/browser"
	"github.com/tenbis-tools/tenbuy/internal/checkout"
	"github.com/tenbis-tools/tenbuy/internal/cli"
	"github.com/tenbis-tools/tenbuy/internal/config"
	"github.com/tenbis-tools/tenbuy/internal/gate"
	"github.com/tenbis-tools/tenbuy/internal/model"
	"github.com/tenbis-tools/tenbuy/internal/record"
	"github.com/tenbis-tools/tenbuy/internal/runner"
	"github.com/tenbis-tools/tenbuy/internal/session"
	"github.com/tenbis-tools/tenbuy/internal/store"
)

// Abandoned locks older than this are presumed left by a killed run.
const lockStaleAfter = time.Hour

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Perform one budget-gated purchase invocation",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	mode := model.RunMode{DryRun: flagDryRun || cfg.General.DryRun}

	journal, err := store.Open(config.JournalPath())
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	release, err := journal.AcquireLock(lockStaleAfter)
	if err != nil {
		if errors.Is(err, store.ErrLocked) {
			return errors.New("another run is in flight; refusing to overlap")
		}
		return err
	}
	defer release()

	o, err := performRun(context.Background(), cfg, journal, mode)
	if err != nil {
		// The runner never started; journal the invocation anyway so the
		// audit trail has a row for it.
		_ = journal.Append(setupFailure(mode, err))
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("TENBUY RUN"))
	fmt.Println()
	if o.Allowance != nil {
		fmt.Print(cli.RenderAllowance(*o.Allowance))
		fmt.Println()
	}
	fmt.Print(cli.RenderOutcome(o))
	fmt.Println()

	// Done/Skipped exit zero; anything else surfaces as a process failure.
	switch o.Kind {
	case model.OutcomePurchased, model.OutcomeSimulated, model.OutcomeSkipped:
		return nil
	case model.OutcomePurchasedUnconfirmed:
		return fmt.Errorf("order placed but confirmation artifacts are missing: %v", o.Err)
	default:
		return fmt.Errorf("run failed at %s: %v", o.Stage, o.Err)
	}
}

// performRun establishes the authenticated page and hands it to the runner.
// The journal row is written by the runner before this returns.
func performRun(ctx context.Context, cfg config.Config, journal *store.Journal, mode model.RunMode) (model.Outcome, error) {
	progress("Launching browser...")
	sess, err := browser.Launch(browser.LaunchConfig{
		UserDataDir: cfg.Browser.UserDataDir,
		Headless:    cfg.Browser.Headless && !flagHeaded,
		NavTimeout:  cfg.NavTimeout(),
	})
	if err != nil {
		return model.Outcome{}, err
	}
	defer func() { _ = sess.Close() }()

	page := sess.Page()
	if err := page.Goto(ctx, cfg.Vendor.BaseURL); err != nil {
		return model.Outcome{}, err
	}

	progress("Checking session...")
	if err := session.EnsureLoggedIn(ctx, page, config.GetEmail(cfg)); err != nil {
		return model.Outcome{}, err
	}

	r := runner.New(
		balance.New(page, cfg.Vendor.FirstName, cfg.NavTimeout()),
		gate.Policy{ExclusiveBoundary: cfg.Budget.ExclusiveBoundary},
		checkout.New(page, cfg.StepTimeout()),
		record.New(page, cfg.Artifacts.ScreenshotsDir, cfg.Artifacts.OrdersDir),
		journal,
	)

	progress("Running purchase flow...")
	item := model.Item{URL: cfg.Item.URL, Price: cfg.Item.PriceILS}
	return r.Run(ctx, item, mode), nil
}

func progress(msg string) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  %s\n", msg)
}

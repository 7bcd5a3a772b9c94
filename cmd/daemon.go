package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tenbis-tools/tenbuy/internal/config"
	"github.com/tenbis-tools/tenbuy/internal/daemon"
	"github.com/tenbis-tools/tenbuy/internal/model"
	"github.com/tenbis-tools/tenbuy/internal/store"
)

var (
	flagDaemonAddr       string
	flagDaemonInterval   time.Duration
	flagDaemonRunOnStart bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run purchases on a schedule with an HTTP status endpoint",
	Long: "Invokes the purchase flow once per interval. The purchase itself is\n" +
		"identical to `tenbuy run`; each tick takes the run lock, so a manual run\n" +
		"never overlaps a scheduled one.",
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.Flags().DurationVar(&flagDaemonInterval, "interval", 0, "Run interval (default from config)")
	daemonCmd.Flags().BoolVar(&flagDaemonRunOnStart, "run-on-start", false, "Invoke immediately instead of waiting for the first tick")
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(_ *cobra.Command, _ []string) error {
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

	interval := flagDaemonInterval
	if interval == 0 {
		interval = time.Duration(cfg.Daemon.IntervalHours) * time.Hour
	}
	addr := flagDaemonAddr
	if addr == "" {
		addr = cfg.Daemon.Addr
	}

	runFn := func(ctx context.Context) model.Outcome {
		release, err := journal.AcquireLock(lockStaleAfter)
		if err != nil {
			if errors.Is(err, store.ErrLocked) {
				return setupFailure(mode, errors.New("another run is in flight"))
			}
			return setupFailure(mode, err)
		}
		defer release()

		o, err := performRun(ctx, cfg, journal, mode)
		if err != nil {
			// Browser or login never came up; journal it as a failed run so
			// the audit trail has a row for this invocation too.
			o = setupFailure(mode, err)
			if jerr := journal.Append(o); jerr != nil {
				err = fmt.Errorf("%v (journal: %v)", err, jerr)
				o.Err = err
			}
		}
		return o
	}

	svc := daemon.New(daemon.Config{
		Interval:   interval,
		Addr:       addr,
		RunOnStart: flagDaemonRunOnStart,
	}, runFn)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("  tenbuy daemon: every %v, status at http://%s/v1/status\n", interval, addr)
	return svc.Run(ctx)
}

// setupFailure shapes an infrastructure failure (lock, browser, login) as a
// run that failed before the balance could be read.
func setupFailure(mode model.RunMode, err error) model.Outcome {
	now := time.Now()
	return model.Outcome{
		RunID:      uuid.NewString(),
		Kind:       model.OutcomeFailed,
		StartedAt:  now,
		FinishedAt: now,
		Mode:       mode,
		Stage:      model.StageReadBalance,
		Err:        fmt.Errorf("%w: %v", model.ErrNavigation, err),
	}
}

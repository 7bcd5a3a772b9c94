package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tenbis-tools/tenbuy/internal/cli"
	"github.com/tenbis-tools/tenbuy/internal/config"
	"github.com/tenbis-tools/tenbuy/internal/model"
	"github.com/tenbis-tools/tenbuy/internal/store"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the run journal",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Max runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	journal, err := store.Open(config.JournalPath())
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	runs, err := journal.Recent(flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("\n  No runs recorded yet.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("RUN HISTORY"))
	fmt.Println()

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			cli.FormatTimestamp(r.StartedAt),
			cli.FormatOutcome(model.OutcomeKind(r.Outcome)),
			historyDetail(r),
			r.ConfirmationID,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Started", "Outcome", "Detail", "Confirmation"},
		Rows:    rows,
	}))
	return nil
}

func historyDetail(r store.Run) string {
	switch model.OutcomeKind(r.Outcome) {
	case model.OutcomeSkipped:
		shortfall := 0.0
		if r.Shortfall != nil {
			shortfall = *r.Shortfall
		}
		return cli.FormatBlockReason(model.BlockReason(r.BlockReason), shortfall)
	case model.OutcomeFailed, model.OutcomePurchasedUnconfirmed:
		return r.Stage
	default:
		if r.DailyRemaining != nil {
			return fmt.Sprintf("daily %s left", cli.FormatAmount(*r.DailyRemaining-r.ItemPrice))
		}
		return ""
	}
}

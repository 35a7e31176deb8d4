package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hashmark/internal/bench"
	"hashmark/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect persisted benchmark runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tWORKERS\tCREATED")
		for _, run := range runs {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n",
				run.ID, run.Label, run.Concurrency, run.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var historyCompareCmd = &cobra.Command{
	Use:   "compare <prev-run-id> <curr-run-id>",
	Short: "Diff throughput between two persisted runs",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		prevID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		currID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[1])
		}

		store, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer store.Close()

		prev, err := runSummaries(store, prevID)
		if err != nil {
			return err
		}
		curr, err := runSummaries(store, currID)
		if err != nil {
			return err
		}

		diffs := history.CompareRuns(prev, curr)
		if len(diffs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No overlapping algorithm/size groups between the two runs.")
			return nil
		}
		for _, diff := range diffs {
			fmt.Fprintln(cmd.OutOrStdout(), diff)
		}
		return nil
	},
}

func openHistoryStore() (history.Store, error) {
	return history.NewStore(history.StoreConfig{
		Driver: viper.GetString("history.driver"),
		DSN:    viper.GetString("history.dsn"),
	})
}

func runSummaries(store history.Store, runID int64) ([]bench.SummaryRow, error) {
	samples, err := store.RunSamples(runID)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("run %d has no samples", runID)
	}
	rs := bench.NewResultStore()
	for _, s := range samples {
		rs.Append(s)
	}
	return rs.Summaries(), nil
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyCompareCmd)
	historyCmd.PersistentFlags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list")
}

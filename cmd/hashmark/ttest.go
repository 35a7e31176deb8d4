package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hashmark/internal/report"
	"hashmark/internal/stats"
)

var (
	ttestPairs    []string
	ttestOutput   string
	ttestBySize   bool
	ttestDescribe bool
)

var ttestCmd = &cobra.Command{
	Use:   "ttest <timing.csv>",
	Short: "Compare algorithm pairs from a timing CSV with Welch's t-test",
	Long: `Reads per-pass timings from a previously written timing CSV and runs
Welch's two-sample t-test for each requested algorithm pair. Pairs with fewer
than two samples on either side are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runTTest,
}

func init() {
	rootCmd.AddCommand(ttestCmd)
	ttestCmd.Flags().StringSliceVar(&ttestPairs, "pairs",
		[]string{"blake3:sha256", "blake2s:blake2b"}, "Algorithm pairs to compare")
	ttestCmd.Flags().StringVarP(&ttestOutput, "output", "o", "", "Write results to this CSV file")
	ttestCmd.Flags().BoolVar(&ttestBySize, "by-size", true, "Compare per data size instead of pooled")
	ttestCmd.Flags().BoolVar(&ttestDescribe, "describe", false, "Print descriptive statistics per algorithm")
}

func runTTest(cmd *cobra.Command, args []string) error {
	observations, err := report.ReadTimingCSV(args[0])
	if err != nil {
		return fmt.Errorf("failed to read timing CSV: %w", err)
	}
	if len(observations) == 0 {
		return fmt.Errorf("no observations in %s", args[0])
	}

	pairs := make([]stats.Pair, 0, len(ttestPairs))
	for _, raw := range ttestPairs {
		pair, err := stats.ParsePair(raw)
		if err != nil {
			return err
		}
		pairs = append(pairs, pair)
	}

	results := stats.Compare(observations, pairs, ttestBySize)
	report.RenderComparisonTable(cmd.OutOrStdout(), results)

	if ttestDescribe {
		byAlgo := stats.DescribeByAlgorithm(observations)
		order := make([]string, 0, len(byAlgo))
		seen := make(map[string]bool)
		for _, obs := range observations {
			name := strings.ToLower(obs.Algorithm)
			if !seen[name] {
				seen[name] = true
				order = append(order, name)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout())
		report.RenderDescriptiveTable(cmd.OutOrStdout(), byAlgo, order)
	}

	if ttestOutput != "" {
		if err := report.WriteTTestCSV(ttestOutput, results); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults written to %s\n", ttestOutput)
	}
	return nil
}

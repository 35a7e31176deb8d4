package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hashmark/internal/report"
	"hashmark/internal/stats"
)

var (
	reportMarkdown bool
	reportChart    string
)

var reportCmd = &cobra.Command{
	Use:   "report <summary.csv>",
	Short: "Render a benchmark report from a summary CSV",
	Long: `Reads an aggregated summary CSV and renders it as a terminal table,
a styled markdown report, or a speed chart PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolVar(&reportMarkdown, "markdown", false, "Render the report as styled markdown")
	reportCmd.Flags().StringVar(&reportChart, "chart", "", "Write a speed chart PNG to this path")
}

func runReport(cmd *cobra.Command, args []string) error {
	rows, err := report.ReadSummaryCSV(args[0])
	if err != nil {
		return fmt.Errorf("failed to read summary CSV: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no rows in %s", args[0])
	}

	if reportMarkdown {
		md := report.BuildMarkdown(rows, []stats.ComparisonResult{})
		rendered, err := report.RenderMarkdown(md)
		if err != nil {
			// Fall back to the raw markdown when no TTY style applies.
			fmt.Fprintln(cmd.OutOrStdout(), md)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), rendered)
		}
	} else {
		report.RenderSummaryTable(cmd.OutOrStdout(), rows)
	}

	if reportChart != "" {
		if err := report.WriteSpeedChart(reportChart, rows); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nChart written to %s\n", reportChart)
	}
	return nil
}

package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"hashmark/internal/bench"
	"hashmark/internal/stats"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

// RenderSummaryTable writes an aligned summary table to w.
func RenderSummaryTable(w io.Writer, rows []bench.SummaryRow) {
	fmt.Fprintln(w, titleStyle.Render("Benchmark Summary"))

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tSIZE (MB)\tITERATIONS\tTOTAL (ms)\tAVG (ms)\tSPEED (MBps)")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
			r.Algorithm, r.DataSizeMB, r.Iterations, r.TotalTimeMS, r.AvgTimeMS, r.SpeedMBps)
	}
	tw.Flush()
}

// RenderComparisonTable writes Welch t-test results to w.
func RenderComparisonTable(w io.Writer, results []stats.ComparisonResult) {
	fmt.Fprintln(w, titleStyle.Render("Pairwise Comparisons (Welch's t-test)"))

	if len(results) == 0 {
		fmt.Fprintln(w, "No comparisons computable (need at least 2 samples per side).")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "SIZE (MB)\tALGORITHM 1\tALGORITHM 2\tT-STATISTIC\tP-VALUE")
	for _, r := range results {
		size := "all"
		if r.DataSizeMB != nil {
			size = fmt.Sprintf("%d", *r.DataSizeMB)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%.6f\n",
			size, r.AlgorithmA, r.AlgorithmB, r.TStatistic, r.PValue)
	}
	tw.Flush()
}

// RenderDescriptiveTable writes per-algorithm descriptive statistics to w.
func RenderDescriptiveTable(w io.Writer, byAlgo map[string]stats.Descriptive, order []string) {
	fmt.Fprintln(w, titleStyle.Render("Descriptive Statistics"))

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tN\tMEAN\tSTDDEV\tMIN\tMEDIAN\tMAX")
	for _, algo := range order {
		d, ok := byAlgo[algo]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n",
			algo, d.N, d.Mean, d.StdDev, d.Min, d.Median, d.Max)
	}
	tw.Flush()
}

// RenderErrors lists failed tasks.
func RenderErrors(w io.Writer, errs []bench.TaskError) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Failed Tasks (%d)", len(errs))))
	for _, e := range errs {
		fmt.Fprintf(w, "  %s: %v\n", e.Task, e.Err)
	}
}

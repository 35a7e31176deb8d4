package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"hashmark/internal/bench"
	"hashmark/internal/stats"
)

// BuildMarkdown assembles a markdown report from summaries and comparisons.
func BuildMarkdown(rows []bench.SummaryRow, results []stats.ComparisonResult) string {
	var b strings.Builder

	b.WriteString("# Hash Benchmark Report\n\n")
	b.WriteString("## Summary\n\n")
	b.WriteString("| Algorithm | Data Size (MB) | Iterations | Total Time (ms) | Avg Time (ms) | Speed (MBps) |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %d | %d | %.2f | %.2f | %.2f |\n",
			r.Algorithm, r.DataSizeMB, r.Iterations, r.TotalTimeMS, r.AvgTimeMS, r.SpeedMBps)
	}

	b.WriteString("\n## Pairwise Comparisons (Welch's t-test)\n\n")
	if len(results) == 0 {
		b.WriteString("_No comparisons computable._\n")
		return b.String()
	}
	b.WriteString("| Data Size (MB) | Algorithm 1 | Algorithm 2 | T-Statistic | P-Value |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, r := range results {
		size := "all"
		if r.DataSizeMB != nil {
			size = fmt.Sprintf("%d", *r.DataSizeMB)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %.4f | %.6f |\n",
			size, r.AlgorithmA, r.AlgorithmB, r.TStatistic, r.PValue)
	}
	return b.String()
}

// RenderMarkdown renders markdown for terminal display.
func RenderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(110),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

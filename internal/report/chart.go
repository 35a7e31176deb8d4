package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"hashmark/internal/bench"
)

// WriteSpeedChart renders throughput vs data size, one line per algorithm,
// as a PNG at path.
func WriteSpeedChart(path string, rows []bench.SummaryRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("no summary rows to chart")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	byAlgo := make(map[string]plotter.XYs)
	var order []string
	for _, r := range rows {
		algo := string(r.Algorithm)
		if _, seen := byAlgo[algo]; !seen {
			order = append(order, algo)
		}
		byAlgo[algo] = append(byAlgo[algo], plotter.XY{
			X: float64(r.DataSizeMB),
			Y: r.SpeedMBps,
		})
	}

	p := plot.New()
	p.Title.Text = "Hashing Speed by Data Size"
	p.X.Label.Text = "Data Size (MB)"
	p.Y.Label.Text = "Speed (MBps)"
	p.Legend.Top = true

	var args []interface{}
	for _, algo := range order {
		points := byAlgo[algo]
		sort.Slice(points, func(i, j int) bool { return points[i].X < points[j].X })
		args = append(args, algo, points)
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return fmt.Errorf("failed to add chart series: %w", err)
	}

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

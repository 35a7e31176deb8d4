package history

import (
	"fmt"

	"hashmark/internal/bench"
)

// SpeedDiff is the percentage change in throughput for one (algorithm, size)
// group between two runs. Negative means the current run is slower.
type SpeedDiff struct {
	Algorithm   string
	DataSizeMB  uint
	PrevMBps    float64
	CurrMBps    float64
	DiffPercent float64
}

func (d SpeedDiff) String() string {
	return fmt.Sprintf("%s/%dMB: %+.2f%% (%.2f -> %.2f MBps)",
		d.Algorithm, d.DataSizeMB, d.DiffPercent, d.PrevMBps, d.CurrMBps)
}

// CompareRuns diffs throughput for the groups present in both runs.
func CompareRuns(prev, curr []bench.SummaryRow) []SpeedDiff {
	type key struct {
		algorithm string
		size      uint
	}

	prevByKey := make(map[key]bench.SummaryRow)
	for _, row := range prev {
		prevByKey[key{string(row.Algorithm), row.DataSizeMB}] = row
	}

	var diffs []SpeedDiff
	for _, row := range curr {
		p, ok := prevByKey[key{string(row.Algorithm), row.DataSizeMB}]
		if !ok || p.SpeedMBps == 0 {
			continue
		}
		diffs = append(diffs, SpeedDiff{
			Algorithm:   string(row.Algorithm),
			DataSizeMB:  row.DataSizeMB,
			PrevMBps:    p.SpeedMBps,
			CurrMBps:    row.SpeedMBps,
			DiffPercent: (row.SpeedMBps - p.SpeedMBps) / p.SpeedMBps * 100,
		})
	}
	return diffs
}

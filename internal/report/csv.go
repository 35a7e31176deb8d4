// Package report renders benchmark results to the external sinks: CSV files,
// terminal tables, markdown, and charts.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"hashmark/internal/bench"
	"hashmark/internal/hashalg"
	"hashmark/internal/stats"
)

// Column headers consumed by downstream tooling. Field identities are fixed;
// renaming them breaks existing spreadsheets and plots.
var (
	SummaryHeader  = []string{"Algorithm", "Data Size (MB)", "Iterations", "Total Time (ms)", "Avg Time (ms)", "Speed (MBps)"}
	TimingHeader   = []string{"Algorithm", "Data Size (MB)", "Timing (ms)"}
	ResourceHeader = []string{"Algorithm", "Data Size (MB)", "CPU (%)", "Peak Memory (MB)"}
	TTestHeader    = []string{"Data Size (MB)", "Algorithm 1", "Algorithm 2", "T-Statistic", "P-Value"}
)

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fround(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// WriteSummaryCSV writes aggregate rows.
func WriteSummaryCSV(path string, rows []bench.SummaryRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			string(r.Algorithm),
			strconv.FormatUint(uint64(r.DataSizeMB), 10),
			strconv.FormatUint(uint64(r.Iterations), 10),
			ftoa(r.TotalTimeMS),
			ftoa(r.AvgTimeMS),
			ftoa(r.SpeedMBps),
		})
	}
	return writeCSV(path, SummaryHeader, records)
}

// WriteTimingCSV writes one row per timed pass, the input for t-tests.
func WriteTimingCSV(path string, samples []bench.Sample) error {
	records := make([][]string, 0, len(samples))
	for _, s := range samples {
		records = append(records, []string{
			string(s.Algorithm),
			strconv.FormatUint(uint64(s.DataSizeMB), 10),
			ftoa(s.ElapsedMS),
		})
	}
	return writeCSV(path, TimingHeader, records)
}

// WriteResourceCSV writes per-pass CPU and peak-memory readings.
func WriteResourceCSV(path string, samples []bench.Sample) error {
	records := make([][]string, 0, len(samples))
	for _, s := range samples {
		records = append(records, []string{
			string(s.Algorithm),
			strconv.FormatUint(uint64(s.DataSizeMB), 10),
			ftoa(s.CPUPercent),
			ftoa(s.PeakMemoryMB),
		})
	}
	return writeCSV(path, ResourceHeader, records)
}

// WriteTTestCSV writes comparison results, t rounded to 4 decimals and p to 6
// as downstream tooling expects.
func WriteTTestCSV(path string, results []stats.ComparisonResult) error {
	records := make([][]string, 0, len(results))
	for _, r := range results {
		size := ""
		if r.DataSizeMB != nil {
			size = strconv.FormatUint(uint64(*r.DataSizeMB), 10)
		}
		records = append(records, []string{
			size,
			r.AlgorithmA,
			r.AlgorithmB,
			fround(r.TStatistic, 4),
			fround(r.PValue, 6),
		})
	}
	return writeCSV(path, TTestHeader, records)
}

// ReadTimingCSV loads a timing CSV back into observations so comparisons can
// be recomputed without re-running the benchmark.
func ReadTimingCSV(path string) ([]stats.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var observations []stats.Observation
	for i, record := range records[1:] {
		if len(record) < 3 {
			return nil, fmt.Errorf("%s: row %d has %d fields, want 3", path, i+2, len(record))
		}
		size, err := strconv.ParseUint(record[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: bad data size %q: %w", path, i+2, record[1], err)
		}
		value, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: bad timing %q: %w", path, i+2, record[2], err)
		}
		observations = append(observations, stats.Observation{
			Algorithm:  record[0],
			DataSizeMB: uint(size),
			Value:      value,
		})
	}
	return observations, nil
}

// ReadSummaryCSV loads a summary CSV for report rendering.
func ReadSummaryCSV(path string) ([]bench.SummaryRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []bench.SummaryRow
	for i, record := range records[1:] {
		if len(record) < 6 {
			return nil, fmt.Errorf("%s: row %d has %d fields, want 6", path, i+2, len(record))
		}
		size, err := strconv.ParseUint(record[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: bad data size %q: %w", path, i+2, record[1], err)
		}
		iterations, err := strconv.ParseUint(record[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: bad iterations %q: %w", path, i+2, record[2], err)
		}
		total, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: bad total time %q: %w", path, i+2, record[3], err)
		}
		avg, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: bad avg time %q: %w", path, i+2, record[4], err)
		}
		speed, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: bad speed %q: %w", path, i+2, record[5], err)
		}
		rows = append(rows, bench.SummaryRow{
			Algorithm:   hashalg.ID(record[0]),
			DataSizeMB:  uint(size),
			Iterations:  uint(iterations),
			TotalTimeMS: total,
			AvgTimeMS:   avg,
			SpeedMBps:   speed,
		})
	}
	return rows, nil
}

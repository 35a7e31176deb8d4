package bench

import (
	"fmt"

	"hashmark/internal/hashalg"
	"hashmark/internal/stats"
)

// Task is one (algorithm, data size, iteration count) unit of benchmark work.
// It is created when the run is planned and never mutated.
type Task struct {
	Algorithm  hashalg.ID `json:"algorithm"`
	DataSizeMB uint       `json:"data_size_mb"`
	Iterations uint       `json:"iterations"`
}

func (t Task) String() string {
	return fmt.Sprintf("%s/%dMB/x%d", t.Algorithm, t.DataSizeMB, t.Iterations)
}

// Sample is one timed pass of a Task, plus the resource readings taken right
// after it. CPUPercent and PeakMemoryMB are -1 when the probe was
// unavailable.
type Sample struct {
	Algorithm    hashalg.ID `json:"algorithm"`
	DataSizeMB   uint       `json:"data_size_mb"`
	Iterations   uint       `json:"iterations"`
	ElapsedMS    float64    `json:"elapsed_ms"`
	CPUPercent   float64    `json:"cpu_pct"`
	PeakMemoryMB float64    `json:"peak_memory_mb"`
}

// SummaryRow aggregates a task's samples. Derived from Samples, never stored
// independently.
type SummaryRow struct {
	Algorithm   hashalg.ID `json:"algorithm"`
	DataSizeMB  uint       `json:"data_size_mb"`
	Iterations  uint       `json:"iterations"`
	TotalTimeMS float64    `json:"total_time_ms"`
	AvgTimeMS   float64    `json:"avg_time_ms"`
	SpeedMBps   float64    `json:"speed_mbps"`
}

// TaskError records a failed task. Failures are reported, not retried: they
// indicate environment problems, not transient faults.
type TaskError struct {
	Task Task
	Err  error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.Task, e.Err)
}

func (e TaskError) Unwrap() error { return e.Err }

// Metric selects which sample field a statistical comparison reads.
type Metric string

const (
	MetricElapsed Metric = "elapsed"
	MetricCPU     Metric = "cpu"
	MetricMemory  Metric = "memory"
)

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricElapsed, MetricCPU, MetricMemory:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("unknown metric %q, want elapsed, cpu, or memory", s)
	}
}

// Observations projects samples onto the chosen metric for the stats engine.
func Observations(samples []Sample, metric Metric) []stats.Observation {
	out := make([]stats.Observation, 0, len(samples))
	for _, s := range samples {
		var value float64
		switch metric {
		case MetricCPU:
			value = s.CPUPercent
		case MetricMemory:
			value = s.PeakMemoryMB
		default:
			value = s.ElapsedMS
		}
		out = append(out, stats.Observation{
			Algorithm:  string(s.Algorithm),
			DataSizeMB: s.DataSizeMB,
			Value:      value,
		})
	}
	return out
}

package bench

import "sync"

// ResultStore accumulates samples from workers. Append is the only mutation
// and holds the store's single lock; Snapshot and Summaries are meant for
// read-after-join, once all workers have finished.
type ResultStore struct {
	mu      sync.Mutex
	samples []Sample
}

// NewResultStore returns an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Append records one sample. Safe for concurrent use.
func (s *ResultStore) Append(sample Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
}

// Len returns the number of collected samples.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// Snapshot returns a copy of the collected samples in insertion order.
func (s *ResultStore) Snapshot() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Summaries groups samples by (algorithm, data size) and reduces each group
// to totals, averages, and throughput. Speed uses the aggregated elapsed time
// across all of a group's passes:
//
//	speed_mbps = sizeMB * iterations * passes / total_elapsed_seconds
//
// Group order follows first appearance in the sample sequence, so output is
// stable for a given snapshot regardless of worker interleaving upstream.
func (s *ResultStore) Summaries() []SummaryRow {
	type key struct {
		algorithm  string
		dataSizeMB uint
	}

	snapshot := s.Snapshot()
	groups := make(map[key][]Sample)
	var order []key
	for _, sample := range snapshot {
		k := key{string(sample.Algorithm), sample.DataSizeMB}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], sample)
	}

	rows := make([]SummaryRow, 0, len(order))
	for _, k := range order {
		group := groups[k]
		var totalMS float64
		for _, sample := range group {
			totalMS += sample.ElapsedMS
		}
		passes := len(group)
		row := SummaryRow{
			Algorithm:   group[0].Algorithm,
			DataSizeMB:  group[0].DataSizeMB,
			Iterations:  group[0].Iterations,
			TotalTimeMS: totalMS,
			AvgTimeMS:   totalMS / float64(passes),
		}
		if totalMS > 0 {
			mbHashed := float64(row.DataSizeMB) * float64(row.Iterations) * float64(passes)
			row.SpeedMBps = mbHashed / (totalMS / 1000)
		}
		rows = append(rows, row)
	}
	return rows
}

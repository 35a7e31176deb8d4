package bench

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummariesAggregation(t *testing.T) {
	store := NewResultStore()
	for _, elapsed := range []float64{10, 20, 30} {
		store.Append(Sample{
			Algorithm:  "md5",
			DataSizeMB: 1,
			Iterations: 1,
			ElapsedMS:  elapsed,
		})
	}

	rows := store.Summaries()
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "md5", string(row.Algorithm))
	assert.InDelta(t, 60, row.TotalTimeMS, 1e-12)
	assert.InDelta(t, 20, row.AvgTimeMS, 1e-12)
	// 1MB * 1 iteration * 3 passes over 0.06 seconds.
	assert.InDelta(t, 3.0/0.06, row.SpeedMBps, 1e-9)
}

func TestSummariesGrouping(t *testing.T) {
	store := NewResultStore()
	store.Append(Sample{Algorithm: "md5", DataSizeMB: 1, Iterations: 5, ElapsedMS: 10})
	store.Append(Sample{Algorithm: "sha256", DataSizeMB: 1, Iterations: 5, ElapsedMS: 15})
	store.Append(Sample{Algorithm: "md5", DataSizeMB: 2, Iterations: 5, ElapsedMS: 20})
	store.Append(Sample{Algorithm: "md5", DataSizeMB: 1, Iterations: 5, ElapsedMS: 30})

	rows := store.Summaries()
	require.Len(t, rows, 3)

	// First-seen group order.
	assert.Equal(t, "md5", string(rows[0].Algorithm))
	assert.Equal(t, uint(1), rows[0].DataSizeMB)
	assert.InDelta(t, 40, rows[0].TotalTimeMS, 1e-12)
	assert.InDelta(t, 20, rows[0].AvgTimeMS, 1e-12)

	assert.Equal(t, "sha256", string(rows[1].Algorithm))
	assert.Equal(t, "md5", string(rows[2].Algorithm))
	assert.Equal(t, uint(2), rows[2].DataSizeMB)
}

func TestSummariesZeroElapsed(t *testing.T) {
	store := NewResultStore()
	store.Append(Sample{Algorithm: "md5", DataSizeMB: 1, Iterations: 1, ElapsedMS: 0})

	rows := store.Summaries()
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].SpeedMBps)
}

func TestConcurrentAppend(t *testing.T) {
	store := NewResultStore()
	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				store.Append(Sample{Algorithm: "md5", DataSizeMB: uint(id + 1), Iterations: 1, ElapsedMS: 1})
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 1600, store.Len())
	assert.Len(t, store.Snapshot(), 1600)
}

func TestSnapshotIsACopy(t *testing.T) {
	store := NewResultStore()
	store.Append(Sample{Algorithm: "md5", DataSizeMB: 1, Iterations: 1, ElapsedMS: 5})

	snap := store.Snapshot()
	snap[0].ElapsedMS = 999

	assert.InDelta(t, 5, store.Snapshot()[0].ElapsedMS, 1e-12)
}

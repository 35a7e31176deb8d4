package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashmark/internal/bench"
	"hashmark/internal/hashalg"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewStore(StoreConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadRun(t *testing.T) {
	store := newTestStore(t)

	samples := []bench.Sample{
		{Algorithm: hashalg.MD5, DataSizeMB: 1, Iterations: 5, ElapsedMS: 10.5, CPUPercent: 40, PeakMemoryMB: 100},
		{Algorithm: hashalg.Blake3, DataSizeMB: 2, Iterations: 5, ElapsedMS: 5.25, CPUPercent: 60, PeakMemoryMB: 110},
	}

	runID, err := store.SaveRun("nightly", 8, samples)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	loaded, err := store.RunSamples(runID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, hashalg.MD5, loaded[0].Algorithm)
	assert.InDelta(t, 10.5, loaded[0].ElapsedMS, 1e-12)
	assert.Equal(t, hashalg.Blake3, loaded[1].Algorithm)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveRun("first", 1, nil)
	require.NoError(t, err)
	_, err = store.SaveRun("second", 4, nil)
	require.NoError(t, err)

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[0].Label)
	assert.Equal(t, "first", runs[1].Label)

	latest, err := store.LatestRun()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "second", latest.Label)
}

func TestLatestRunEmpty(t *testing.T) {
	store := newTestStore(t)

	latest, err := store.LatestRun()
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestNewStoreUnknownDriver(t *testing.T) {
	_, err := NewStore(StoreConfig{Driver: "mongodb"})
	assert.Error(t, err)
}

func TestNewStorePostgresRequiresDSN(t *testing.T) {
	_, err := NewStore(StoreConfig{Driver: "postgres"})
	assert.Error(t, err)
}

package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashmark/internal/hashalg"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	SetDefaults()
	t.Cleanup(viper.Reset)
}

func TestDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := FromViper()
	require.NoError(t, err)

	assert.Len(t, cfg.Algorithms, 8)
	assert.Contains(t, cfg.Algorithms, hashalg.Blake3)
	assert.Len(t, cfg.DataSizesMB, 10)
	assert.Equal(t, uint(5), cfg.Iterations)
	assert.Equal(t, uint(5), cfg.Repeats)
	assert.GreaterOrEqual(t, cfg.Concurrency, uint(1))
	assert.Equal(t, "elapsed", cfg.Metric)
	assert.Len(t, cfg.Pairs, 2)
	assert.Equal(t, "blake3", cfg.Pairs[0].A)
	assert.Equal(t, "sha256", cfg.Pairs[0].B)
	assert.Equal(t, "sqlite", cfg.HistoryDriver)
}

func TestUnknownAlgorithmFailsFast(t *testing.T) {
	resetViper(t)
	viper.Set("algorithms", []string{"md5", "whirlpool"})

	_, err := FromViper()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "whirlpool")
}

func TestNonPositiveValuesFailFast(t *testing.T) {
	resetViper(t)
	viper.Set("iterations", 0)
	viper.Set("data_sizes_mb", []int{0, -4})
	viper.Set("concurrency", -1)

	_, err := FromViper()
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Problems), 3)
}

func TestBadPairFailsFast(t *testing.T) {
	resetViper(t)
	viper.Set("pairs", []string{"blake3"})

	_, err := FromViper()
	assert.Error(t, err)
}

func TestBadMetricFailsFast(t *testing.T) {
	resetViper(t)
	viper.Set("metric", "watts")

	_, err := FromViper()
	assert.Error(t, err)
}

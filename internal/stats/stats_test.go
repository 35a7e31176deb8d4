package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelchTTestClosedForm(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{10, 20, 30, 40, 50}

	tStat, pValue, ok := WelchTTest(a, b)
	require.True(t, ok)

	// By hand: mean(a)=3, var(a)=2.5, mean(b)=30, var(b)=250.
	// se^2 = 2.5/5 + 250/5 = 50.5
	// t = (3-30)/sqrt(50.5)
	// df = 50.5^2 / (0.5^2/4 + 50^2/4) = 2550.25/625.0625
	wantT := -27.0 / math.Sqrt(50.5)
	wantDF := (50.5 * 50.5) / (0.5*0.5/4 + 50.0*50.0/4)

	assert.InDelta(t, wantT, tStat, 1e-9)
	assert.InDelta(t, 4.0799, wantDF, 1e-4) // sanity on the hand computation

	// scipy.stats.ttest_ind(a, b, equal_var=False) -> p ~ 0.0188
	assert.Greater(t, pValue, 0.0)
	assert.Less(t, pValue, 0.05)
	assert.InDelta(t, 0.019, pValue, 2e-3)
}

func TestWelchTTestSymmetry(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{10, 20, 30, 40, 50}

	tAB, pAB, ok := WelchTTest(a, b)
	require.True(t, ok)
	tBA, pBA, ok := WelchTTest(b, a)
	require.True(t, ok)

	assert.InDelta(t, -tAB, tBA, 1e-12)
	assert.InDelta(t, pAB, pBA, 1e-12)
}

func TestWelchTTestInsufficientSamples(t *testing.T) {
	_, _, ok := WelchTTest([]float64{1}, []float64{2, 3, 4})
	assert.False(t, ok)

	_, _, ok = WelchTTest([]float64{1, 2}, []float64{3})
	assert.False(t, ok)

	_, _, ok = WelchTTest(nil, nil)
	assert.False(t, ok)
}

func TestWelchTTestZeroVariance(t *testing.T) {
	_, _, ok := WelchTTest([]float64{5, 5, 5}, []float64{5, 5, 5})
	assert.False(t, ok, "identical constant samples have an undefined statistic")
}

func TestDescribe(t *testing.T) {
	d := Describe([]float64{10, 20, 30})
	assert.Equal(t, 3, d.N)
	assert.InDelta(t, 20, d.Mean, 1e-12)
	assert.InDelta(t, 10, d.StdDev, 1e-12)
	assert.Equal(t, 10.0, d.Min)
	assert.Equal(t, 30.0, d.Max)
	assert.InDelta(t, 20, d.Median, 1e-12)

	even := Describe([]float64{4, 1, 3, 2})
	assert.InDelta(t, 2.5, even.Median, 1e-12)

	empty := Describe(nil)
	assert.Equal(t, 0, empty.N)
}

func TestCompareGroupedBySize(t *testing.T) {
	obs := []Observation{
		{Algorithm: "blake3", DataSizeMB: 1, Value: 1},
		{Algorithm: "blake3", DataSizeMB: 1, Value: 2},
		{Algorithm: "sha256", DataSizeMB: 1, Value: 10},
		{Algorithm: "sha256", DataSizeMB: 1, Value: 20},
		// Size 2 has only one sha256 value: must be skipped.
		{Algorithm: "blake3", DataSizeMB: 2, Value: 1},
		{Algorithm: "blake3", DataSizeMB: 2, Value: 2},
		{Algorithm: "sha256", DataSizeMB: 2, Value: 10},
	}

	results := Compare(obs, []Pair{{A: "blake3", B: "sha256"}}, true)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].DataSizeMB)
	assert.Equal(t, uint(1), *results[0].DataSizeMB)
	assert.Equal(t, "blake3", results[0].AlgorithmA)
	assert.Equal(t, "sha256", results[0].AlgorithmB)
	assert.Less(t, results[0].TStatistic, 0.0)
}

func TestCompareUngrouped(t *testing.T) {
	obs := []Observation{
		{Algorithm: "a", DataSizeMB: 1, Value: 1},
		{Algorithm: "a", DataSizeMB: 2, Value: 2},
		{Algorithm: "b", DataSizeMB: 1, Value: 100},
		{Algorithm: "b", DataSizeMB: 2, Value: 200},
	}

	results := Compare(obs, []Pair{{A: "a", B: "b"}}, false)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].DataSizeMB)
}

func TestCompareSkipsUnknownAlgorithm(t *testing.T) {
	obs := []Observation{
		{Algorithm: "a", DataSizeMB: 1, Value: 1},
		{Algorithm: "a", DataSizeMB: 1, Value: 2},
	}
	results := Compare(obs, []Pair{{A: "a", B: "missing"}}, true)
	assert.Empty(t, results)
}

func TestParsePair(t *testing.T) {
	p, err := ParsePair("blake3:sha256")
	require.NoError(t, err)
	assert.Equal(t, Pair{A: "blake3", B: "sha256"}, p)

	p, err = ParsePair("Blake2s,Blake2b")
	require.NoError(t, err)
	assert.Equal(t, Pair{A: "blake2s", B: "blake2b"}, p)

	_, err = ParsePair("justone")
	assert.Error(t, err)
	_, err = ParsePair(":sha256")
	assert.Error(t, err)
}

func TestDescribeByAlgorithm(t *testing.T) {
	obs := []Observation{
		{Algorithm: "a", Value: 1},
		{Algorithm: "a", Value: 3},
		{Algorithm: "b", Value: 10},
	}
	byAlgo := DescribeByAlgorithm(obs)
	require.Len(t, byAlgo, 2)
	assert.InDelta(t, 2, byAlgo["a"].Mean, 1e-12)
	assert.Equal(t, 1, byAlgo["b"].N)
}

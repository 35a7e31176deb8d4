// Package stats computes descriptive statistics and pairwise Welch t-tests
// over collected benchmark measurements.
package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Observation is one measured value for an algorithm at a data size. It is
// the neutral shape shared by live samples and values re-read from CSV.
type Observation struct {
	Algorithm  string
	DataSizeMB uint
	Value      float64
}

// Pair names two algorithms to compare.
type Pair struct {
	A string
	B string
}

// ParsePair reads "a:b" or "a,b" into a Pair.
func ParsePair(s string) (Pair, error) {
	sep := ":"
	if !strings.Contains(s, sep) {
		sep = ","
	}
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return Pair{}, fmt.Errorf("invalid comparison pair %q, want \"algo1:algo2\"", s)
	}
	return Pair{
		A: strings.ToLower(strings.TrimSpace(parts[0])),
		B: strings.ToLower(strings.TrimSpace(parts[1])),
	}, nil
}

// ComparisonResult is the outcome of one Welch t-test between two algorithms,
// optionally scoped to a single data size.
type ComparisonResult struct {
	DataSizeMB *uint
	AlgorithmA string
	AlgorithmB string
	TStatistic float64
	PValue     float64
}

// Descriptive summarizes one algorithm's values.
type Descriptive struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

// Describe computes mean, sample standard deviation, min, max, and median.
func Describe(values []float64) Descriptive {
	d := Descriptive{N: len(values)}
	if len(values) == 0 {
		return d
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	d.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}
	d.Min = sorted[0]
	d.Max = sorted[len(sorted)-1]
	d.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if len(sorted)%2 == 0 {
		mid := len(sorted) / 2
		d.Median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return d
}

// WelchTTest runs the unequal-variance two-sample t-test: difference of
// sample means over the pooled standard error, degrees of freedom by the
// Welch–Satterthwaite approximation, two-tailed p-value from Student's t.
// Sides with fewer than two values make the statistic undefined; ok is false
// and the comparison should be skipped.
func WelchTTest(a, b []float64) (tStat, pValue float64, ok bool) {
	if len(a) < 2 || len(b) < 2 {
		return 0, 0, false
	}

	na := float64(len(a))
	nb := float64(len(b))
	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)

	seSq := varA/na + varB/nb
	if seSq == 0 {
		return 0, 0, false
	}
	tStat = (meanA - meanB) / math.Sqrt(seSq)

	df := seSq * seSq / ((varA/na)*(varA/na)/(na-1) + (varB/nb)*(varB/nb)/(nb-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue = 2 * dist.CDF(-math.Abs(tStat))
	return tStat, pValue, true
}

// Compare runs Welch t-tests for each configured pair, optionally split by
// data size. Pair/group combinations where either side has fewer than two
// values are silently omitted.
func Compare(observations []Observation, pairs []Pair, groupBySize bool) []ComparisonResult {
	var results []ComparisonResult

	if !groupBySize {
		for _, pair := range pairs {
			a := collect(observations, pair.A, nil)
			b := collect(observations, pair.B, nil)
			if t, p, ok := WelchTTest(a, b); ok {
				results = append(results, ComparisonResult{
					AlgorithmA: pair.A,
					AlgorithmB: pair.B,
					TStatistic: t,
					PValue:     p,
				})
			}
		}
		return results
	}

	for _, size := range sizesOf(observations) {
		size := size
		for _, pair := range pairs {
			a := collect(observations, pair.A, &size)
			b := collect(observations, pair.B, &size)
			if t, p, ok := WelchTTest(a, b); ok {
				results = append(results, ComparisonResult{
					DataSizeMB: &size,
					AlgorithmA: pair.A,
					AlgorithmB: pair.B,
					TStatistic: t,
					PValue:     p,
				})
			}
		}
	}
	return results
}

// DescribeByAlgorithm summarizes every algorithm's values across all sizes.
func DescribeByAlgorithm(observations []Observation) map[string]Descriptive {
	grouped := make(map[string][]float64)
	for _, o := range observations {
		grouped[o.Algorithm] = append(grouped[o.Algorithm], o.Value)
	}
	out := make(map[string]Descriptive, len(grouped))
	for algo, values := range grouped {
		out[algo] = Describe(values)
	}
	return out
}

func collect(observations []Observation, algorithm string, size *uint) []float64 {
	var values []float64
	for _, o := range observations {
		if o.Algorithm != algorithm {
			continue
		}
		if size != nil && o.DataSizeMB != *size {
			continue
		}
		values = append(values, o.Value)
	}
	return values
}

// sizesOf returns the distinct data sizes in first-seen order, matching the
// order groups appear in the input.
func sizesOf(observations []Observation) []uint {
	seen := make(map[uint]bool)
	var sizes []uint
	for _, o := range observations {
		if !seen[o.DataSizeMB] {
			seen[o.DataSizeMB] = true
			sizes = append(sizes, o.DataSizeMB)
		}
	}
	return sizes
}

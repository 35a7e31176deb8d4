package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashmark/internal/bench"
	"hashmark/internal/report"
)

func writeTimingFixture(t *testing.T) string {
	t.Helper()
	var samples []bench.Sample
	for _, ms := range []float64{10, 11, 12, 13, 14} {
		samples = append(samples, bench.Sample{Algorithm: "blake3", DataSizeMB: 8, ElapsedMS: ms})
	}
	for _, ms := range []float64{40, 42, 44, 46, 48} {
		samples = append(samples, bench.Sample{Algorithm: "sha256", DataSizeMB: 8, ElapsedMS: ms})
	}
	path := filepath.Join(t.TempDir(), "timing.csv")
	require.NoError(t, report.WriteTimingCSV(path, samples))
	return path
}

func TestTTestCmd(t *testing.T) {
	timingCSV := writeTimingFixture(t)
	outCSV := filepath.Join(t.TempDir(), "ttest.csv")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ttest", timingCSV, "--pairs", "blake3:sha256", "-o", outCSV})

	err := rootCmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "blake3")
	assert.Contains(t, out, "sha256")
	assert.Contains(t, out, "Welch")

	content, err := os.ReadFile(outCSV)
	require.NoError(t, err)
	assert.Contains(t, string(content), "T-Statistic")
	assert.Contains(t, string(content), "blake3,sha256")
}

func TestTTestCmdMissingFile(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ttest", filepath.Join(t.TempDir(), "nope.csv")})

	err := rootCmd.Execute()
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeDatasets(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"datasets"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestDatasetsListEmpty(t *testing.T) {
	dir := t.TempDir()
	out, err := executeDatasets(t, "list", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No datasets")
}

func TestDatasetsWarmListClean(t *testing.T) {
	dir := t.TempDir()

	out, err := executeDatasets(t, "warm", "--data-dir", dir, "--sizes", "1,2", "--iterations", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "dataset_1MB_5.bin")
	assert.Contains(t, out, "dataset_2MB_5.bin")

	info, err := os.Stat(filepath.Join(dir, "dataset_2MB_5.bin"))
	require.NoError(t, err)
	assert.EqualValues(t, 2*1024*1024, info.Size())

	out, err = executeDatasets(t, "list", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 files")

	out, err = executeDatasets(t, "clean", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 2")

	out, err = executeDatasets(t, "list", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No datasets")
}

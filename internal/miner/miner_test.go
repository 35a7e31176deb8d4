package miner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeService(t *testing.T) (*httptest.Server, *int64, *int64) {
	t.Helper()
	var txCount, mineCount int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/transactions/new" && r.Method == http.MethodPost:
			var tx Transaction
			require.NoError(t, json.NewDecoder(r.Body).Decode(&tx))
			atomic.AddInt64(&txCount, 1)
			w.WriteHeader(http.StatusCreated)
		case r.URL.Path == "/mine" && r.Method == http.MethodGet:
			n := atomic.AddInt64(&mineCount, 1)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"message":       "New Block Forged",
				"time took(ns)": 1000 * n,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &txCount, &mineCount
}

func TestRounds(t *testing.T) {
	rounds := Rounds("results", "blake3")
	require.Len(t, rounds, 9)
	assert.Equal(t, 2, rounds[0].Puzzle)
	assert.Equal(t, 5, rounds[0].TxPerBlock)
	assert.Equal(t, filepath.Join("results", "blake3", "round1.txt"), rounds[0].ResultsFile)
	assert.Equal(t, 6, rounds[8].Puzzle)
	assert.Equal(t, 15, rounds[8].TxPerBlock)
	assert.Equal(t, filepath.Join("results", "blake3", "round9.txt"), rounds[8].ResultsFile)
}

func TestRunRound(t *testing.T) {
	srv, txCount, mineCount := newFakeService(t)

	client := NewClient(srv.URL)
	round := Round{
		Puzzle:      2,
		TxPerBlock:  3,
		ResultsFile: filepath.Join(t.TempDir(), "blake3", "round1.txt"),
	}

	tx := Transaction{Sender: "node-a", Recipient: "node-b", Amount: 1}
	err := client.RunRound(context.Background(), round, 4, tx, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 12, atomic.LoadInt64(txCount), "3 tx per block x 4 blocks")
	assert.EqualValues(t, 4, atomic.LoadInt64(mineCount))

	content, err := os.ReadFile(round.ResultsFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "1000", lines[0])
	assert.Equal(t, "4000", lines[3])
}

func TestRunRoundToleratesMineFailure(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/mine" {
			if atomic.AddInt64(&calls, 1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"time took(ns)": 500})
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	round := Round{TxPerBlock: 1, ResultsFile: filepath.Join(t.TempDir(), "round.txt")}

	var reported []error
	err := client.RunRound(context.Background(), round, 2, Transaction{}, func(err error) {
		reported = append(reported, err)
	})
	require.NoError(t, err)
	assert.Len(t, reported, 1, "first mine fails, round continues")

	content, err := os.ReadFile(round.ResultsFile)
	require.NoError(t, err)
	assert.Equal(t, "500", strings.TrimSpace(string(content)))
}

func TestMineMissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "ok"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Mine(context.Background())
	assert.Error(t, err)
}

func TestClearResults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "round1.txt"), []byte("1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "round2.txt"), []byte("2\n"), 0o644))

	require.NoError(t, ClearResults(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Missing directory is not an error.
	assert.NoError(t, ClearResults(filepath.Join(dir, "missing")))
}

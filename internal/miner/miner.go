// Package miner drives load against an external proof-of-work blockchain
// service: it submits batches of transactions, triggers mining, and records
// the reported mining times per round. It shares no machinery with the
// benchmark engine.
package miner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Client talks to the blockchain service under test.
type Client struct {
	BaseURL      string
	TxEndpoint   string
	MineEndpoint string
	HTTP         *http.Client
}

// NewClient builds a client with default endpoints and timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:      baseURL,
		TxEndpoint:   "/transactions/new",
		MineEndpoint: "/mine",
		HTTP:         &http.Client{Timeout: 60 * time.Second},
	}
}

// Round is one load configuration: puzzle difficulty and transactions per
// block, with a file to collect the reported mining times.
type Round struct {
	Puzzle      int
	TxPerBlock  int
	ResultsFile string
}

// Rounds returns the standard 3x3 grid of load rounds for a hash algorithm:
// puzzle difficulty in {2, 4, 6} crossed with {5, 10, 15} transactions per
// block.
func Rounds(resultsDir, hashName string) []Round {
	var rounds []Round
	i := 0
	for _, puzzle := range []int{2, 4, 6} {
		for _, txPerBlock := range []int{5, 10, 15} {
			i++
			rounds = append(rounds, Round{
				Puzzle:      puzzle,
				TxPerBlock:  txPerBlock,
				ResultsFile: filepath.Join(resultsDir, hashName, fmt.Sprintf("round%d.txt", i)),
			})
		}
	}
	return rounds
}

// ClearResults removes previous result files for an algorithm.
func ClearResults(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read results directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Transaction is the payload submitted per simulated transfer.
type Transaction struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    int    `json:"amount"`
}

// SubmitTransaction POSTs one transaction to the service.
func (c *Client) SubmitTransaction(ctx context.Context, tx Transaction) error {
	body, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+c.TxEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("transaction request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("transaction rejected with status: %s", resp.Status)
	}
	return nil
}

// Mine triggers mining of the pending block and returns the reported mining
// time in nanoseconds.
func (c *Client) Mine(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+c.MineEndpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("mining request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("mining failed with status: %s", resp.Status)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode mining response: %w", err)
	}

	// The service reports the PoW duration under this key.
	raw, ok := payload["time took(ns)"]
	if !ok {
		return 0, fmt.Errorf("mining response missing \"time took(ns)\": %v", payload)
	}
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case string:
		var ns int64
		if _, err := fmt.Sscanf(v, "%d", &ns); err != nil {
			return 0, fmt.Errorf("unparseable mining time %q: %w", v, err)
		}
		return ns, nil
	default:
		return 0, fmt.Errorf("unexpected mining time type %T", raw)
	}
}

// RunRound submits TxPerBlock transactions then mines, once per block in the
// chain, appending each reported mining time to the round's results file.
// A failed transaction or mine call is reported via onError and the round
// continues, matching the tolerant behavior of the load harness.
func (c *Client) RunRound(ctx context.Context, round Round, chainLength int, tx Transaction, onError func(error)) error {
	if err := os.MkdirAll(filepath.Dir(round.ResultsFile), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	f, err := os.OpenFile(round.ResultsFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	for block := 0; block < chainLength; block++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := 0; i < round.TxPerBlock; i++ {
			if err := c.SubmitTransaction(ctx, tx); err != nil && onError != nil {
				onError(err)
			}
		}

		ns, err := c.Mine(ctx)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			continue
		}
		if _, err := fmt.Fprintf(f, "%d\n", ns); err != nil {
			return fmt.Errorf("failed to record mining time: %w", err)
		}
	}
	return nil
}

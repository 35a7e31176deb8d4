package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"hashmark/internal/miner"
)

var (
	loadtestURL        string
	loadtestHashes     []string
	loadtestChainLen   int
	loadtestTxAmount   int
	loadtestSender     string
	loadtestRecipient  string
	loadtestResultsDir string
	loadtestKeep       bool
)

var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Drive a proof-of-work mining service and record per-block times",
	Long: `Runs the nine-round load grid (puzzle difficulty 2, 4, 6 crossed with
5, 10, 15 transactions per block) against a running mining service and records
the reported per-block mining time in nanoseconds, one file per round.`,
	RunE: runLoadtest,
}

func init() {
	rootCmd.AddCommand(loadtestCmd)
	loadtestCmd.Flags().StringVar(&loadtestURL, "url", "http://localhost:5000", "Base URL of the mining service")
	loadtestCmd.Flags().StringSliceVar(&loadtestHashes, "hashes", []string{"sha256"}, "Hash names to label result directories with")
	loadtestCmd.Flags().IntVar(&loadtestChainLen, "chain-length", 100, "Blocks to mine per round")
	loadtestCmd.Flags().IntVar(&loadtestTxAmount, "tx-amount", 1, "Amount on each submitted transaction")
	loadtestCmd.Flags().StringVar(&loadtestSender, "sender", "node-a", "Transaction sender identity")
	loadtestCmd.Flags().StringVar(&loadtestRecipient, "recipient", "node-b", "Transaction recipient identity")
	loadtestCmd.Flags().StringVar(&loadtestResultsDir, "results-dir", filepath.Join("results", "pow"), "Directory for round result files")
	loadtestCmd.Flags().BoolVar(&loadtestKeep, "keep", false, "Keep existing round files instead of clearing them")
}

func runLoadtest(cmd *cobra.Command, args []string) error {
	if loadtestChainLen <= 0 {
		return fmt.Errorf("chain length must be positive, got %d", loadtestChainLen)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := miner.NewClient(loadtestURL)
	tx := miner.Transaction{
		Sender:    loadtestSender,
		Recipient: loadtestRecipient,
		Amount:    loadtestTxAmount,
	}

	for _, hashName := range loadtestHashes {
		rounds := miner.Rounds(loadtestResultsDir, hashName)
		if !loadtestKeep {
			if err := miner.ClearResults(filepath.Dir(rounds[0].ResultsFile)); err != nil {
				return fmt.Errorf("failed to clear previous results: %w", err)
			}
		}

		for i, round := range rounds {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] round %d/%d: puzzle=%d tx_per_block=%d\n",
				hashName, i+1, len(rounds), round.Puzzle, round.TxPerBlock)

			onError := func(err error) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
			if err := client.RunRound(ctx, round, loadtestChainLen, tx, onError); err != nil {
				return fmt.Errorf("round %d for %s: %w", i+1, hashName, err)
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Load test complete, results under %s\n", loadtestResultsDir)
	return nil
}

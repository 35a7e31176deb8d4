package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hashmark/internal/config"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hashmark",
	Short: "Benchmark cryptographic hash functions",
	Long: `hashmark measures the throughput, CPU, and memory footprint of
cryptographic hash functions (MD5, SHA family, BLAKE2, BLAKE3) across data
sizes, in single- and multi-threaded runs, and compares algorithm pairs with
Welch's t-test.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.hashmark.yaml)")
}

func initConfig() {
	config.Load(cfgFile)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"hashmark/internal/bench"
	"hashmark/internal/config"
	"hashmark/internal/dataset"
	"hashmark/internal/hashalg"
	"hashmark/internal/history"
	"hashmark/internal/metrics"
	"hashmark/internal/notify"
	"hashmark/internal/report"
	"hashmark/internal/sampler"
	"hashmark/internal/stats"
)

var (
	runInteractive bool
	runLabel       string
	runChart       bool
	runNoHistory   bool
	runOutput      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the hash benchmark suite",
	Long: `Plans one task per (algorithm, data size) combination, materializes
deterministic datasets, fans the tasks out to a worker pool, and writes
timing, summary, resource, and t-test CSVs plus a terminal summary.`,
	RunE: runBenchmark,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSlice("algorithms", nil, "Algorithms to benchmark (default: all supported)")
	runCmd.Flags().IntSlice("sizes", nil, "Data sizes in MB")
	runCmd.Flags().Int("iterations", 0, "Iteration count per dataset key")
	runCmd.Flags().Int("repeats", 0, "Timed passes per task")
	runCmd.Flags().Int("concurrency", 0, "Worker pool size (1 = single-threaded)")
	runCmd.Flags().String("data-dir", "", "Dataset cache directory")
	runCmd.Flags().String("results-dir", "", "Results root directory")
	runCmd.Flags().StringSlice("pairs", nil, "Algorithm pairs to compare, e.g. blake3:sha256")
	runCmd.Flags().String("metric", "", "Comparison metric: elapsed, cpu, or memory")
	runCmd.Flags().Int("metrics-port", 0, "Expose Prometheus metrics on this port during the run")
	runCmd.Flags().BoolVar(&runInteractive, "interactive", false, "Select algorithms interactively")
	runCmd.Flags().StringVar(&runLabel, "label", "", "Label for this run in history")
	runCmd.Flags().BoolVar(&runChart, "chart", false, "Render a speed chart PNG")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Skip persisting the run to history")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "hashing", "Output subdirectory under the results root")

	config.BindFlags(runCmd.Flags())
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromViper()
	if err != nil {
		return err
	}

	if runInteractive {
		if err := selectAlgorithms(&cfg); err != nil {
			return err
		}
	}

	cache, err := dataset.NewCache(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize dataset cache: %w", err)
	}

	smp, err := sampler.NewProcessSampler()
	if err != nil {
		return fmt.Errorf("failed to initialize metric sampler: %w", err)
	}

	// Plan one task per algorithm x size.
	queue := bench.NewTaskQueue()
	total := 0
	for _, algo := range cfg.Algorithms {
		for _, size := range cfg.DataSizesMB {
			queue.Push(bench.Task{Algorithm: algo, DataSizeMB: size, Iterations: cfg.Iterations})
			total++
		}
	}

	pool := bench.NewPool(int(cfg.Concurrency), cache, smp)
	pool.Repeats = int(cfg.Repeats)
	pool.ChunkSize = int(cfg.ChunkSizeKB) * 1024

	var m *metrics.Metrics
	if cfg.MetricsPort > 0 {
		m = metrics.New()
		m.WorkersActive.Set(float64(cfg.Concurrency))
		srv := m.Serve(cfg.MetricsPort)
		defer srv.Close()
	}

	var done atomic.Int64
	pool.OnTaskDone = func(task bench.Task, err error) {
		if m != nil {
			m.TasksTotal.Inc()
			if err != nil {
				m.TasksFailed.Inc()
			}
		}
		status := "ok"
		if err != nil {
			status = "FAILED"
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s %s\n", done.Add(1), total, task, status)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Running %d tasks with %d workers (%d passes each)...\n",
		total, cfg.Concurrency, cfg.Repeats)

	store := bench.NewResultStore()
	start := time.Now()
	taskErrs := pool.Run(ctx, queue, store)
	elapsed := time.Since(start)

	samples := store.Snapshot()
	summaries := store.Summaries()
	if m != nil {
		m.SamplesCollected.Add(float64(len(samples)))
		m.RunDuration.Set(elapsed.Seconds())
	}

	observations := bench.Observations(samples, bench.Metric(cfg.Metric))
	comparisons := stats.Compare(observations, cfg.Pairs, true)

	outDir := filepath.Join(cfg.ResultsDir, runOutput)
	if err := writeRunArtifacts(outDir, cfg, samples, summaries, comparisons); err != nil {
		return err
	}

	report.RenderSummaryTable(cmd.OutOrStdout(), summaries)
	fmt.Fprintln(cmd.OutOrStdout())
	report.RenderComparisonTable(cmd.OutOrStdout(), comparisons)
	report.RenderErrors(cmd.OutOrStdout(), taskErrs)

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d/%d tasks succeeded, %d samples in %s\n",
		total-len(taskErrs), total, len(samples), elapsed.Round(time.Millisecond))

	if !runNoHistory {
		if err := persistRun(cfg, samples); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to save run to history: %v\n", err)
		}
	}

	if cfg.WebhookURL != "" {
		n := notify.NewWebhookNotifier(cfg.WebhookURL)
		msg := fmt.Sprintf("hashmark run complete: %d/%d tasks succeeded in %s",
			total-len(taskErrs), total, elapsed.Round(time.Second))
		if err := n.Notify(context.Background(), msg); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: notification failed: %v\n", err)
		}
	}

	if ctx.Err() != nil {
		return fmt.Errorf("run interrupted: %w", ctx.Err())
	}
	return nil
}

func writeRunArtifacts(outDir string, cfg config.Config, samples []bench.Sample,
	summaries []bench.SummaryRow, comparisons []stats.ComparisonResult) error {

	mode := "single_thread"
	if cfg.Concurrency > 1 {
		mode = "multi_threads"
	}

	timingCSV := filepath.Join(outDir, fmt.Sprintf("hashing_speed_%s_timing.csv", mode))
	if err := report.WriteTimingCSV(timingCSV, samples); err != nil {
		return err
	}
	summaryCSV := filepath.Join(outDir, fmt.Sprintf("hashing_speed_%s_summary.csv", mode))
	if err := report.WriteSummaryCSV(summaryCSV, summaries); err != nil {
		return err
	}
	resourceCSV := filepath.Join(outDir, "hashing_resource_results.csv")
	if err := report.WriteResourceCSV(resourceCSV, samples); err != nil {
		return err
	}
	ttestCSV := filepath.Join(outDir, fmt.Sprintf("hashing_t_test_%s_results.csv", mode))
	if err := report.WriteTTestCSV(ttestCSV, comparisons); err != nil {
		return err
	}

	if runChart {
		chartPNG := filepath.Join(outDir, "hashing_speed.png")
		if err := report.WriteSpeedChart(chartPNG, summaries); err != nil {
			return err
		}
	}
	return nil
}

func persistRun(cfg config.Config, samples []bench.Sample) error {
	store, err := history.NewStore(history.StoreConfig{
		Driver: cfg.HistoryDriver,
		DSN:    cfg.HistoryDSN,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	label := runLabel
	if label == "" {
		label = time.Now().Format("2006-01-02 15:04:05")
	}
	_, err = store.SaveRun(label, int(cfg.Concurrency), samples)
	return err
}

func selectAlgorithms(cfg *config.Config) error {
	options := make([]string, 0, len(hashalg.All()))
	for _, id := range hashalg.All() {
		options = append(options, string(id))
	}

	var selected []string
	prompt := &survey.MultiSelect{
		Message: "Algorithms to benchmark:",
		Options: options,
		Default: idsToStrings(cfg.Algorithms),
	}
	if err := survey.AskOne(prompt, &selected, survey.WithValidator(survey.Required)); err != nil {
		return fmt.Errorf("algorithm selection aborted: %w", err)
	}

	cfg.Algorithms = cfg.Algorithms[:0]
	for _, name := range selected {
		id, err := hashalg.Parse(name)
		if err != nil {
			return err
		}
		cfg.Algorithms = append(cfg.Algorithms, id)
	}
	return nil
}

func idsToStrings(ids []hashalg.ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}

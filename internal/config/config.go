// Package config loads tool configuration from file, environment, and flags,
// and validates it before any task is queued.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"hashmark/internal/hashalg"
	"hashmark/internal/stats"
)

// Config is the validated run configuration.
type Config struct {
	Algorithms  []hashalg.ID
	DataSizesMB []uint
	Iterations  uint
	Repeats     uint
	Concurrency uint
	ChunkSizeKB uint
	DataDir     string
	ResultsDir  string
	Pairs       []stats.Pair
	Metric      string

	HistoryDriver string
	HistoryDSN    string

	WebhookURL  string
	MetricsPort int
}

// ValidationError aggregates every invalid setting. Returned before any work
// starts: a bad config is a usage mistake, not a runtime condition.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Problems, "; "))
}

// Load initializes viper from an optional config file and the environment.
func Load(cfgFile string) {
	// explicit .env loading; a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hashmark")
	}

	viper.SetEnvPrefix("HASHMARK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	// If a config file is found, read it in; defaults cover the rest.
	_ = viper.ReadInConfig()
}

// SetDefaults installs the default configuration values.
func SetDefaults() {
	viper.SetDefault("algorithms", []string{
		"md5", "sha1", "sha256", "sha512", "sha3_256", "blake2s", "blake2b", "blake3",
	})
	viper.SetDefault("data_sizes_mb", []int{1, 2, 4, 8, 16, 32, 64, 128, 200, 512})
	viper.SetDefault("iterations", 5)
	viper.SetDefault("repeats", 5)
	viper.SetDefault("concurrency", runtime.NumCPU())
	viper.SetDefault("chunk_size_kb", 64)
	viper.SetDefault("data_dir", "data/speed")
	viper.SetDefault("results_dir", "results")
	viper.SetDefault("pairs", []string{"blake3:sha256", "blake2s:blake2b"})
	viper.SetDefault("metric", "elapsed")
	viper.SetDefault("history.driver", "sqlite")
	viper.SetDefault("history.dsn", ".hashmark.db")
	viper.SetDefault("notify.webhook_url", "")
	viper.SetDefault("metrics_port", 0)
}

// BindFlags wires command flags over the viper keys they mirror.
func BindFlags(fs *pflag.FlagSet) {
	bindings := map[string]string{
		"algorithms":   "algorithms",
		"sizes":        "data_sizes_mb",
		"iterations":   "iterations",
		"repeats":      "repeats",
		"concurrency":  "concurrency",
		"data-dir":     "data_dir",
		"results-dir":  "results_dir",
		"pairs":        "pairs",
		"metric":       "metric",
		"metrics-port": "metrics_port",
	}
	fs.VisitAll(func(f *pflag.Flag) {
		if key, ok := bindings[f.Name]; ok {
			_ = viper.BindPFlag(key, f)
		}
	})
}

// FromViper assembles and validates a Config from the loaded settings.
func FromViper() (Config, error) {
	cfg := Config{
		Iterations:    uint(viper.GetInt("iterations")),
		Repeats:       uint(viper.GetInt("repeats")),
		Concurrency:   uint(viper.GetInt("concurrency")),
		ChunkSizeKB:   uint(viper.GetInt("chunk_size_kb")),
		DataDir:       viper.GetString("data_dir"),
		ResultsDir:    viper.GetString("results_dir"),
		Metric:        viper.GetString("metric"),
		HistoryDriver: viper.GetString("history.driver"),
		HistoryDSN:    viper.GetString("history.dsn"),
		WebhookURL:    viper.GetString("notify.webhook_url"),
		MetricsPort:   viper.GetInt("metrics_port"),
	}

	var problems []string

	for _, name := range viper.GetStringSlice("algorithms") {
		id, err := hashalg.Parse(name)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		cfg.Algorithms = append(cfg.Algorithms, id)
	}
	if len(cfg.Algorithms) == 0 {
		problems = append(problems, "at least one algorithm is required")
	}

	for _, size := range viper.GetIntSlice("data_sizes_mb") {
		if size <= 0 {
			problems = append(problems, fmt.Sprintf("data size must be positive, got %d", size))
			continue
		}
		cfg.DataSizesMB = append(cfg.DataSizesMB, uint(size))
	}
	if len(cfg.DataSizesMB) == 0 {
		problems = append(problems, "at least one data size is required")
	}

	if viper.GetInt("iterations") <= 0 {
		problems = append(problems, fmt.Sprintf("iterations must be positive, got %d", viper.GetInt("iterations")))
	}
	if viper.GetInt("repeats") <= 0 {
		problems = append(problems, fmt.Sprintf("repeats must be positive, got %d", viper.GetInt("repeats")))
	}
	if viper.GetInt("concurrency") <= 0 {
		problems = append(problems, fmt.Sprintf("concurrency must be positive, got %d", viper.GetInt("concurrency")))
	}

	for _, raw := range viper.GetStringSlice("pairs") {
		pair, err := stats.ParsePair(raw)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		cfg.Pairs = append(cfg.Pairs, pair)
	}

	switch cfg.Metric {
	case "elapsed", "cpu", "memory":
	default:
		problems = append(problems, fmt.Sprintf("unknown metric %q", cfg.Metric))
	}

	if len(problems) > 0 {
		return Config{}, &ValidationError{Problems: problems}
	}
	return cfg, nil
}

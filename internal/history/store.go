// Package history persists benchmark runs across invocations so results can
// be listed and compared later.
package history

import (
	"fmt"
	"strings"
	"time"

	"hashmark/internal/bench"
)

// Run is one persisted benchmark invocation.
type Run struct {
	ID          int64     `json:"id"`
	Label       string    `json:"label"`
	Concurrency int       `json:"concurrency"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is the persistence boundary for runs and their samples.
type Store interface {
	Close() error
	SaveRun(label string, concurrency int, samples []bench.Sample) (int64, error)
	ListRuns(limit int) ([]Run, error)
	LatestRun() (*Run, error)
	RunSamples(runID int64) ([]bench.Sample, error)
}

// StoreConfig selects and configures the storage backend.
type StoreConfig struct {
	Driver string // "sqlite" or "postgres"
	DSN    string // file path for SQLite, connection string for Postgres
}

// NewStore builds a Store from config. SQLite is the default backend.
func NewStore(config StoreConfig) (Store, error) {
	switch strings.ToLower(config.Driver) {
	case "postgres", "postgresql":
		if config.DSN == "" {
			return nil, fmt.Errorf("postgres connection string is required")
		}
		return NewPostgresStore(config.DSN)
	case "sqlite", "sqlite3", "":
		if config.DSN == "" {
			config.DSN = ".hashmark.db"
		}
		return NewSQLiteStore(config.DSN)
	default:
		return nil, fmt.Errorf("unsupported history driver: %s", config.Driver)
	}
}

package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"hashmark/internal/bench"
	"hashmark/internal/hashalg"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and applies the
// schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT NOT NULL,
		concurrency INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		algorithm TEXT NOT NULL,
		data_size_mb INTEGER NOT NULL,
		iterations INTEGER NOT NULL,
		elapsed_ms REAL NOT NULL,
		cpu_pct REAL NOT NULL,
		peak_memory_mb REAL NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a run and its samples in one transaction.
func (s *SQLiteStore) SaveRun(label string, concurrency int, samples []bench.Sample) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO runs (label, concurrency, created_at) VALUES (?, ?, ?)",
		label, concurrency, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO samples
		(run_id, algorithm, data_size_mb, iterations, elapsed_ms, cpu_pct, peak_memory_mb)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		if _, err := stmt.Exec(
			runID, string(sample.Algorithm), sample.DataSizeMB, sample.Iterations,
			sample.ElapsedMS, sample.CPUPercent, sample.PeakMemoryMB,
		); err != nil {
			return 0, fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		"SELECT id, label, concurrency, created_at FROM runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Label, &r.Concurrency, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRun returns the newest run, or nil when the store is empty.
func (s *SQLiteStore) LatestRun() (*Run, error) {
	runs, err := s.ListRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// RunSamples loads every sample recorded for a run.
func (s *SQLiteStore) RunSamples(runID int64) ([]bench.Sample, error) {
	rows, err := s.db.Query(`SELECT algorithm, data_size_mb, iterations, elapsed_ms, cpu_pct, peak_memory_mb
		FROM samples WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []bench.Sample
	for rows.Next() {
		var algo string
		var sample bench.Sample
		if err := rows.Scan(&algo, &sample.DataSizeMB, &sample.Iterations,
			&sample.ElapsedMS, &sample.CPUPercent, &sample.PeakMemoryMB); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		sample.Algorithm = hashalg.ID(algo)
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

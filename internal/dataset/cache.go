package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const (
	// DefaultChunkSize is the read granularity for streaming a dataset (64KB).
	DefaultChunkSize = 64 * 1024

	// patternBlockSize is the size of the repeating block used to synthesize
	// dataset content. Content is a fixed byte ramp, so identical keys yield
	// byte-identical files on every machine.
	patternBlockSize = 64 * 1024
)

// StorageError reports that a dataset could not be created or read.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("dataset storage %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Handle is a reference to a materialized dataset file.
type Handle struct {
	path       string
	sizeMB     uint
	iterations uint
}

// Path returns the on-disk location of the dataset.
func (h Handle) Path() string { return h.path }

// Key returns the cache key (the dataset file name).
func (h Handle) Key() string { return filepath.Base(h.path) }

// SizeMB returns the dataset size in megabytes.
func (h Handle) SizeMB() uint { return h.sizeMB }

// Iterations returns the iteration count the dataset was keyed with.
func (h Handle) Iterations() uint { return h.iterations }

// Stream reads the dataset in chunkSize pieces and feeds each to fn.
func (h Handle) Stream(chunkSize int, fn func([]byte)) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	f, err := os.Open(h.path)
	if err != nil {
		return &StorageError{Path: h.path, Err: err}
	}
	defer f.Close()

	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			fn(buf[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &StorageError{Path: h.path, Err: err}
		}
	}
}

// Cache materializes deterministic benchmark payloads and memoizes them on
// disk. It is constructed at run start and passed to whatever needs it; there
// is no package-level singleton.
type Cache struct {
	dir string
	mu  sync.Mutex
}

// NewCache returns a cache rooted at dir, creating it if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Path: dir, Err: err}
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string { return c.dir }

func fileName(sizeMB, iterations uint) string {
	return fmt.Sprintf("dataset_%dMB_%d.bin", sizeMB, iterations)
}

// GetOrCreate returns the dataset for (sizeMB, iterations), synthesizing and
// persisting it on first request. Content is deterministic: no entropy source
// is consulted, so the same key produces byte-identical files across runs and
// machines. Creation writes to a temp file and publishes with an atomic
// rename, so a concurrent reader never observes a partial file.
func (c *Cache) GetOrCreate(sizeMB, iterations uint) (Handle, error) {
	if sizeMB == 0 || iterations == 0 {
		return Handle{}, fmt.Errorf("dataset key must be positive, got size=%dMB iterations=%d", sizeMB, iterations)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	path := filepath.Join(c.dir, fileName(sizeMB, iterations))
	if _, err := os.Stat(path); err == nil {
		return Handle{path: path, sizeMB: sizeMB, iterations: iterations}, nil
	}

	if err := c.synthesize(path, sizeMB); err != nil {
		return Handle{}, err
	}
	return Handle{path: path, sizeMB: sizeMB, iterations: iterations}, nil
}

func (c *Cache) synthesize(path string, sizeMB uint) error {
	tmp, err := os.CreateTemp(c.dir, ".dataset-*.tmp")
	if err != nil {
		return &StorageError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	block := make([]byte, patternBlockSize)
	for i := range block {
		block[i] = byte(i % 256)
	}

	remaining := int64(sizeMB) * 1024 * 1024
	for remaining > 0 {
		n := int64(len(block))
		if remaining < n {
			n = remaining
		}
		if _, err := tmp.Write(block[:n]); err != nil {
			tmp.Close()
			return &StorageError{Path: path, Err: err}
		}
		remaining -= n
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &StorageError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &StorageError{Path: path, Err: err}
	}
	return nil
}

// List returns the dataset files currently in the cache.
func (c *Cache) List() ([]string, error) {
	entries, err := filepath.Glob(filepath.Join(c.dir, "dataset_*.bin"))
	if err != nil {
		return nil, &StorageError{Path: c.dir, Err: err}
	}
	return entries, nil
}

// Clean removes every cached dataset file.
func (c *Cache) Clean() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.List()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, path := range entries {
		if err := os.Remove(path); err != nil {
			return removed, &StorageError{Path: path, Err: err}
		}
		removed++
	}
	return removed, nil
}

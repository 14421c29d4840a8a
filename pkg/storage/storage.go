// Package storage provides durable key-value backends for persisted
// dashboard state.
//
// A [Backend] stores opaque byte records under string keys. The layout store
// keeps one record (the whole dashboard state) under one key, so backends are
// optimised for small, whole-record reads and writes rather than scans.
//
// # Backends
//
//   - file: one JSON file per key under a directory (CLI default)
//   - memory: process-local map (tests, throwaway sessions)
//   - none: stores nothing; every Get misses
//   - redis: go-redis client, keys namespaced by a prefix
//   - mongo: one document per key in a collection
//   - sqlite: one row per key in a kv table
//
// [Open] builds a backend from a [Config] and wraps it so that every Get and
// Set reports to the registered observability hooks.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/observability"
)

// Backend is a durable key-value store.
type Backend interface {
	// Get returns the record stored under key. A missing key is a miss
	// (nil, false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set replaces the record stored under key.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases connections and handles.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendNone   = "none"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendFile, BackendMemory, BackendNone, BackendRedis, BackendMongo, BackendSQLite}

// Config selects and configures a backend.
type Config struct {
	Backend string
	Dir     string
	Redis   RedisConfig
	Mongo   MongoConfig
	SQLite  SQLiteConfig

	// Logger receives debug lines for every read and write. Optional.
	Logger *log.Logger
}

// Open creates the backend named by cfg.Backend. An empty name selects the
// file backend.
func Open(ctx context.Context, cfg Config) (Backend, error) {
	name := cfg.Backend
	if name == "" {
		name = BackendFile
	}

	var (
		b   Backend
		err error
	)
	switch name {
	case BackendFile:
		dir := cfg.Dir
		if dir == "" {
			if dir, err = DefaultDir(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeStorage, err, "resolve data directory")
			}
		}
		b, err = NewFileBackend(dir)
	case BackendMemory:
		b = NewMemoryBackend()
	case BackendNone:
		b = NewNullBackend()
	case BackendRedis:
		b, err = NewRedisBackend(ctx, cfg.Redis)
	case BackendMongo:
		b, err = NewMongoBackend(ctx, cfg.Mongo)
	case BackendSQLite:
		path := cfg.SQLite.Path
		if path == "" {
			dir := cfg.Dir
			if dir == "" {
				if dir, err = DefaultDir(); err != nil {
					return nil, errors.Wrap(errors.ErrCodeStorage, err, "resolve data directory")
				}
			}
			path = filepath.Join(dir, "gridboard.db")
		}
		b, err = NewSQLiteBackend(path)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown storage backend %q (want one of %v)", name, Backends)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s storage", name)
	}
	return Instrument(b, name, cfg.Logger), nil
}

// DefaultDir returns the data directory using the XDG standard
// (~/.local/share/gridboard/).
func DefaultDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "gridboard"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "gridboard"), nil
}

// =============================================================================
// Instrumentation
// =============================================================================

type instrumented struct {
	Backend
	name   string
	logger *log.Logger
}

// Instrument wraps b so that reads and writes are reported to the storage
// hooks and, when logger is non-nil, logged at debug level.
func Instrument(b Backend, name string, logger *log.Logger) Backend {
	return &instrumented{Backend: b, name: name, logger: logger}
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	data, ok, err := i.Backend.Get(ctx, key)
	d := time.Since(start)
	observability.Storage().OnLoad(ctx, i.name, key, ok, d, err)
	if i.logger != nil {
		i.logger.Debug("storage get", "backend", i.name, "key", key, "found", ok, "bytes", len(data), "duration", d)
	}
	return data, ok, err
}

func (i *instrumented) Set(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := i.Backend.Set(ctx, key, data)
	d := time.Since(start)
	observability.Storage().OnSave(ctx, i.name, key, len(data), d, err)
	if i.logger != nil {
		i.logger.Debug("storage set", "backend", i.name, "key", key, "bytes", len(data), "duration", d)
	}
	return err
}

// Name returns the backend name b was opened with, or "" for backends not
// created through [Open] or [Instrument].
func Name(b Backend) string {
	if i, ok := b.(*instrumented); ok {
		return i.name
	}
	return ""
}

// Package badger provides a BadgerDB-backed report store.
package badger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/felixgeelhaar/patrol-go/infrastructure/logging"
)

// ErrConnectionFailed wraps failures to open the database.
var ErrConnectionFailed = errors.New("badger: connection failed")

// Config configures the report database.
type Config struct {
	// Dir holds the database files. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in memory.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// GCInterval is the value log GC period (0 disables GC).
	GCInterval time.Duration

	// GCDiscardRatio is passed to RunValueLogGC.
	GCDiscardRatio float64

	// KeyPrefix namespaces every key, letting reports share a database.
	KeyPrefix string

	// Verbose forwards badger's info and debug output to the process logger.
	// Warnings and errors are always forwarded.
	Verbose bool
}

// Option configures the report database.
type Option func(*Config)

// WithDir sets the data directory.
func WithDir(dir string) Option {
	return func(c *Config) {
		c.Dir = dir
	}
}

// WithInMemory keeps the database in memory.
func WithInMemory() Option {
	return func(c *Config) {
		c.InMemory = true
	}
}

// WithSyncWrites fsyncs every commit.
func WithSyncWrites() Option {
	return func(c *Config) {
		c.SyncWrites = true
	}
}

// WithGCInterval sets the value log GC period.
func WithGCInterval(d time.Duration) Option {
	return func(c *Config) {
		c.GCInterval = d
	}
}

// WithKeyPrefix sets the key namespace.
func WithKeyPrefix(prefix string) Option {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

// DefaultConfig returns an on-disk configuration; set Dir before use.
func DefaultConfig() Config {
	return Config{
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

func openDB(cfg Config) (*badger.DB, error) {
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, fmt.Errorf("%w: no directory configured", ErrConnectionFailed)
	}

	opts := badger.DefaultOptions(cfg.Dir).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(dbLogger{verbose: cfg.Verbose})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	return db, nil
}

// dbLogger adapts badger's printf-style logger to the process logger.
type dbLogger struct {
	verbose bool
}

var _ badger.Logger = dbLogger{}

func (l dbLogger) Errorf(format string, args ...any) {
	logging.Error().Add(logging.Component("badger")).Msg(formatLine(format, args))
}

func (l dbLogger) Warningf(format string, args ...any) {
	logging.Warn().Add(logging.Component("badger")).Msg(formatLine(format, args))
}

func (l dbLogger) Infof(format string, args ...any) {
	if l.verbose {
		logging.Info().Add(logging.Component("badger")).Msg(formatLine(format, args))
	}
}

func (l dbLogger) Debugf(format string, args ...any) {
	if l.verbose {
		logging.Debug().Add(logging.Component("badger")).Msg(formatLine(format, args))
	}
}

func formatLine(format string, args []any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}

// Package sqlite provides a SQLite-backed report store.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Store errors. Driver errors are joined onto one of these.
var (
	ErrConnectionFailed = errors.New("sqlite: connection failed")
	ErrMigrationFailed  = errors.New("sqlite: migration failed")
)

// Config configures the report database.
type Config struct {
	// DSN is the data source name, for example "file:patrol.db?mode=rwc".
	DSN string

	// MaxOpenConns caps open connections (0 leaves database/sql's default).
	MaxOpenConns int

	// AutoMigrate creates the reports table when it is missing.
	AutoMigrate bool

	// JournalMode is applied with PRAGMA journal_mode, e.g. "WAL".
	JournalMode string

	// BusyTimeout is how long a writer waits on a locked database.
	BusyTimeout time.Duration
}

// Option configures the report database.
type Option func(*Config)

// WithDSN sets the data source name.
func WithDSN(dsn string) Option {
	return func(c *Config) {
		c.DSN = dsn
	}
}

// WithJournalMode sets the journal mode.
func WithJournalMode(mode string) Option {
	return func(c *Config) {
		c.JournalMode = mode
	}
}

// WithBusyTimeout sets the busy timeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.BusyTimeout = d
	}
}

// DefaultConfig keeps reports in patrol.db in the working directory.
// Reports are written once per analysis, so a small pool suffices.
func DefaultConfig() Config {
	return Config{
		DSN:          "file:patrol.db?mode=rwc",
		MaxOpenConns: 2,
		AutoMigrate:  true,
		JournalMode:  "WAL",
		BusyTimeout:  5 * time.Second,
	}
}

func (c Config) pragmas() []string {
	var out []string
	if c.JournalMode != "" {
		out = append(out, "PRAGMA journal_mode="+c.JournalMode)
	}
	if c.BusyTimeout > 0 {
		out = append(out, fmt.Sprintf("PRAGMA busy_timeout=%d", c.BusyTimeout.Milliseconds()))
	}
	return out
}

func openDB(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	// Ping first so an unreachable file reports as a connection failure.
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	for _, pragma := range cfg.pragmas() {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Join(ErrMigrationFailed, fmt.Errorf("%s: %w", pragma, err))
		}
	}

	return db, nil
}

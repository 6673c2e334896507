// Package config provides the patrol analysis configuration model.
package config

import "time"

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// PatrolConfig is the complete configuration of a patrol analysis.
type PatrolConfig struct {
	// Name labels reports produced with this configuration.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Version is the configuration schema version.
	Version string `json:"version" yaml:"version"`

	Search  SearchConfig  `json:"search,omitempty" yaml:"search,omitempty"`
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	Storage StorageConfig `json:"storage,omitempty" yaml:"storage,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// SearchConfig tunes the obstruction search.
type SearchConfig struct {
	// Workers is the worker pool size (0 = GOMAXPROCS).
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
	// StepBudgetFactor scales the per-run step budget, factor*4*area+1.
	StepBudgetFactor int `json:"step_budget_factor,omitempty" yaml:"step_budget_factor,omitempty"`
	// TrialTimeout bounds one trial (0 = none).
	TrialTimeout Duration `json:"trial_timeout,omitempty" yaml:"trial_timeout,omitempty"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is console or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// StorageConfig selects where reports are kept.
type StorageConfig struct {
	// Backend is memory, sqlite or badger.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
	// DSN is the SQLite data source name.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	// Dir is the BadgerDB data directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// MetricsConfig toggles OpenTelemetry metrics.
type MetricsConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *PatrolConfig {
	cfg := &PatrolConfig{Version: "1.0"}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields. Workers stays 0, meaning GOMAXPROCS.
func (c *PatrolConfig) ApplyDefaults() {
	if c.Search.StepBudgetFactor == 0 {
		c.Search.StepBudgetFactor = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = FormatConsole
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendMemory
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.DSN == "" {
		c.Storage.DSN = "file:patrol.db?mode=rwc"
	}
	if c.Storage.Backend == BackendBadger && c.Storage.Dir == "" {
		c.Storage.Dir = ".patrol"
	}
}

// Duration is a time.Duration written as a string such as "5s".
// It implements encoding.TextMarshaler, which both encoding/json and
// yaml.v3 honour.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	dur, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

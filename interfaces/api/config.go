package api

import (
	"fmt"

	domainconfig "github.com/felixgeelhaar/patrol-go/domain/config"
	infraconfig "github.com/felixgeelhaar/patrol-go/infrastructure/config"
)

// Config is the patrol configuration file model.
type Config = domainconfig.PatrolConfig

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return domainconfig.Default()
}

// LoadConfig loads and validates a YAML or JSON configuration file.
func LoadConfig(path string) (*Config, error) {
	return infraconfig.NewLoader().LoadFile(path)
}

// ConfigSchemaJSON returns the configuration JSON schema.
func ConfigSchemaJSON() (string, error) {
	return infraconfig.SchemaJSON()
}

// NewFromConfig builds an Analyzer and opens the configured report store.
// The caller closes the store.
func NewFromConfig(cfg *Config) (*Analyzer, ReportStore, error) {
	builder := infraconfig.NewBuilder(cfg)
	result, err := builder.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build configuration: %w", err)
	}

	store, err := builder.OpenStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open report store: %w", err)
	}

	a := New(
		WithWorkers(result.Workers),
		WithStepBudgetFactor(result.StepBudgetFactor),
		WithMetrics(result.Metrics),
		WithStore(store),
	)
	return a, store, nil
}

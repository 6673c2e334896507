package config

import (
	"fmt"
	"runtime"

	domainconfig "github.com/felixgeelhaar/patrol-go/domain/config"
	"github.com/felixgeelhaar/patrol-go/domain/report"
	"github.com/felixgeelhaar/patrol-go/infrastructure/logging"
	"github.com/felixgeelhaar/patrol-go/infrastructure/resilience"
	"github.com/felixgeelhaar/patrol-go/infrastructure/storage/badger"
	"github.com/felixgeelhaar/patrol-go/infrastructure/storage/memory"
	"github.com/felixgeelhaar/patrol-go/infrastructure/storage/sqlite"
	"github.com/felixgeelhaar/patrol-go/infrastructure/telemetry"
)

// Builder builds infrastructure components from configuration.
type Builder struct {
	config *domainconfig.PatrolConfig
}

// NewBuilder creates a new configuration builder.
func NewBuilder(config *domainconfig.PatrolConfig) *Builder {
	return &Builder{config: config}
}

// BuildResult contains the built components from configuration.
type BuildResult struct {
	// Name labels reports.
	Name string
	// Workers is the resolved worker pool size.
	Workers int
	// StepBudgetFactor scales the per-run step budget.
	StepBudgetFactor int
	// Executor bounds trials to Workers and retries persistence.
	Executor *resilience.Executor
	// Metrics records telemetry; a no-op unless metrics are enabled.
	Metrics telemetry.Metrics
	// Recorder holds collected metrics when they are enabled, else nil.
	Recorder *telemetry.Recorder
	// Logging is the logger configuration.
	Logging logging.Config
}

// Build builds the components from configuration. Overrides set on the
// result after Build (for example from CLI flags) are the caller's concern.
func (b *Builder) Build() (*BuildResult, error) {
	cfg := b.config
	if cfg == nil {
		cfg = domainconfig.Default()
	}

	result := &BuildResult{
		Name:             cfg.Name,
		Workers:          ResolveWorkers(cfg.Search.Workers),
		StepBudgetFactor: cfg.Search.StepBudgetFactor,
		Logging: logging.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		},
	}

	result.Executor = resilience.NewExecutorWithOptions(
		resilience.WithMaxConcurrent(result.Workers),
		resilience.WithTrialTimeout(cfg.Search.TrialTimeout.Duration()),
	)

	if cfg.Metrics.Enabled {
		rec := telemetry.NewRecorder()
		mp := rec.Metrics(telemetry.DefaultMetricsConfig())
		if err := mp.Error(); err != nil {
			return nil, fmt.Errorf("building metrics: %w", err)
		}
		result.Metrics = mp
		result.Recorder = rec
	} else {
		result.Metrics = &telemetry.NoopMetricsProvider{}
	}

	return result, nil
}

// OpenStore opens the configured report store. The caller closes it.
func (b *Builder) OpenStore() (report.Store, error) {
	storage := domainconfig.StorageConfig{Backend: domainconfig.BackendMemory}
	if b.config != nil {
		storage = b.config.Storage
	}
	return OpenStore(storage)
}

// OpenStore opens the report store described by storage.
func OpenStore(storage domainconfig.StorageConfig) (report.Store, error) {
	switch storage.Backend {
	case "", domainconfig.BackendMemory:
		return memory.NewReportStore(), nil
	case domainconfig.BackendSQLite:
		cfg := sqlite.DefaultConfig()
		if storage.DSN != "" {
			cfg.DSN = storage.DSN
		}
		return sqlite.NewReportStore(cfg)
	case domainconfig.BackendBadger:
		return badger.NewReportStore(badger.DefaultConfig(), badger.WithDir(storage.Dir))
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", domainconfig.ErrValidationFailed, storage.Backend)
	}
}

// ResolveWorkers maps a configured worker count to a pool size.
func ResolveWorkers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

package application

import (
	"time"

	"github.com/felixgeelhaar/patrol-go/infrastructure/resilience"
	"github.com/felixgeelhaar/patrol-go/infrastructure/telemetry"
)

// Option configures the coordinator.
type Option func(*CoordinatorConfig)

// WithEngine sets the patrol engine.
func WithEngine(e *Engine) Option {
	return func(c *CoordinatorConfig) {
		c.Engine = e
	}
}

// WithExecutor sets the trial executor.
func WithExecutor(e *resilience.Executor) Option {
	return func(c *CoordinatorConfig) {
		c.Executor = e
	}
}

// WithWorkers sets the worker pool size.
// Zero or a negative value means runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *CoordinatorConfig) {
		c.Workers = n
	}
}

// WithTrialTimeout bounds each trial.
func WithTrialTimeout(d time.Duration) Option {
	return func(c *CoordinatorConfig) {
		c.TrialTimeout = d
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(c *CoordinatorConfig) {
		c.Metrics = m
	}
}

// NewCoordinatorWithOptions creates a coordinator with functional options.
func NewCoordinatorWithOptions(opts ...Option) *Coordinator {
	config := CoordinatorConfig{}
	for _, opt := range opts {
		opt(&config)
	}
	return NewCoordinator(config)
}

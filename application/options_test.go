package application_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/patrol-go/application"
	"github.com/felixgeelhaar/patrol-go/infrastructure/resilience"
	"github.com/felixgeelhaar/patrol-go/infrastructure/telemetry"
)

func TestWithEngine(t *testing.T) {
	t.Parallel()

	engine := application.NewEngine(application.EngineConfig{})
	config := &application.CoordinatorConfig{}

	application.WithEngine(engine)(config)

	if config.Engine != engine {
		t.Error("WithEngine should set the engine")
	}
}

func TestWithExecutor(t *testing.T) {
	t.Parallel()

	executor := resilience.NewDefaultExecutor()
	config := &application.CoordinatorConfig{}

	application.WithExecutor(executor)(config)

	if config.Executor != executor {
		t.Error("WithExecutor should set the executor")
	}
}

func TestWithWorkersAndTimeout(t *testing.T) {
	t.Parallel()

	config := &application.CoordinatorConfig{}
	application.WithWorkers(3)(config)
	application.WithTrialTimeout(time.Second)(config)

	if config.Workers != 3 {
		t.Errorf("Workers = %d, want 3", config.Workers)
	}
	if config.TrialTimeout != time.Second {
		t.Errorf("TrialTimeout = %v, want 1s", config.TrialTimeout)
	}
}

func TestWithMetrics(t *testing.T) {
	t.Parallel()

	m := &telemetry.NoopMetricsProvider{}
	config := &application.CoordinatorConfig{}

	application.WithMetrics(m)(config)

	if config.Metrics != m {
		t.Error("WithMetrics should set the metrics recorder")
	}
}

func TestNewCoordinatorWithOptions(t *testing.T) {
	t.Parallel()

	c := application.NewCoordinatorWithOptions(application.WithWorkers(5))
	if c.Workers() != 5 {
		t.Errorf("Workers() = %d, want 5", c.Workers())
	}
}

func TestNewCoordinator_ClampsToExecutor(t *testing.T) {
	t.Parallel()

	c := application.NewCoordinatorWithOptions(
		application.WithWorkers(16),
		application.WithExecutor(resilience.NewExecutorWithOptions(resilience.WithMaxConcurrent(2))),
	)
	if c.Workers() != 2 {
		t.Errorf("Workers() = %d, want 2", c.Workers())
	}
}

func TestNewCoordinator_DefaultWorkers(t *testing.T) {
	t.Parallel()

	c := application.NewCoordinatorWithOptions()
	if c.Workers() < 1 {
		t.Errorf("Workers() = %d, want >= 1", c.Workers())
	}
}

// Package resilience bounds trial concurrency and retries report persistence
// using fortify.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/ferrors"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/patrol-go/domain/patrol"
)

// ErrTrialRejected is returned by Execute when the bulkhead has neither a
// free slot nor queue room for the trial.
var ErrTrialRejected = errors.New("trial rejected: executor at capacity")

// TrialFunc runs one obstruction trial.
type TrialFunc func(ctx context.Context) (patrol.TrialResult, error)

// Executor runs trials behind a bulkhead and persists reports with retry.
type Executor struct {
	bulkhead bulkhead.Bulkhead[patrol.TrialResult]
	retry    retry.Retry[struct{}]
	timeout  time.Duration
	limit    int
}

// ExecutorConfig configures the executor.
type ExecutorConfig struct {
	// MaxConcurrent limits concurrent trial executions.
	MaxConcurrent int

	// MaxQueue bounds trials waiting for a slot. Zero means
	// 16*MaxConcurrent; a negative value disables queueing so a busy
	// executor rejects at once. Queued trials wait until ctx ends.
	MaxQueue int

	// TrialTimeout bounds a single trial (0 = no timeout).
	TrialTimeout time.Duration

	// PersistMaxAttempts is the maximum number of save attempts.
	PersistMaxAttempts int

	// PersistInitialDelay is the initial delay between save attempts.
	PersistInitialDelay time.Duration

	// PersistBackoffMultiplier is the exponential backoff multiplier.
	PersistBackoffMultiplier float64
}

// DefaultExecutorConfig returns a configuration with sensible defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxConcurrent:            4,
		TrialTimeout:             0,
		PersistMaxAttempts:       3,
		PersistInitialDelay:      50 * time.Millisecond,
		PersistBackoffMultiplier: 2.0,
	}
}

// NewExecutor creates a new executor.
func NewExecutor(config ExecutorConfig) *Executor {
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultExecutorConfig().MaxConcurrent
	}
	maxQueue := config.MaxQueue
	switch {
	case maxQueue == 0:
		maxQueue = 16 * maxConcurrent
	case maxQueue < 0:
		maxQueue = 0
	}
	attempts := config.PersistMaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	multiplier := config.PersistBackoffMultiplier
	if multiplier < 1 {
		multiplier = 1
	}

	return &Executor{
		bulkhead: bulkhead.New[patrol.TrialResult](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
			MaxQueue:      maxQueue,
		}),
		retry: retry.New[struct{}](retry.Config{
			MaxAttempts:   attempts,
			InitialDelay:  config.PersistInitialDelay,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    multiplier,
		}),
		timeout: config.TrialTimeout,
		limit:   maxConcurrent,
	}
}

// NewDefaultExecutor creates an executor with default configuration.
func NewDefaultExecutor() *Executor {
	return NewExecutor(DefaultExecutorConfig())
}

// MaxConcurrent returns the bulkhead size.
func (e *Executor) MaxConcurrent() int {
	return e.limit
}

// Execute runs fn inside the bulkhead, applying the trial timeout if set.
// A trial that finds the bulkhead busy waits in the queue; ErrTrialRejected
// means the queue was full too.
func (e *Executor) Execute(ctx context.Context, fn TrialFunc) (patrol.TrialResult, error) {
	start := time.Now()

	result, err := e.bulkhead.Execute(ctx, func(ctx context.Context) (patrol.TrialResult, error) {
		if e.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.timeout)
			defer cancel()
		}
		return fn(ctx)
	})

	if errors.Is(err, ferrors.ErrBulkheadFull) {
		return result, ErrTrialRejected
	}
	if result.Duration == 0 {
		result.Duration = time.Since(start)
	}
	return result, err
}

// Persist runs save with exponential backoff until it succeeds or the
// attempts run out.
func (e *Executor) Persist(ctx context.Context, save func(ctx context.Context) error) error {
	_, err := e.retry.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, save(ctx)
	})
	return err
}

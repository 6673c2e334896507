package resilience

import "time"

// Option configures the executor.
type Option func(*ExecutorConfig)

// WithMaxConcurrent sets the maximum concurrent trials.
func WithMaxConcurrent(n int) Option {
	return func(c *ExecutorConfig) {
		c.MaxConcurrent = n
	}
}

// WithMaxQueue sets how many trials may wait for a slot.
// A negative value disables queueing.
func WithMaxQueue(n int) Option {
	return func(c *ExecutorConfig) {
		c.MaxQueue = n
	}
}

// WithTrialTimeout sets the per-trial timeout.
func WithTrialTimeout(d time.Duration) Option {
	return func(c *ExecutorConfig) {
		c.TrialTimeout = d
	}
}

// WithPersistAttempts sets the maximum save attempts.
func WithPersistAttempts(n int) Option {
	return func(c *ExecutorConfig) {
		c.PersistMaxAttempts = n
	}
}

// WithPersistDelay sets the initial delay between save attempts.
func WithPersistDelay(d time.Duration) Option {
	return func(c *ExecutorConfig) {
		c.PersistInitialDelay = d
	}
}

// NewExecutorWithOptions creates an executor with the given options.
func NewExecutorWithOptions(opts ...Option) *Executor {
	config := DefaultExecutorConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewExecutor(config)
}

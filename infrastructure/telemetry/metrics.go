// Package telemetry provides OpenTelemetry metrics and tracing for patrol
// runs and obstruction searches.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	trials      metric.Int64Counter
	loopsFound  metric.Int64Counter
	transitions metric.Int64Counter
	errors      metric.Int64Counter

	// Histograms
	trialDuration    metric.Float64Histogram
	trialSteps       metric.Int64Histogram
	baselineDuration metric.Float64Histogram
	searchDuration   metric.Float64Histogram

	// Gauges (using UpDownCounter for OpenTelemetry)
	activeTrials metric.Int64UpDownCounter

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/patrol-go").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/patrol-go",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider from the global meter provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	return NewMetricsProviderFrom(otel.GetMeterProvider(), config)
}

// NewMetricsProviderFrom creates a metrics provider on an explicit meter provider.
func NewMetricsProviderFrom(provider metric.MeterProvider, config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	meter := provider.Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{
		meter: meter,
	}

	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})

	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.trials, err = mp.meter.Int64Counter(
		"patrol.trials",
		metric.WithDescription("Number of completed obstruction trials"),
		metric.WithUnit("{trial}"),
	)
	if err != nil {
		return err
	}

	mp.loopsFound, err = mp.meter.Int64Counter(
		"patrol.loops.found",
		metric.WithDescription("Number of loop-inducing obstructions found"),
		metric.WithUnit("{position}"),
	)
	if err != nil {
		return err
	}

	mp.transitions, err = mp.meter.Int64Counter(
		"patrol.trial.transitions",
		metric.WithDescription("Number of trial lifecycle transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	mp.errors, err = mp.meter.Int64Counter(
		"patrol.errors",
		metric.WithDescription("Number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	mp.trialDuration, err = mp.meter.Float64Histogram(
		"patrol.trial.duration",
		metric.WithDescription("Duration of obstruction trials"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.trialSteps, err = mp.meter.Int64Histogram(
		"patrol.trial.steps",
		metric.WithDescription("Steps walked per obstruction trial"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return err
	}

	mp.baselineDuration, err = mp.meter.Float64Histogram(
		"patrol.baseline.duration",
		metric.WithDescription("Duration of baseline patrols"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.searchDuration, err = mp.meter.Float64Histogram(
		"patrol.search.duration",
		metric.WithDescription("Duration of obstruction searches"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.activeTrials, err = mp.meter.Int64UpDownCounter(
		"patrol.trials.active",
		metric.WithDescription("Number of trials in flight"),
		metric.WithUnit("{trial}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordTrial records a finished trial.
func (mp *MetricsProvider) RecordTrial(ctx context.Context, outcome string, steps int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("trial.outcome", outcome))

	mp.trials.Add(ctx, 1, attrs)
	mp.trialSteps.Record(ctx, int64(steps), attrs)
	mp.trialDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordTransition records a trial lifecycle transition.
func (mp *MetricsProvider) RecordTransition(ctx context.Context, from, to string) {
	mp.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("state.from", from),
		attribute.String("state.to", to),
	))
}

// RecordBaseline records a baseline patrol.
func (mp *MetricsProvider) RecordBaseline(ctx context.Context, visited int, duration time.Duration) {
	mp.baselineDuration.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(
		attribute.Int("baseline.visited", visited),
	))
}

// RecordSearch records a finished obstruction search.
func (mp *MetricsProvider) RecordSearch(ctx context.Context, candidates, loops, workers int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.Int("search.candidates", candidates),
		attribute.Int("search.workers", workers),
	)
	mp.loopsFound.Add(ctx, int64(loops), attrs)
	mp.searchDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordError records an error.
func (mp *MetricsProvider) RecordError(ctx context.Context, errorType string) {
	mp.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("error.type", errorType),
	))
}

// IncrementActiveTrials increments the active trials counter.
func (mp *MetricsProvider) IncrementActiveTrials(ctx context.Context) {
	mp.activeTrials.Add(ctx, 1)
}

// DecrementActiveTrials decrements the active trials counter.
func (mp *MetricsProvider) DecrementActiveTrials(ctx context.Context) {
	mp.activeTrials.Add(ctx, -1)
}

// NoopMetricsProvider is a no-op metrics provider for testing or when metrics are disabled.
type NoopMetricsProvider struct{}

// RecordTrial is a no-op.
func (n *NoopMetricsProvider) RecordTrial(ctx context.Context, outcome string, steps int, duration time.Duration) {
}

// RecordTransition is a no-op.
func (n *NoopMetricsProvider) RecordTransition(ctx context.Context, from, to string) {}

// RecordBaseline is a no-op.
func (n *NoopMetricsProvider) RecordBaseline(ctx context.Context, visited int, duration time.Duration) {
}

// RecordSearch is a no-op.
func (n *NoopMetricsProvider) RecordSearch(ctx context.Context, candidates, loops, workers int, duration time.Duration) {
}

// RecordError is a no-op.
func (n *NoopMetricsProvider) RecordError(ctx context.Context, errorType string) {}

// IncrementActiveTrials is a no-op.
func (n *NoopMetricsProvider) IncrementActiveTrials(ctx context.Context) {}

// DecrementActiveTrials is a no-op.
func (n *NoopMetricsProvider) DecrementActiveTrials(ctx context.Context) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordTrial(ctx context.Context, outcome string, steps int, duration time.Duration)
	RecordTransition(ctx context.Context, from, to string)
	RecordBaseline(ctx context.Context, visited int, duration time.Duration)
	RecordSearch(ctx context.Context, candidates, loops, workers int, duration time.Duration)
	RecordError(ctx context.Context, errorType string)
	IncrementActiveTrials(ctx context.Context)
	DecrementActiveTrials(ctx context.Context)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = (*NoopMetricsProvider)(nil)
)

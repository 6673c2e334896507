package telemetry

import (
	"context"
	"fmt"
	"sort"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Recorder keeps metrics in process so a command can print them when it
// finishes, without an exporter.
type Recorder struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
}

// Sample is one collected instrument.
type Sample struct {
	Name  string
	Unit  string
	Count uint64
	Value float64
}

// NewRecorder creates a recorder backed by a manual reader.
func NewRecorder() *Recorder {
	reader := sdkmetric.NewManualReader()
	return &Recorder{
		reader:   reader,
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
	}
}

// Metrics returns a metrics provider whose instruments feed this recorder.
func (r *Recorder) Metrics(config MetricsConfig) *MetricsProvider {
	return NewMetricsProviderFrom(r.provider, config)
}

// Snapshot collects every instrument. Counters report their total in Value;
// histograms report their observation count and sum.
func (r *Recorder) Snapshot(ctx context.Context) ([]Sample, error) {
	var rm metricdata.ResourceMetrics
	if err := r.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("failed to collect metrics: %w", err)
	}

	var samples []Sample
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			s := Sample{Name: m.Name, Unit: m.Unit}
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					s.Value += float64(dp.Value)
				}
			case metricdata.Sum[float64]:
				for _, dp := range data.DataPoints {
					s.Value += dp.Value
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					s.Count += dp.Count
					s.Value += float64(dp.Sum)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					s.Count += dp.Count
					s.Value += dp.Sum
				}
			default:
				continue
			}
			samples = append(samples, s)
		}
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}

// Shutdown releases the meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}

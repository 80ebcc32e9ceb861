package oteladapters

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
)

// MetricsCollector maps the collector interface onto OpenTelemetry instruments:
//   - RecordDuration -> Float64Histogram in seconds
//   - IncrementCounter -> Int64Counter
//   - RecordValue -> Float64Gauge
//
// Instruments are created lazily per metric name. It is safe for concurrent use, which matters
// because every dealer and customer goroutine of the facility records through the same collector.
type MetricsCollector struct {
	meter metric.Meter

	mu         sync.RWMutex
	histograms map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
	gauges     map[string]metric.Float64Gauge
}

// NewMetricsCollector creates a collector on a meter from your MeterProvider.
func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		meter:      meter,
		histograms: make(map[string]metric.Float64Histogram),
		counters:   make(map[string]metric.Int64Counter),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

func (m *MetricsCollector) RecordDuration(name string, duration time.Duration, labels map[string]string) {
	m.RecordDurationContext(context.Background(), name, duration, labels)
}

func (m *MetricsCollector) RecordDurationContext(ctx context.Context, name string, duration time.Duration, labels map[string]string) {
	histogram, ok := lookupOrCreate(m, m.histograms, name, func() (metric.Float64Histogram, error) {
		return m.meter.Float64Histogram(name, metric.WithUnit("s"))
	})
	if !ok {
		return
	}

	histogram.Record(ctx, duration.Seconds(), metric.WithAttributes(attributes(labels)...))
}

func (m *MetricsCollector) IncrementCounter(name string, labels map[string]string) {
	m.IncrementCounterContext(context.Background(), name, labels)
}

func (m *MetricsCollector) IncrementCounterContext(ctx context.Context, name string, labels map[string]string) {
	counter, ok := lookupOrCreate(m, m.counters, name, func() (metric.Int64Counter, error) {
		return m.meter.Int64Counter(name)
	})
	if !ok {
		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(attributes(labels)...))
}

func (m *MetricsCollector) RecordValue(name string, value float64, labels map[string]string) {
	m.RecordValueContext(context.Background(), name, value, labels)
}

func (m *MetricsCollector) RecordValueContext(ctx context.Context, name string, value float64, labels map[string]string) {
	gauge, ok := lookupOrCreate(m, m.gauges, name, func() (metric.Float64Gauge, error) {
		return m.meter.Float64Gauge(name)
	})
	if !ok {
		return
	}

	gauge.Record(ctx, value, metric.WithAttributes(attributes(labels)...))
}

// lookupOrCreate returns the cached instrument or creates it under the write lock.
// A meter error leaves the metric unrecorded.
func lookupOrCreate[T any](m *MetricsCollector, cache map[string]T, name string, create func() (T, error)) (T, bool) {
	m.mu.RLock()
	instrument, exists := cache[name]
	m.mu.RUnlock()

	if exists {
		return instrument, true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if instrument, exists = cache[name]; exists {
		return instrument, true
	}

	instrument, err := create()
	if err != nil {
		return instrument, false
	}

	cache[name] = instrument

	return instrument, true
}

func attributes(labels map[string]string) []attribute.KeyValue {
	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	attrs := make([]attribute.KeyValue, 0, len(labels))
	for _, key := range keys {
		attrs = append(attrs, attribute.String(key, labels[key]))
	}

	return attrs
}

var _ eventstore.ContextualMetricsCollector = (*MetricsCollector)(nil)

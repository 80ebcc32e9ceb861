package testdoubles

import (
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy captures metrics calls. It satisfies facility.MetricsCollector and
// eventstore.MetricsCollector.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []SpyDurationRecord
	counters  []SpyCounterRecord
	values    []SpyValueRecord
}

// SpyDurationRecord represents a recorded duration metric call.
type SpyDurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// SpyCounterRecord represents a recorded counter increment call.
type SpyCounterRecord struct {
	Metric string
	Labels map[string]string
}

// SpyValueRecord represents a recorded value metric call.
type SpyValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations = append(s.durations, SpyDurationRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = append(s.counters, SpyCounterRecord{Metric: metric, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, SpyValueRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

// CountCounter counts increments of metric whose labels contain every given key/value pair.
func (s *MetricsCollectorSpy) CountCounter(metric string, labels map[string]string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.counters {
		if r.Metric == metric && containsLabels(r.Labels, labels) {
			n++
		}
	}

	return n
}

// HasDuration reports whether metric was recorded as a duration at least once.
func (s *MetricsCollectorSpy) HasDuration(metric string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.durations {
		if r.Metric == metric {
			return true
		}
	}

	return false
}

// LastValue returns the most recent value recorded for metric with the given labels.
func (s *MetricsCollectorSpy) LastValue(metric string, labels map[string]string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.values) - 1; i >= 0; i-- {
		r := s.values[i]
		if r.Metric == metric && containsLabels(r.Labels, labels) {
			return r.Value, true
		}
	}

	return 0, false
}

func containsLabels(have, want map[string]string) bool {
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}

	return true
}

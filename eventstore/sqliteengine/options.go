package sqliteengine

import (
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
)

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the table name for the EventStore.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.observer.Logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.observer.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.observer.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.observer.Tracing = collector
		return nil
	}
}

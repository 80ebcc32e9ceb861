package instrument

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
)

const (
	OperationQuery  = "query"
	OperationAppend = "append"
	OperationSchema = "create_schema"

	MetricQueryDuration  = "journal_query_duration_seconds"
	MetricAppendDuration = "journal_append_duration_seconds"
	MetricEventsQueried  = "journal_events_queried_total"
	MetricEventsAppended = "journal_events_appended_total"
	MetricDatabaseErrors = "journal_database_errors_total"

	StatusSuccess = "success"
	StatusError   = "error"

	ErrorTypeBuildQuery = "build_query"
	ErrorTypeDatabase   = "database_query"
	ErrorTypeDBExec     = "database_exec"
	ErrorTypeRowScan    = "row_scan"
	ErrorTypeBuildEvent = "build_storable_event"

	spanNamePrefix       = "journal."
	spanAttrOperation    = "operation"
	spanAttrEngine       = "engine"
	spanAttrEventCount   = "event_count"
	spanAttrEventType    = "event_type"
	spanAttrErrorType    = "error_type"
	spanAttrDurationMS   = "duration_ms"
	labelStatus          = "status"
	logMsgSQLExecuted    = "executed sql for: "
	logMsgOperation      = "journal operation: "
	logAttrError         = "error"
	logAttrQuery         = "query"
	logAttrDurationMS    = "duration_ms"
	durationMSFormatting = "%.2f"
)

// Observer holds the optional collaborators. The zero value observes nothing.
type Observer struct {
	Engine           string
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// LogQueryWithDuration logs SQL statements with execution time at debug level.
func (o Observer) LogQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, ToMilliseconds(duration), logAttrQuery, sqlQuery}

	if o.Logger != nil {
		o.Logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// LogOperation logs operational information at info level.
func (o Observer) LogOperation(ctx context.Context, action string, args ...any) {
	if o.Logger != nil {
		o.Logger.Info(logMsgOperation+action, args...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// LogWarn logs non-critical issues like cleanup failures.
func (o Observer) LogWarn(ctx context.Context, message string, err error) {
	if o.Logger != nil {
		o.Logger.Warn(message, logAttrError, err.Error())
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.WarnContext(ctx, message, logAttrError, err.Error())
	}
}

// LogError logs failures at error level.
func (o Observer) LogError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if o.Logger != nil {
		o.Logger.Error(message, allArgs...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// RecordSuccess records the duration and the number of events touched by a successful operation.
func (o Observer) RecordSuccess(ctx context.Context, operation string, eventCount int, duration time.Duration) {
	durationMetric, countMetric := MetricQueryDuration, MetricEventsQueried
	if operation == OperationAppend {
		durationMetric, countMetric = MetricAppendDuration, MetricEventsAppended
	}

	labels := o.labels(operation, StatusSuccess)
	o.recordDuration(ctx, durationMetric, duration, labels)
	o.recordValue(ctx, countMetric, float64(eventCount), labels)
}

// RecordError counts a failed operation by error type.
func (o Observer) RecordError(ctx context.Context, operation string, errorType string) {
	if o.Metrics == nil {
		return
	}

	labels := o.labels(operation, StatusError)
	labels[spanAttrErrorType] = errorType

	if contextual, ok := o.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, MetricDatabaseErrors, labels)
		return
	}

	o.Metrics.IncrementCounter(MetricDatabaseErrors, labels)
}

func (o Observer) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if o.Metrics == nil {
		return
	}

	if contextual, ok := o.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	o.Metrics.RecordDuration(metric, duration, labels)
}

func (o Observer) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if o.Metrics == nil {
		return
	}

	if contextual, ok := o.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	o.Metrics.RecordValue(metric, value, labels)
}

func (o Observer) labels(operation, status string) map[string]string {
	labels := map[string]string{spanAttrOperation: operation, labelStatus: status}
	if o.Engine != "" {
		labels[spanAttrEngine] = o.Engine
	}

	return labels
}

// Span wraps an optional tracing span so that callers never check for nil.
type Span struct {
	tracing eventstore.TracingCollector
	span    eventstore.SpanContext
	start   time.Time
}

// StartSpan starts a span named journal.<operation> if tracing is configured.
func (o Observer) StartSpan(ctx context.Context, operation string, events eventstore.StorableEvents) (context.Context, *Span) {
	s := &Span{tracing: o.Tracing, start: time.Now()}
	if o.Tracing == nil {
		return ctx, s
	}

	attrs := o.labels(operation, "")
	delete(attrs, labelStatus)

	if len(events) > 0 {
		attrs[spanAttrEventCount] = fmt.Sprintf("%d", len(events))
		attrs[spanAttrEventType] = events[0].EventType
	}

	ctx, s.span = o.Tracing.StartSpan(ctx, spanNamePrefix+operation, attrs)

	return ctx, s
}

// FinishSuccess completes the span with the number of events involved.
func (s *Span) FinishSuccess(eventCount int) {
	if s.span == nil {
		return
	}

	s.tracing.FinishSpan(s.span, StatusSuccess, map[string]string{
		spanAttrEventCount: fmt.Sprintf("%d", eventCount),
		spanAttrDurationMS: fmt.Sprintf(durationMSFormatting, ToMilliseconds(time.Since(s.start))),
	})
}

// FinishError completes the span with the error type.
func (s *Span) FinishError(errorType string) {
	if s.span == nil {
		return
	}

	s.tracing.FinishSpan(s.span, StatusError, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: fmt.Sprintf(durationMSFormatting, ToMilliseconds(time.Since(s.start))),
	})
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

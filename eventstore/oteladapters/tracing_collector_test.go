package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/casino-floor-simulation/eventstore/oteladapters"
)

func newTracing() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func hasAttribute(span tracetest.SpanStub, key, value string) bool {
	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) && attr.Value.AsString() == value {
			return true
		}
	}

	return false
}

func Test_TracingCollector_SpanLifecycle(t *testing.T) {
	tests := []struct {
		name         string
		status       string
		expectedCode codes.Code
	}{
		{name: "success", status: "success", expectedCode: codes.Ok},
		{name: "error", status: "error", expectedCode: codes.Error},
		{name: "timeout", status: "timeout", expectedCode: codes.Error},
		{name: "unknown status is kept as attribute", status: "partial", expectedCode: codes.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector, exporter := newTracing()

			ctx, span := collector.StartSpan(context.Background(), "journal.append", map[string]string{"engine": "sqlite"})
			assert.NotNil(t, ctx)

			span.AddAttribute("event_type", "GamePlayed")
			collector.FinishSpan(span, tt.status, map[string]string{"event_count": "1"})

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, "journal.append", spans[0].Name)
			assert.Equal(t, tt.expectedCode, spans[0].Status.Code)
			assert.True(t, hasAttribute(spans[0], "engine", "sqlite"))
			assert.True(t, hasAttribute(spans[0], "event_type", "GamePlayed"))
			assert.True(t, hasAttribute(spans[0], "event_count", "1"))

			if tt.expectedCode == codes.Unset {
				assert.True(t, hasAttribute(spans[0], "status", tt.status))
			}
		})
	}
}

type foreignSpan struct{}

func (foreignSpan) SetStatus(string)            {}
func (foreignSpan) AddAttribute(string, string) {}

func Test_TracingCollector_IgnoresForeignSpans(t *testing.T) {
	collector, exporter := newTracing()

	collector.FinishSpan(foreignSpan{}, "success", nil)

	assert.Empty(t, exporter.GetSpans())
}

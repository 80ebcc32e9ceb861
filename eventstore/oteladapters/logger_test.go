package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/casino-floor-simulation/eventstore/oteladapters"
)

func Test_SlogBridgeLoggerWithHandler_WritesAllLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Debug("sql executed", "duration_ms", 1.5)
	logger.InfoContext(context.Background(), "events appended", "event_count", 2)
	logger.Warn("rows not closed")
	logger.ErrorContext(context.Background(), "append failed", "error", "boom")

	output := buf.String()
	assert.Contains(t, output, "level=DEBUG msg=\"sql executed\" duration_ms=1.5")
	assert.Contains(t, output, "level=INFO msg=\"events appended\" event_count=2")
	assert.Contains(t, output, "level=WARN msg=\"rows not closed\"")
	assert.Contains(t, output, "level=ERROR msg=\"append failed\" error=boom")
}

package testdoubles

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// LogHandlerSpy is a slog.Handler that captures log records for testing.
type LogHandlerSpy struct {
	mu          sync.Mutex
	records     []slog.Record
	logToStdout bool
}

// NewLogHandlerSpy creates a new LogHandlerSpy.
// Switchable to log to stdout, which helps when debugging a failing test.
func NewLogHandlerSpy(logToStdout bool) *LogHandlerSpy {
	return &LogHandlerSpy{logToStdout: logToStdout}
}

// Handle implements slog.Handler.
func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record.Clone())

	if s.logToStdout {
		_ = slog.NewJSONHandler(os.Stdout, nil).Handle(ctx, record)
	}

	return nil
}

// Enabled implements slog.Handler.
func (s *LogHandlerSpy) Enabled(context.Context, slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler; attributes added this way are not captured.
func (s *LogHandlerSpy) WithAttrs([]slog.Attr) slog.Handler {
	return s
}

// WithGroup implements slog.Handler.
func (s *LogHandlerSpy) WithGroup(string) slog.Handler {
	return s
}

// HasLog reports whether a record with the given level and message was captured.
func (s *LogHandlerSpy) HasLog(level slog.Level, message string) bool {
	_, ok := s.find(level, message)

	return ok
}

// AttrOf returns the value of key on the first record matching level and message.
func (s *LogHandlerSpy) AttrOf(level slog.Level, message, key string) (slog.Value, bool) {
	record, ok := s.find(level, message)
	if !ok {
		return slog.Value{}, false
	}

	var value slog.Value
	found := false

	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			value, found = attr.Value, true
			return false
		}

		return true
	})

	return value, found
}

// RecordCount returns the number of captured records.
func (s *LogHandlerSpy) RecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

func (s *LogHandlerSpy) find(level slog.Level, message string) (slog.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.Level == level && r.Message == message {
			return r, true
		}
	}

	return slog.Record{}, false
}

package shell

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
)

//go:generate mockgen -destination "mock_sink_test.go" -package $GOPACKAGE -write_package_comment=false github.com/AntonStoeckl/casino-floor-simulation/shell Sink

// Sink persists batches of events. Write is only ever called from one goroutine.
type Sink interface {
	Write(ctx context.Context, events eventstore.StorableEvents) error
	Close() error
}

// AppendsEvents is implemented by the journal engines.
type AppendsEvents interface {
	Append(ctx context.Context, event eventstore.StorableEvent, additionalEvents ...eventstore.StorableEvent) error
}

// JournalSink appends each batch to a journal engine in one statement.
// The engine's database handle is owned by the caller, so Close does nothing.
type JournalSink struct {
	journal AppendsEvents
}

func NewJournalSink(journal AppendsEvents) JournalSink {
	return JournalSink{journal: journal}
}

func (s JournalSink) Write(ctx context.Context, events eventstore.StorableEvents) error {
	if len(events) == 0 {
		return nil
	}

	return s.journal.Append(ctx, events[0], events[1:]...)
}

func (s JournalSink) Close() error {
	return nil
}

// FanoutSink writes every batch to all of its sinks, even if some of them fail.
type FanoutSink []Sink

func (f FanoutSink) Write(ctx context.Context, events eventstore.StorableEvents) error {
	var errs []error
	for _, s := range f {
		errs = append(errs, s.Write(ctx, events))
	}

	return errors.Join(errs...)
}

func (f FanoutSink) Close() error {
	var errs []error
	for _, s := range f {
		errs = append(errs, s.Close())
	}

	return errors.Join(errs...)
}

// DiscardSink accepts and forgets everything.
type DiscardSink struct{}

func (DiscardSink) Write(context.Context, eventstore.StorableEvents) error { return nil }
func (DiscardSink) Close() error                                           { return nil }

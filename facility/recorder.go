package facility

import (
	"context"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
)

// Recorder receives every domain event the facility produces. Calls are fire-and-forget:
// nothing is rolled back when recording fails, so implementations must not block for long.
type Recorder interface {
	Record(ctx context.Context, event core.DomainEvent)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, event core.DomainEvent)

func (f RecorderFunc) Record(ctx context.Context, event core.DomainEvent) {
	f(ctx, event)
}

// NopRecorder drops every event.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, core.DomainEvent) {}

package facility

import (
	"context"
	"time"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
)

// Pacing holds the randomized pauses of the simulation. TimeScale multiplies every duration,
// so 0.01 runs a hundred times faster than real time.
type Pacing struct {
	TimeScale          float64
	Idle               DurationRange
	RoundPause         DurationRange
	RestaurantOrderGap DurationRange
}

// environment is shared by all components of one facility.
type environment struct {
	recorder Recorder
	observer observer
	rnd      Random
	now      func() time.Time
	pacing   Pacing
}

func newEnvironment() *environment {
	return &environment{
		recorder: NopRecorder{},
		rnd:      DefaultRandom(),
		now:      time.Now,
		pacing:   Pacing{TimeScale: 1},
	}
}

func (e *environment) record(ctx context.Context, event core.DomainEvent) {
	e.recorder.Record(ctx, event)
}

func (e *environment) scaled(d time.Duration) time.Duration {
	if e.pacing.TimeScale <= 0 {
		return d
	}

	return time.Duration(float64(d) * e.pacing.TimeScale)
}

// pause sleeps a scaled random duration from r. It reports false if ctx ended first.
func (e *environment) pause(ctx context.Context, r DurationRange) bool {
	return sleepContext(ctx, e.scaled(r.Draw(e.rnd)))
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

package facility

import "time"

// Option defines a functional option for configuring a Facility.
type Option func(*Facility) error

// WithRecorder sets the recorder that receives every domain event.
func WithRecorder(recorder Recorder) Option {
	return func(f *Facility) error {
		if recorder == nil {
			return ErrNilRecorder
		}

		f.env.recorder = recorder

		return nil
	}
}

// WithLogger sets the logger. Lifecycle messages go to Info, per customer and per round details to Debug.
func WithLogger(logger Logger) Option {
	return func(f *Facility) error {
		f.env.observer.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector MetricsCollector) Option {
	return func(f *Facility) error {
		f.env.observer.metrics = collector
		return nil
	}
}

// WithRandom replaces the process wide random source, e.g. with NewSeededRandom.
func WithRandom(rnd Random) Option {
	return func(f *Facility) error {
		if rnd == nil {
			return ErrNilRandom
		}

		f.env.rnd = rnd

		return nil
	}
}

// WithClock replaces time.Now as the source of event timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Facility) error {
		if now != nil {
			f.env.now = now
		}

		return nil
	}
}

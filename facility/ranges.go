package facility

import "time"

// Number is the set of types a Range can be drawn from.
type Number interface {
	~int | ~int64
}

// Range is an inclusive [Min, Max] interval.
type Range[T Number] struct {
	Min T
	Max T
}

// Between builds a Range.
func Between[T Number](lo, hi T) Range[T] {
	return Range[T]{Min: lo, Max: hi}
}

// Draw returns a uniformly distributed value in the range. A degenerate range returns Min.
func (r Range[T]) Draw(rnd Random) T {
	if r.Max <= r.Min {
		return r.Min
	}

	return r.Min + T(rnd.Int64N(int64(r.Max-r.Min)+1))
}

// Valid reports whether Min <= Max and Min is not negative.
func (r Range[T]) Valid() bool {
	return r.Min >= 0 && r.Min <= r.Max
}

// DurationRange is the range type used for pacing.
type DurationRange = Range[time.Duration]

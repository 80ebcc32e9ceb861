package facility

import (
	"context"
	"time"
)

// ParkingLot hands out parking slots with a bounded number of attempts.
type ParkingLot struct {
	slots       *Pool
	env         *environment
	maxAttempts int
	baseDelay   time.Duration
}

func newParkingLot(env *environment, slots, maxAttempts int, baseDelay time.Duration) *ParkingLot {
	return &ParkingLot{
		slots:       NewPool("parking", slots, env.rnd),
		env:         env,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

func (p *ParkingLot) Slots() *Pool {
	return p.slots
}

// Park tries up to maxAttempts times, backing off between attempts. After the last failed
// attempt it returns ErrResourceExhausted; the pool is left as it was.
func (p *ParkingLot) Park(ctx context.Context, a *Agent) (*Slot, RetryMetadata, error) {
	var slot *Slot

	start := time.Now()
	meta, err := RetryWithExponentialBackoff(ctx, func(context.Context) error {
		s, ok := p.slots.Acquire(a)
		if !ok {
			return ErrResourceExhausted
		}

		slot = s

		return nil
	},
		WithMaxAttempts(p.maxAttempts),
		WithBaseDelay(p.env.scaled(p.baseDelay)),
		WithRetryMetrics(p.env.observer.metrics, p.slots.name),
	)

	p.env.observer.duration(ctx, metricParkingWait, time.Since(start), nil)

	if err != nil {
		return nil, meta, err
	}

	a.setParkingSlot(slot)

	return slot, meta, nil
}

// Unpark releases a's slot. A second call is a no-op.
func (p *ParkingLot) Unpark(a *Agent) (*Slot, bool) {
	slot := a.parkingSlot()
	if slot == nil {
		return nil, false
	}

	released := p.slots.Release(slot, a)
	a.setParkingSlot(nil)

	return slot, released
}

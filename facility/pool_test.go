package facility

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Pool_AcquireReleaseRoundTrip(t *testing.T) {
	p := NewPool("parking", 3, NewSeededRandom(1))
	a := NewAgent(testProfile(), Dollars(10))
	before := p.Available()

	slot, ok := p.Acquire(a)
	require.True(t, ok)
	assert.Equal(t, before-1, p.Available())
	assert.Same(t, a, slot.Occupant())

	assert.True(t, p.Release(slot, a))
	assert.Equal(t, before, p.Available())

	assert.False(t, p.Release(slot, a), "a second release is a no-op")
	assert.Equal(t, before, p.Available())
}

func Test_Pool_OnlyTheOccupantCanRelease(t *testing.T) {
	p := NewPool("parking", 1, NewSeededRandom(1))
	owner := NewAgent(testProfile(), Dollars(10))
	other := NewAgent(testProfile(), Dollars(10))

	slot, ok := p.Acquire(owner)
	require.True(t, ok)

	assert.False(t, p.Release(slot, other))
	assert.Same(t, owner, slot.Occupant())
	assert.False(t, p.Release(nil, owner))
}

func Test_Pool_NeverExceedsCapacity(t *testing.T) {
	p := NewPool("rooms", 4, NewSeededRandom(3))

	var wg sync.WaitGroup
	var mu sync.Mutex
	held := 0
	peak := 0

	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			a := NewAgent(testProfile(), Dollars(10))
			for range 20 {
				slot, ok := p.Acquire(a)
				if !ok {
					continue
				}

				mu.Lock()
				held++
				peak = max(peak, held)
				mu.Unlock()

				assert.LessOrEqual(t, p.Capacity()-p.Available(), p.Capacity())

				mu.Lock()
				held--
				mu.Unlock()

				p.Release(slot, a)
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak, p.Capacity())
	assert.Equal(t, p.Capacity(), p.Available())
}

func Test_ParkingLot_TwoSlotsThreeCars(t *testing.T) {
	env := testEnv(NewSeededRandom(5), nil, 1)
	lot := newParkingLot(env, 2, 3, time.Millisecond)

	agents := []*Agent{
		NewAgent(testProfile(), Dollars(10), WithCar()),
		NewAgent(testProfile(), Dollars(10), WithCar()),
		NewAgent(testProfile(), Dollars(10), WithCar()),
	}

	results := make([]bool, len(agents))

	var wg sync.WaitGroup
	for i, a := range agents {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = lot.Slots().Acquire(a)
		}()
	}
	wg.Wait()

	succeeded := 0
	var loser *Agent
	for i, ok := range results {
		if ok {
			succeeded++
		} else {
			loser = agents[i]
		}
	}

	require.Equal(t, 2, succeeded)
	require.NotNil(t, loser)

	slot, meta, err := lot.Park(context.Background(), loser)

	assert.ErrorIs(t, err, ErrResourceExhausted)
	assert.Nil(t, slot)
	assert.Equal(t, 3, meta.Attempts)
	assert.Equal(t, 0, lot.Slots().Available())
	assert.Nil(t, loser.parkingSlot())
}

func Test_ParkingLot_RetrySucceedsWhenASlotFrees(t *testing.T) {
	env := testEnv(NewSeededRandom(5), nil, 1)
	lot := newParkingLot(env, 1, 3, 50*time.Millisecond)
	first := NewAgent(testProfile(), Dollars(10), WithCar())
	second := NewAgent(testProfile(), Dollars(10), WithCar())

	_, _, err := lot.Park(context.Background(), first)
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		lot.Unpark(first)
	}()

	slot, meta, err := lot.Park(context.Background(), second)

	require.NoError(t, err)
	assert.Same(t, second, slot.Occupant())
	assert.GreaterOrEqual(t, meta.Attempts, 2)

	released, ok := lot.Unpark(second)
	assert.True(t, ok)
	assert.Same(t, slot, released)

	_, ok = lot.Unpark(second)
	assert.False(t, ok, "unparking twice is a no-op")
	assert.Equal(t, 1, lot.Slots().Available())
}

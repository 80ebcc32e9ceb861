package facility

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
)

// Hotel rents rooms by the second. Booking takes the guest out of the lobby inside the room's
// critical section; a timer puts them back when the stay ends.
type Hotel struct {
	rooms          *Pool
	registry       *Registry
	env            *environment
	pricePerSecond Money

	mu    sync.Mutex
	stays map[uuid.UUID]*stay
}

type stay struct {
	slot  *Slot
	guest *Agent
	timer *time.Timer
}

func newHotel(env *environment, registry *Registry, rooms int, pricePerSecond Money) *Hotel {
	return &Hotel{
		rooms:          NewPool("hotel", rooms, env.rnd),
		registry:       registry,
		env:            env,
		pricePerSecond: pricePerSecond,
		stays:          make(map[uuid.UUID]*stay),
	}
}

func (h *Hotel) Rooms() *Pool {
	return h.rooms
}

// Price returns the cost of a stay of the given number of simulated seconds.
func (h *Hotel) Price(staySeconds int) Money {
	return Money(staySeconds) * h.pricePerSecond
}

// Book charges a for the stay and checks them into a free room. If a cannot pay, nothing happens.
// If no room is free the charge is refunded. The returned bool reports whether a is now in a room.
func (h *Hotel) Book(ctx context.Context, a *Agent, staySeconds int) bool {
	price := h.Price(staySeconds)

	if !a.ledger.Debit(price) {
		return false
	}

	slot, ok := h.rooms.acquireWith(a, func() bool {
		return h.registry.detach(a, InResource, nil)
	})

	if !ok {
		a.ledger.Credit(price)

		h.env.record(ctx, core.BuildHotelRoomBookingFailed(
			a.customerID(), staySeconds, price.Cents(), ErrResourceExhausted.Error(), h.env.now()))
		h.env.observer.count(ctx, metricHotelFailed, nil)
		h.env.observer.debug(ctx, logMsgHotelFull, logAttrCustomerID, a.customerID())

		return false
	}

	a.setRoom(slot)

	simulated := time.Duration(staySeconds) * time.Second
	wallClock := h.env.scaled(simulated)
	now := h.env.now()

	h.mu.Lock()
	st := &stay{slot: slot, guest: a}
	st.timer = time.AfterFunc(wallClock, func() { h.finish(a.id) })
	h.stays[a.id] = st
	h.mu.Unlock()

	h.env.record(ctx, core.BuildHotelRoomBooked(
		a.customerID(), slot.index, staySeconds, price.Cents(), now.Add(simulated), now))
	h.env.observer.count(ctx, metricHotelBookings, nil)

	return true
}

// finish runs on the stay timer.
func (h *Hotel) finish(id uuid.UUID) {
	h.mu.Lock()
	st, ok := h.stays[id]
	delete(h.stays, id)
	h.mu.Unlock()

	if !ok {
		return
	}

	h.checkout(st)
	st.guest.wakeUp()
}

// cancel ends a's stay early. It reports false if the timer already fired, in which case
// the timer goroutine is returning a to the lobby and will wake it.
func (h *Hotel) cancel(a *Agent) bool {
	h.mu.Lock()
	st, ok := h.stays[a.id]
	if !ok || !st.timer.Stop() {
		h.mu.Unlock()
		return false
	}
	delete(h.stays, a.id)
	h.mu.Unlock()

	h.checkout(st)

	return true
}

func (h *Hotel) checkout(st *stay) {
	h.registry.MoveIn(&st.slot.mu, st.guest, func() bool {
		return st.slot.vacate(st.guest)
	})
	st.guest.setRoom(nil)
}

// Shutdown stops every pending stay timer and returns the guests to the lobby.
func (h *Hotel) Shutdown() {
	h.mu.Lock()
	var ended []*stay
	for id, st := range h.stays {
		if st.timer.Stop() {
			ended = append(ended, st)
			delete(h.stays, id)
		}
	}
	h.mu.Unlock()

	for _, st := range ended {
		h.checkout(st)
		st.guest.wakeUp()
	}
}

// Guests returns the number of booked rooms.
func (h *Hotel) Guests() int {
	return h.rooms.occupied()
}

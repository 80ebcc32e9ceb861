package facility

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
)

// Admit registers a new customer and starts its goroutine. The goroutine ends when the
// customer departs; Run waits for it.
func (f *Facility) Admit(ctx context.Context, profile *Profile, balance Money, hasCar bool) *Agent {
	var options []AgentOption
	if hasCar {
		options = append(options, WithCar())
	}

	a := NewAgent(profile, balance, options...)

	f.admitted.Add(1)
	f.active.Add(1)
	f.agents.Add(1)

	f.env.record(ctx, core.BuildCustomerRegistered(
		a.customerID(), profile.Name, a.Balance().Cents(), hasCar, f.env.now()))
	f.env.observer.debug(ctx, logMsgCustomerAdmitted,
		logAttrCustomerID, a.customerID(), logAttrProfile, profile.Name, logAttrBalance, a.Balance().String())

	go f.live(ctx, a)

	return a
}

func (f *Facility) live(ctx context.Context, a *Agent) {
	defer f.agents.Done()
	defer f.active.Add(-1)

	if !f.arrive(ctx, a) {
		a.setLocation(Departed)
		f.departed.Add(1)

		return
	}

	f.depart(ctx, a, f.loop(ctx, a))
}

// arrive parks the car, if any, and puts a into the lobby.
func (f *Facility) arrive(ctx context.Context, a *Agent) bool {
	a.arrivedAt = f.env.now()

	if !a.hasCar {
		f.env.record(ctx, core.BuildCustomerArrived(a.customerID(), a.arrivedAt))
		f.registry.Enter(a)

		return true
	}

	slot, meta, err := f.parking.Park(ctx, a)
	if err != nil {
		f.env.record(context.WithoutCancel(ctx),
			core.BuildParkingCarFailed(a.customerID(), meta.Attempts, err.Error(), f.env.now()))

		if errors.Is(err, ErrResourceExhausted) {
			f.env.observer.count(ctx, metricParkingFailed, nil)
			f.env.observer.debug(ctx, logMsgParkingFailed, logAttrCustomerID, a.customerID(), logAttrAttempts, meta.Attempts)
		}

		return false
	}

	f.env.record(ctx, core.BuildCarParked(a.customerID(), slot.index, meta.Attempts, f.env.now()))
	f.registry.Enter(a)

	return true
}

// loop runs the decision cycle until the customer departs and returns the departure reason.
func (f *Facility) loop(ctx context.Context, a *Agent) core.DepartureReasonString {
	for {
		if ctx.Err() != nil {
			return core.DepartureClosing
		}

		switch a.profile.Decide(f.env.rnd, a.Balance(), a.hasRoom()) {
		case DecideOutOfMoney:
			return core.DepartureOutOfMoney
		case DecideLeave:
			return core.DepartureLeft
		case DecideStrategicExit:
			return core.DepartureStrategicExit
		case DecidePlay:
			f.play(ctx, a)
		case DecideOrder:
			f.orderAtBar(ctx, a)
		case DecideSleep:
			f.sleep(ctx, a)
		case DecideRestaurant:
			f.dine(ctx, a)
		default:
			f.env.pause(ctx, f.env.pacing.Idle)
		}
	}
}

func (f *Facility) play(ctx context.Context, a *Agent) {
	game, ok := a.profile.ChooseGame(f.env.rnd)
	if !ok {
		f.env.pause(ctx, f.env.pacing.Idle)
		return
	}

	table := f.registry.MustTable(game)
	if !table.Join(a) {
		return
	}

	awaitReturn(ctx, a, func() bool { return table.withdraw(a) })
}

func (f *Facility) orderAtBar(ctx context.Context, a *Agent) {
	if len(f.bars) == 0 {
		return
	}

	bar := f.bars[f.env.rnd.IntN(len(f.bars))]
	items := bar.menu.pick(f.env.rnd, f.layout.OrderItems.Draw(f.env.rnd))
	order := NewOrder(a.id, bar.name, items)
	labels := map[string]string{logAttrVenueType: core.VenueTypeBar}

	if !bar.orders.PlaceFunded(order, a.ledger) {
		f.env.record(ctx, core.BuildOrderRejected(
			a.customerID(), core.VenueTypeBar, bar.name, order.total.Cents(), a.Balance().Cents(),
			ErrInsufficientFunds.Error(), f.env.now()))
		f.env.observer.count(ctx, metricOrdersRejected, labels)

		return
	}

	f.env.record(ctx, core.BuildOrderPlaced(
		order.id.String(), a.customerID(), core.VenueTypeBar, bar.name,
		orderLines(items), order.total.Cents(), f.env.now()))
	f.env.observer.count(ctx, metricOrdersPlaced, labels)
}

func (f *Facility) sleep(ctx context.Context, a *Agent) {
	staySeconds := f.layout.Hotel.StaySeconds.Draw(f.env.rnd)
	if f.hotel.Price(staySeconds) > a.Balance() {
		return
	}

	if !f.hotel.Book(ctx, a, staySeconds) {
		return
	}

	awaitReturn(ctx, a, func() bool { return f.hotel.cancel(a) })
}

func (f *Facility) dine(ctx context.Context, a *Agent) {
	if len(f.restaurants) == 0 {
		return
	}

	r := f.restaurants[f.env.rnd.IntN(len(f.restaurants))]
	if !r.Seat(a) {
		f.env.observer.count(ctx, metricRestaurantsFull, map[string]string{logAttrVenue: r.name})
		f.env.observer.debug(ctx, logMsgRestaurantFull, logAttrVenue, r.name, logAttrCustomerID, a.customerID())

		return
	}

	r.dine(ctx, f.env, a, f.layout.OrderItems)
	r.Vacate(a)
}

// depart takes a out of the lobby for good and records how the stay ended.
// Recording ignores cancellation so customers leaving at closing time are still recorded.
func (f *Facility) depart(ctx context.Context, a *Agent, reason core.DepartureReasonString) {
	recordCtx := context.WithoutCancel(ctx)
	now := f.env.now()
	balance := a.Balance()

	f.registry.Leave(a)
	f.departed.Add(1)

	if slot, ok := f.parking.Unpark(a); ok {
		f.env.record(recordCtx, core.BuildCarUnparked(a.customerID(), slot.index, reason, balance.Cents(), now))
	} else {
		f.env.record(recordCtx, core.BuildCustomerDeparted(a.customerID(), reason, balance.Cents(), a.arrivedAt, now))
	}

	f.env.observer.count(recordCtx, metricDepartures, map[string]string{logAttrReason: reason})
	f.env.observer.duration(recordCtx, metricStayDuration, now.Sub(a.arrivedAt), map[string]string{logAttrReason: reason})
	f.env.observer.debug(recordCtx, logMsgCustomerDeparted,
		logAttrCustomerID, a.customerID(), logAttrReason, reason, logAttrBalance, balance.String())
}

// awaitReturn blocks until a is woken by whoever holds it. On cancellation withdraw tries to
// take a back directly; if that is too late the holder is already returning a.
func awaitReturn(ctx context.Context, a *Agent, withdraw func() bool) {
	select {
	case <-a.wake:
		return
	case <-ctx.Done():
		if withdraw() {
			return
		}

		<-a.wake
	}
}

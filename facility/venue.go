package facility

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
)

// Bar takes funded orders from customers in the lobby; customers never leave the lobby to order.
type Bar struct {
	name   string
	menu   Menu
	staff  int
	orders *OrderQueue
}

func newBar(name string, menu Menu, staff int) *Bar {
	return &Bar{name: name, menu: menu, staff: staff, orders: NewOrderQueue()}
}

func (b *Bar) Name() string {
	return b.name
}

func (b *Bar) Orders() *OrderQueue {
	return b.orders
}

// Restaurant is a seated venue: admission is accept or reject against the number of tables,
// and seated customers run a tab that is settled when they vacate.
type Restaurant struct {
	name     string
	capacity int
	menu     Menu
	staff    int
	orders   *OrderQueue
	registry *Registry

	mu     sync.Mutex
	seated map[uuid.UUID]*Agent
}

func newRestaurant(registry *Registry, name string, capacity int, menu Menu, staff int) *Restaurant {
	return &Restaurant{
		name:     name,
		capacity: capacity,
		menu:     menu,
		staff:    staff,
		orders:   NewOrderQueue(),
		registry: registry,
		seated:   make(map[uuid.UUID]*Agent),
	}
}

func (v *Restaurant) Name() string {
	return v.name
}

func (v *Restaurant) Capacity() int {
	return v.capacity
}

func (v *Restaurant) Orders() *OrderQueue {
	return v.orders
}

// Occupied returns the number of seated customers.
func (v *Restaurant) Occupied() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.seated)
}

// Seat moves a from the lobby to a table, or reports false if every table is taken.
func (v *Restaurant) Seat(a *Agent) bool {
	return v.registry.MoveOut(&v.mu, a, Seated, func() bool {
		if len(v.seated) >= v.capacity {
			return false
		}

		v.seated[a.id] = a

		return true
	})
}

// Vacate returns a seated agent to the lobby.
func (v *Restaurant) Vacate(a *Agent) bool {
	return v.registry.MoveIn(&v.mu, a, func() bool {
		if _, ok := v.seated[a.id]; !ok {
			return false
		}

		delete(v.seated, a.id)

		return true
	})
}

// dine runs the ordering loop of a seated agent and settles the tab. The agent must be seated.
func (v *Restaurant) dine(ctx context.Context, env *environment, a *Agent, itemCount Range[int]) Money {
	var tab Money

	for ctx.Err() == nil && env.rnd.Float64() < a.profile.Order {
		items := v.menu.pick(env.rnd, itemCount.Draw(env.rnd))
		sum := total(items)
		balance := a.ledger.Balance()

		if tab+sum <= balance {
			order := NewOrder(a.id, v.name, items)
			v.orders.Place(order)
			tab += sum

			env.record(ctx, core.BuildOrderPlaced(
				order.id.String(), a.customerID(), core.VenueTypeRestaurant, v.name,
				orderLines(items), sum.Cents(), env.now()))
			env.observer.count(ctx, metricOrdersPlaced, map[string]string{logAttrVenueType: core.VenueTypeRestaurant})
		} else {
			env.record(ctx, core.BuildOrderRejected(
				a.customerID(), core.VenueTypeRestaurant, v.name, sum.Cents(), (balance - tab).Cents(),
				ErrInsufficientFunds.Error(), env.now()))
			env.observer.count(ctx, metricOrdersRejected, map[string]string{logAttrVenueType: core.VenueTypeRestaurant})
		}

		if !env.pause(ctx, env.pacing.RestaurantOrderGap) {
			break
		}
	}

	// Only this agent debits its own ledger while it is seated, so the tab is always covered.
	a.ledger.Debit(tab)

	return tab
}

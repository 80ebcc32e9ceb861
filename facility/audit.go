package facility

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// TableSnapshot is the state of one game.
type TableSnapshot struct {
	Name    string `json:"name"`
	Dealers int    `json:"dealers"`
	Waiting int    `json:"waiting"`
	Playing int    `json:"playing"`
}

// VenueSnapshot is the state of one bar or restaurant. Seated and Capacity are zero for bars.
type VenueSnapshot struct {
	Name          string `json:"name"`
	Seated        int    `json:"seated"`
	Capacity      int    `json:"capacity"`
	PendingOrders int    `json:"pending_orders"`
	ServedOrders  int64  `json:"served_orders"`
}

// Snapshot is a point in time view of occupancy. Collections are read one after another,
// so totals can be off by customers that moved in between.
type Snapshot struct {
	Lobby           int             `json:"lobby"`
	Tables          []TableSnapshot `json:"tables"`
	ParkingFree     int             `json:"parking_free"`
	ParkingCapacity int             `json:"parking_capacity"`
	RoomsFree       int             `json:"rooms_free"`
	RoomsCapacity   int             `json:"rooms_capacity"`
	Bars            []VenueSnapshot `json:"bars"`
	Restaurants     []VenueSnapshot `json:"restaurants"`
	Admitted        int64           `json:"admitted"`
	Active          int64           `json:"active"`
	Departed        int64           `json:"departed"`
}

func (f *Facility) Snapshot() Snapshot {
	s := Snapshot{
		Lobby:           f.registry.LobbySize(),
		ParkingFree:     f.parking.slots.Available(),
		ParkingCapacity: f.parking.slots.Capacity(),
		RoomsFree:       f.hotel.rooms.Available(),
		RoomsCapacity:   f.hotel.rooms.Capacity(),
		Admitted:        f.admitted.Load(),
		Active:          f.active.Load(),
		Departed:        f.departed.Load(),
	}

	for _, t := range f.registry.tables {
		t.mu.Lock()
		s.Tables = append(s.Tables, TableSnapshot{
			Name:    t.name,
			Dealers: len(t.dealers),
			Waiting: len(t.waiting),
			Playing: len(t.playing),
		})
		t.mu.Unlock()
	}

	for _, b := range f.bars {
		s.Bars = append(s.Bars, VenueSnapshot{
			Name:          b.name,
			PendingOrders: b.orders.Pending(),
			ServedOrders:  b.orders.Served(),
		})
	}

	for _, r := range f.restaurants {
		s.Restaurants = append(s.Restaurants, VenueSnapshot{
			Name:          r.name,
			Seated:        r.Occupied(),
			Capacity:      r.capacity,
			PendingOrders: r.orders.Pending(),
			ServedOrders:  r.orders.Served(),
		})
	}

	return s
}

// ReportMetrics publishes the snapshot as gauges.
func (f *Facility) ReportMetrics(ctx context.Context) Snapshot {
	s := f.Snapshot()
	o := f.env.observer

	o.value(ctx, metricLobbySize, float64(s.Lobby), nil)
	o.value(ctx, metricActiveCustomers, float64(s.Active), nil)
	o.value(ctx, metricParkingOccupied, float64(s.ParkingCapacity-s.ParkingFree), nil)
	o.value(ctx, metricRoomsOccupied, float64(s.RoomsCapacity-s.RoomsFree), nil)

	for _, t := range s.Tables {
		o.value(ctx, metricTableWaiting, float64(t.Waiting), map[string]string{logAttrGame: t.Name})
	}

	for _, r := range s.Restaurants {
		o.value(ctx, metricRestaurantSeated, float64(r.Seated), map[string]string{logAttrVenue: r.Name})
		o.value(ctx, metricPendingOrders, float64(r.PendingOrders), map[string]string{logAttrVenue: r.Name})
	}

	for _, b := range s.Bars {
		o.value(ctx, metricPendingOrders, float64(b.PendingOrders), map[string]string{logAttrVenue: b.Name})
	}

	return s
}

// Audit freezes every collection, taking the locks in the global order (tables, restaurants,
// hotel rooms, then the registry), and checks that each agent is in exactly one collection,
// that its location matches that collection and that no capacity is exceeded.
// Parking slots hold cars rather than customers and are not part of the membership check.
func (f *Facility) Audit() error {
	for _, t := range f.registry.tables {
		t.mu.Lock()
		defer t.mu.Unlock()
	}

	for _, r := range f.restaurants {
		r.mu.Lock()
		defer r.mu.Unlock()
	}

	for _, s := range f.hotel.rooms.slots {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	f.registry.mu.Lock()
	defer f.registry.mu.Unlock()

	var errs []error
	seen := make(map[uuid.UUID]string)

	check := func(a *Agent, where string, want ...Location) {
		if prev, dup := seen[a.id]; dup {
			errs = append(errs, fmt.Errorf("customer %s is in %s and %s", a.id, prev, where))
		}
		seen[a.id] = where

		loc := a.Location()
		for _, w := range want {
			if loc == w {
				return
			}
		}
		errs = append(errs, fmt.Errorf("customer %s is in %s but located %s", a.id, where, loc))
	}

	for _, a := range f.registry.lobbyMembers() {
		check(a, "lobby", Lobby)
	}

	for _, t := range f.registry.tables {
		capacity := 0
		for _, d := range t.dealers {
			capacity += d.Capacity
		}

		if len(t.playing) > capacity {
			errs = append(errs, fmt.Errorf("table %s has %d players for %d seats", t.name, len(t.playing), capacity))
		}

		for _, a := range t.waiting {
			check(a, "table "+t.name, Waiting)
		}

		for _, a := range t.playing {
			check(a, "table "+t.name, InResource)
		}
	}

	for _, r := range f.restaurants {
		if len(r.seated) > r.capacity {
			errs = append(errs, fmt.Errorf("restaurant %s seats %d of %d", r.name, len(r.seated), r.capacity))
		}

		for _, a := range r.seated {
			check(a, "restaurant "+r.name, Seated)
		}
	}

	for _, s := range f.hotel.rooms.slots {
		if s.occupant != nil {
			check(s.occupant, "room "+strconv.Itoa(s.index), InResource)
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return errors.Join(append([]error{ErrInvariantViolated}, errs...)...)
}

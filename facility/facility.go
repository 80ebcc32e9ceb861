package facility

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
)

// Facility owns every resource and runs the dealers, the staff, the spawner and all agents.
type Facility struct {
	layout Layout
	env    *environment

	registry    *Registry
	parking     *ParkingLot
	hotel       *Hotel
	bars        []*Bar
	restaurants []*Restaurant
	profiles    []*Profile

	agents   sync.WaitGroup
	admitted atomic.Int64
	active   atomic.Int64
	departed atomic.Int64
}

// New validates the layout and builds the facility. Nothing runs until Run is called.
func New(layout Layout, options ...Option) (*Facility, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	f := &Facility{layout: layout, env: newEnvironment()}

	for _, option := range options {
		if err := option(f); err != nil {
			return nil, err
		}
	}

	f.env.pacing = layout.Pacing
	f.registry = newRegistry()

	for _, g := range layout.Games {
		dealers := make([]Dealer, g.Tables)
		for i := range dealers {
			dealers[i] = Dealer{Instance: i + 1, Capacity: g.Capacity.Draw(f.env.rnd)}
		}

		f.registry.addTable(newGameTable(f.env, g.Name, g.WinProbability, g.Payout, dealers))
	}

	f.parking = newParkingLot(f.env, layout.Parking.Slots, layout.Parking.MaxAttempts, layout.Parking.BaseDelay)
	f.hotel = newHotel(f.env, f.registry, layout.Hotel.Rooms, layout.Hotel.PricePerSecond)

	for _, b := range layout.Bars {
		f.bars = append(f.bars, newBar(b.Name, b.Menu, b.Staff))
	}

	for _, r := range layout.Restaurants {
		f.restaurants = append(f.restaurants, newRestaurant(f.registry, r.Name, r.Tables, r.Menu, r.Staff))
	}

	for i := range layout.Profiles {
		f.profiles = append(f.profiles, &layout.Profiles[i])
	}

	return f, nil
}

func (f *Facility) Registry() *Registry {
	return f.registry
}

func (f *Facility) Parking() *ParkingLot {
	return f.parking
}

func (f *Facility) Hotel() *Hotel {
	return f.hotel
}

func (f *Facility) Bars() []*Bar {
	return f.bars
}

func (f *Facility) Restaurants() []*Restaurant {
	return f.restaurants
}

// Profile looks a profile up by name.
func (f *Facility) Profile(name string) (*Profile, bool) {
	for _, p := range f.profiles {
		if p.Name == name {
			return p, true
		}
	}

	return nil, false
}

// Run starts dealers, staff and the spawner, and blocks until ctx is cancelled and every
// goroutine, including all agents, has finished. Agents still inside depart with reason closing.
func (f *Facility) Run(ctx context.Context) error {
	f.env.observer.info(ctx, logMsgFacilityOpened,
		logAttrCustomers, f.layout.Population.InitialCustomers)

	g, gctx := errgroup.WithContext(ctx)

	for _, t := range f.registry.tables {
		for _, d := range t.dealers {
			g.Go(func() error {
				t.deal(gctx, d)
				return nil
			})
		}
	}

	for _, b := range f.bars {
		for range b.staff {
			g.Go(func() error {
				b.orders.serve(gctx, f.env, b.name, core.VenueTypeBar)
				return nil
			})
		}
	}

	for _, r := range f.restaurants {
		for range r.staff {
			g.Go(func() error {
				r.orders.serve(gctx, f.env, r.name, core.VenueTypeRestaurant)
				return nil
			})
		}
	}

	g.Go(func() error {
		f.spawn(gctx)
		return nil
	})

	err := g.Wait()

	f.env.observer.info(ctx, logMsgFacilityClosing, logAttrCustomers, f.active.Load())
	f.hotel.Shutdown()
	f.agents.Wait()
	f.env.observer.info(ctx, logMsgFacilityClosed,
		logAttrCustomers, f.admitted.Load())

	return err
}

package facility

import (
	"errors"
	"fmt"
	"time"
)

// Layout describes everything in the facility: resources, menus, profiles and pacing.
type Layout struct {
	Pacing      Pacing
	Population  Population
	Parking     ParkingLayout
	Hotel       HotelLayout
	Games       []GameLayout
	Bars        []VenueLayout
	Restaurants []VenueLayout
	Profiles    []Profile
	OrderItems  Range[int]
}

type Population struct {
	InitialCustomers int
	MaxCustomers     int
	SpawnInterval    DurationRange
	Balance          Range[Money]
}

type ParkingLayout struct {
	Slots       int
	MaxAttempts int
	BaseDelay   time.Duration
}

type HotelLayout struct {
	Rooms          int
	PricePerSecond Money
	StaySeconds    Range[int]
}

// GameLayout creates Tables dealers for one game. Each dealer draws its own capacity from Capacity.
type GameLayout struct {
	Name           string
	Tables         int
	Capacity       Range[int]
	WinProbability float64
	Payout         int64
}

// VenueLayout describes a bar or a restaurant. Tables is ignored for bars.
type VenueLayout struct {
	Name   string
	Tables int
	Staff  int
	Menu   Menu
}

// Validate reports every problem in the layout, joined with ErrInvalidLayout or ErrUnknownResource.
func (l Layout) Validate() error {
	var errs []error

	invalid := func(format string, args ...any) {
		errs = append(errs, errors.Join(ErrInvalidLayout, fmt.Errorf(format, args...)))
	}

	if l.Pacing.TimeScale <= 0 {
		invalid("pacing time scale must be positive")
	}

	for name, r := range map[string]DurationRange{
		"idle":                 l.Pacing.Idle,
		"round pause":          l.Pacing.RoundPause,
		"restaurant order gap": l.Pacing.RestaurantOrderGap,
		"spawn interval":       l.Population.SpawnInterval,
	} {
		if !r.Valid() {
			invalid("%s range %v..%v is invalid", name, r.Min, r.Max)
		}
	}

	if l.Population.InitialCustomers < 0 || l.Population.MaxCustomers < l.Population.InitialCustomers {
		invalid("population must satisfy 0 <= initial customers <= max customers")
	}

	if !l.Population.Balance.Valid() {
		invalid("balance range is invalid")
	}

	if !l.OrderItems.Valid() || l.OrderItems.Min < 1 {
		invalid("order items range must be within 1..n")
	}

	if l.Parking.Slots <= 0 || l.Parking.MaxAttempts <= 0 || l.Parking.BaseDelay < 0 {
		invalid("parking needs positive slots and attempts and a non-negative base delay")
	}

	if l.Hotel.Rooms <= 0 || l.Hotel.PricePerSecond < 0 || !l.Hotel.StaySeconds.Valid() || l.Hotel.StaySeconds.Min < 1 {
		invalid("hotel needs positive rooms, a non-negative price and a stay of at least one second")
	}

	games := make(map[string]struct{}, len(l.Games))
	for _, g := range l.Games {
		if _, dup := games[g.Name]; dup || g.Name == "" {
			invalid("game name %q is empty or duplicated", g.Name)
		}
		games[g.Name] = struct{}{}

		if g.Tables <= 0 || !g.Capacity.Valid() || g.Capacity.Min < 1 {
			invalid("game %q needs at least one table with a capacity of at least one", g.Name)
		}

		if !probability(g.WinProbability) || g.Payout < 1 {
			invalid("game %q needs a win probability in [0,1] and a payout of at least 1", g.Name)
		}
	}

	for _, v := range l.Bars {
		if v.Name == "" || v.Staff <= 0 || len(v.Menu) == 0 {
			invalid("bar %q needs a name, staff and a menu", v.Name)
		}
	}

	for _, v := range l.Restaurants {
		if v.Name == "" || v.Staff <= 0 || v.Tables <= 0 || len(v.Menu) == 0 {
			invalid("restaurant %q needs a name, tables, staff and a menu", v.Name)
		}
	}

	if len(l.Profiles) == 0 {
		invalid("at least one profile is required")
	}

	for _, p := range l.Profiles {
		for _, v := range []float64{p.Leave, p.Strategize, p.Play, p.Order, p.Sleep, p.Restaurant, p.Car} {
			if !probability(v) {
				invalid("profile %q has a probability outside [0,1]", p.Name)
				break
			}
		}

		if !p.Bets.Valid() || p.SpawnWeight < 0 {
			invalid("profile %q has an invalid bet range or spawn weight", p.Name)
		}

		for _, pref := range p.Games {
			if _, ok := games[pref.Game]; !ok {
				errs = append(errs, errors.Join(ErrUnknownResource,
					fmt.Errorf("profile %q prefers unknown game %q", p.Name, pref.Game)))
			}
		}
	}

	return errors.Join(errs...)
}

func probability(p float64) bool {
	return p >= 0 && p <= 1
}

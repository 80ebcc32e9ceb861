package facility

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scriptedRandom returns the queued floats in order and then fallback. IntN and Int64N
// always return 0 and Perm is the identity, so slot and item choices are deterministic.
type scriptedRandom struct {
	mu       sync.Mutex
	floats   []float64
	fallback float64
}

func script(fallback float64, floats ...float64) *scriptedRandom {
	return &scriptedRandom{floats: floats, fallback: fallback}
}

func (s *scriptedRandom) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.floats) == 0 {
		return s.fallback
	}

	f := s.floats[0]
	s.floats = s.floats[1:]

	return f
}

func (s *scriptedRandom) IntN(int) int { return 0 }
func (s *scriptedRandom) Int64N(int64) int64 { return 0 }

func (s *scriptedRandom) Perm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}

	return p
}

func testEnv(rnd Random, recorder Recorder, timeScale float64) *environment {
	env := newEnvironment()
	env.rnd = rnd
	env.pacing = Pacing{TimeScale: timeScale}

	if recorder != nil {
		env.recorder = recorder
	}

	return env
}

func testProfile() *Profile {
	return &Profile{
		Name:  "tester",
		Play:  0.5,
		Order: 0.5,
		Bets:  Between(Dollars(5), Dollars(50)),
		Games: []GamePreference{{Game: "Roulette", Weight: 1}},
	}
}

func inLobby(r *Registry, balance Money, options ...AgentOption) *Agent {
	a := NewAgent(testProfile(), balance, options...)
	r.Enter(a)

	return a
}

func addTable(env *environment, r *Registry, capacity int, winProbability float64, payout int64) *GameTable {
	t := newGameTable(env, "Roulette", winProbability, payout, []Dealer{{Instance: 1, Capacity: capacity}})
	r.addTable(t)

	return t
}

func requireWoken(t *testing.T, a *Agent) {
	t.Helper()

	select {
	case <-a.wake:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "agent was not returned in time")
	}
}

// testLayout is a small casino running a thousand times faster than real time.
//
//nolint:funlen
func testLayout() Layout {
	return Layout{
		Pacing: Pacing{
			TimeScale:          0.001,
			Idle:               Between(time.Second, 3*time.Second),
			RoundPause:         Between(time.Second, 2*time.Second),
			RestaurantOrderGap: Between(time.Second, 2*time.Second),
		},
		Population: Population{
			InitialCustomers: 20,
			MaxCustomers:     40,
			SpawnInterval:    Between(5*time.Second, 15*time.Second),
			Balance:          Between(Dollars(100), Dollars(1000)),
		},
		Parking: ParkingLayout{Slots: 5, MaxAttempts: 3, BaseDelay: 500 * time.Millisecond},
		Hotel:   HotelLayout{Rooms: 2, PricePerSecond: Dollars(3), StaySeconds: Between(1, 50)},
		Games: []GameLayout{
			{Name: "Roulette", Tables: 2, Capacity: Between(5, 5), WinProbability: 0.47, Payout: 2},
			{Name: "Poker", Tables: 3, Capacity: Between(2, 10), WinProbability: 0.4, Payout: 3},
		},
		Bars: []VenueLayout{{
			Name:  "Main Bar",
			Staff: 2,
			Menu: Menu{
				{Name: "Beer", Price: FromFloat(5.99), PrepTime: 2 * time.Second},
				{Name: "Wine", Price: FromFloat(8.5), PrepTime: time.Second},
			},
		}},
		Restaurants: []VenueLayout{{
			Name:   "Steakhouse",
			Tables: 2,
			Staff:  2,
			Menu: Menu{
				{Name: "Steak", Price: Dollars(35), PrepTime: 10 * time.Second},
				{Name: "Salad", Price: Dollars(12), PrepTime: 3 * time.Second},
			},
		}},
		Profiles: []Profile{
			{
				Name: "gambler", Leave: 0.01, Strategize: 0.01, Play: 0.6, Order: 0.2, Sleep: 0.05,
				Restaurant: 0.1, Car: 0.7, Bets: Between(Dollars(10), Dollars(100)), SpawnWeight: 3,
				Games: []GamePreference{{Game: "Roulette", Weight: 0.5}, {Game: "Poker", Weight: 0.5}},
			},
			{
				Name: "shopper", Leave: 0.05, Strategize: 0.01, Play: 0.1, Order: 0.5, Sleep: 0.1,
				Restaurant: 0.4, Car: 0.3, Bets: Between(Dollars(5), Dollars(20)), SpawnWeight: 1,
				Games: []GamePreference{{Game: "Roulette", Weight: 1}},
			},
		},
		OrderItems: Between(1, 7),
	}
}

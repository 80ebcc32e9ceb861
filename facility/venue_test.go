package facility

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
	"github.com/AntonStoeckl/casino-floor-simulation/testutil/testdoubles"
)

func steakhouse(r *Registry, tables int) *Restaurant {
	return newRestaurant(r, "Steakhouse", tables, Menu{
		{Name: "Steak", Price: Dollars(35), PrepTime: time.Second},
		{Name: "Salad", Price: Dollars(12), PrepTime: time.Second},
	}, 1)
}

func Test_Restaurant_SingleTableSeatsOneAtATime(t *testing.T) {
	r := newRegistry()
	venue := steakhouse(r, 1)
	first := inLobby(r, Dollars(100))
	second := inLobby(r, Dollars(100))

	require.True(t, venue.Seat(first))
	assert.Equal(t, Seated, first.Location())
	assert.False(t, r.InLobby(first))

	assert.False(t, venue.Seat(second), "the only table is taken")
	assert.True(t, r.InLobby(second))
	assert.Equal(t, 1, venue.Occupied())

	require.True(t, venue.Vacate(first))
	assert.True(t, r.InLobby(first))
	assert.False(t, venue.Vacate(first))

	assert.True(t, venue.Seat(second))
	assert.Equal(t, 1, venue.Occupied())
}

func Test_Restaurant_Dine(t *testing.T) {
	tests := []struct {
		name         string
		balance      Money
		wantPlaced   int
		wantRejected int
		wantBalance  Money
	}{
		{name: "every order fits the balance", balance: Dollars(100), wantPlaced: 2, wantRejected: 0, wantBalance: Dollars(30)},
		{name: "an order beyond the balance is rejected", balance: Dollars(50), wantPlaced: 1, wantRejected: 1, wantBalance: Dollars(15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := testdoubles.NewRecorderSpy()
			env := testEnv(script(0.9, 0.1, 0.1), spy, 1)
			r := newRegistry()
			venue := steakhouse(r, 2)
			a := inLobby(r, tt.balance)

			require.True(t, venue.Seat(a))
			tab := venue.dine(context.Background(), env, a, Between(1, 1))
			require.True(t, venue.Vacate(a))

			assert.Equal(t, tt.balance-tt.wantBalance, tab)
			assert.Equal(t, tt.wantBalance, a.Balance())
			assert.Equal(t, tt.wantPlaced, venue.Orders().Pending())
			assert.Equal(t, tt.wantPlaced, spy.CountOfType(core.OrderPlacedEventType))
			assert.Equal(t, tt.wantRejected, spy.CountOfType(core.OrderRejectedEventType))
		})
	}
}

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

func Test_GameTable_DispatchRound_PopsCapacityInArrivalOrder(t *testing.T) {
	env := testEnv(script(0.99), nil, 1)
	r := newRegistry()
	table := addTable(env, r, 3, 0, 2)

	agents := make([]*Agent, 5)
	for i := range agents {
		agents[i] = inLobby(r, Dollars(100), WithBetPolicy(FixedBet(Dollars(1))))
		require.True(t, table.Join(agents[i]))
	}
	require.Equal(t, 5, table.Waiting())

	outcomes := table.DispatchRound(context.Background(), table.Dealers()[0])

	require.Len(t, outcomes, 3)
	for i, o := range outcomes {
		assert.Same(t, agents[i], o.Agent)
		assert.True(t, o.Played)
		assert.True(t, r.InLobby(agents[i]))
		assert.Equal(t, Lobby, agents[i].Location())
		assert.Len(t, agents[i].wake, 1, "returned agents are woken")
	}

	assert.Equal(t, 2, table.Waiting())
	assert.Equal(t, 0, table.Playing())
	for _, a := range agents[3:] {
		assert.Equal(t, Waiting, a.Location())
		assert.False(t, r.InLobby(a))
	}

	outcomes = table.DispatchRound(context.Background(), table.Dealers()[0])

	require.Len(t, outcomes, 2)
	assert.Same(t, agents[3], outcomes[0].Agent)
	assert.Same(t, agents[4], outcomes[1].Agent)
	assert.Equal(t, 0, table.Waiting())
}

func Test_GameTable_PreservesArrivalOrderAcrossRounds(t *testing.T) {
	env := testEnv(script(0.99), nil, 1)
	r := newRegistry()
	table := addTable(env, r, 1, 0, 2)

	agents := make([]*Agent, 10)
	for i := range agents {
		agents[i] = inLobby(r, Dollars(100), WithBetPolicy(FixedBet(Dollars(1))))
		require.True(t, table.Join(agents[i]))
	}

	for i := range agents {
		outcomes := table.DispatchRound(context.Background(), table.Dealers()[0])
		require.Len(t, outcomes, 1)
		assert.Same(t, agents[i], outcomes[0].Agent)
	}
}

func Test_GameTable_DispatchRound_EmptyWaitList(t *testing.T) {
	env := testEnv(script(0.5), nil, 1)
	r := newRegistry()
	table := addTable(env, r, 3, 0.5, 2)

	assert.Empty(t, table.DispatchRound(context.Background(), table.Dealers()[0]))
}

func Test_GameTable_UnaffordableBetReturnsAgentWithoutPlaying(t *testing.T) {
	spy := testdoubles.NewRecorderSpy()
	env := testEnv(script(0.0), spy, 1)
	r := newRegistry()
	table := addTable(env, r, 3, 1.0, 2)
	a := inLobby(r, Dollars(10), WithBetPolicy(FixedBet(Dollars(15))))

	require.True(t, table.Join(a))
	outcomes := table.DispatchRound(context.Background(), table.Dealers()[0])

	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Played)
	assert.Equal(t, Dollars(10), a.Balance())
	assert.True(t, r.InLobby(a))

	declined := spy.OfType(core.BetDeclinedEventType)
	require.Len(t, declined, 1)
	assert.Equal(t, Dollars(15).Cents(), declined[0].(core.BetDeclined).Amount)
	assert.Zero(t, spy.CountOfType(core.GamePlayedEventType))
}

func Test_GameTable_Payouts(t *testing.T) {
	tests := []struct {
		name           string
		winProbability float64
		wantBalance    Money
		wantWon        bool
	}{
		{name: "certain win pays bet times multiplier", winProbability: 1.0, wantBalance: Dollars(120), wantWon: true},
		{name: "certain loss keeps the bet", winProbability: 0.0, wantBalance: Dollars(80), wantWon: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := testdoubles.NewRecorderSpy()
			env := testEnv(script(0.5), spy, 1)
			r := newRegistry()
			table := addTable(env, r, 3, tt.winProbability, 2)
			a := inLobby(r, Dollars(100), WithBetPolicy(FixedBet(Dollars(20))))

			require.True(t, table.Join(a))
			outcomes := table.DispatchRound(context.Background(), table.Dealers()[0])

			require.Len(t, outcomes, 1)
			assert.Equal(t, tt.wantWon, outcomes[0].Won)
			assert.Equal(t, tt.wantBalance, a.Balance())

			played := spy.OfType(core.GamePlayedEventType)
			require.Len(t, played, 1)
			event := played[0].(core.GamePlayed)
			assert.Equal(t, "Roulette", event.Game)
			assert.Equal(t, 1, event.TableInstance)
			assert.Equal(t, tt.wantBalance-Dollars(100), Money(event.Net()))
		})
	}
}

func Test_GameTable_Withdraw(t *testing.T) {
	env := testEnv(script(0.5), nil, 1)
	r := newRegistry()
	table := addTable(env, r, 3, 0.5, 2)
	a := inLobby(r, Dollars(100))

	require.True(t, table.Join(a))
	assert.False(t, table.Join(a), "an agent can only wait once")

	assert.True(t, table.withdraw(a))
	assert.True(t, r.InLobby(a))
	assert.Equal(t, 0, table.Waiting())
	assert.False(t, table.withdraw(a))
}

func Test_GameTable_DealerWakesOnArrival(t *testing.T) {
	env := testEnv(script(0.99), nil, 1)
	r := newRegistry()
	table := addTable(env, r, 2, 0, 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		table.deal(ctx, table.Dealers()[0])
	}()

	a := inLobby(r, Dollars(100), WithBetPolicy(FixedBet(Dollars(5))))
	require.True(t, table.Join(a))

	requireWoken(t, a)
	assert.True(t, r.InLobby(a))
	assert.Equal(t, Dollars(95), a.Balance())

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "dealer did not stop")
	}
}

package facility

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Registry_MoveOut(t *testing.T) {
	r := newRegistry()
	var resource sync.Mutex

	t.Run("moves a lobby member", func(t *testing.T) {
		a := inLobby(r, Dollars(10))
		entered := false

		ok := r.MoveOut(&resource, a, Seated, func() bool {
			entered = true
			return true
		})

		assert.True(t, ok)
		assert.True(t, entered)
		assert.False(t, r.InLobby(a))
		assert.Equal(t, Seated, a.Location())
	})

	t.Run("refuses agents outside the lobby", func(t *testing.T) {
		a := NewAgent(testProfile(), Dollars(10))
		entered := false

		ok := r.MoveOut(&resource, a, Seated, func() bool {
			entered = true
			return true
		})

		assert.False(t, ok)
		assert.False(t, entered)
		assert.Equal(t, Arriving, a.Location())
	})

	t.Run("keeps the agent in the lobby when the resource refuses", func(t *testing.T) {
		a := inLobby(r, Dollars(10))

		ok := r.MoveOut(&resource, a, Seated, func() bool { return false })

		assert.False(t, ok)
		assert.True(t, r.InLobby(a))
		assert.Equal(t, Lobby, a.Location())
	})
}

func Test_Registry_MoveIn(t *testing.T) {
	r := newRegistry()
	var resource sync.Mutex
	a := NewAgent(testProfile(), Dollars(10))

	assert.False(t, r.MoveIn(&resource, a, func() bool { return false }))
	assert.False(t, r.InLobby(a))

	assert.True(t, r.MoveIn(&resource, a, func() bool { return true }))
	assert.True(t, r.InLobby(a))
	assert.Equal(t, Lobby, a.Location())
	assert.Equal(t, 1, r.LobbySize())

	assert.True(t, r.Leave(a))
	assert.Equal(t, Departed, a.Location())
	assert.False(t, r.Leave(a))
}

func Test_Registry_TableLookup(t *testing.T) {
	env := testEnv(script(0.5), nil, 1)
	r := newRegistry()
	table := addTable(env, r, 3, 0.5, 2)

	h, ok := r.Handle("Roulette")
	assert.True(t, ok)
	assert.Same(t, table, r.Table(h))
	assert.Same(t, table, r.MustTable("Roulette"))

	_, ok = r.Handle("Blackjack")
	assert.False(t, ok)

	assert.Panics(t, func() { r.Table(TableHandle(7)) })
	assert.Panics(t, func() { r.MustTable("Blackjack") })
}

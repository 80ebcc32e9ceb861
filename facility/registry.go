package facility

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// TableHandle addresses a game table. Handles are assigned once when the registry is built.
type TableHandle int

// Registry is the lobby: the agents free to act, and the fixed set of game tables they can join.
//
// Every move between the lobby and a resource goes through MoveOut or MoveIn, which lock the
// resource first and the registry second. This is the only place the two locks are combined.
type Registry struct {
	mu    sync.Mutex
	lobby map[uuid.UUID]*Agent

	tables []*GameTable
	byName map[string]TableHandle
}

func newRegistry() *Registry {
	return &Registry{
		lobby:  make(map[uuid.UUID]*Agent),
		byName: make(map[string]TableHandle),
	}
}

func (r *Registry) addTable(t *GameTable) {
	t.handle = TableHandle(len(r.tables))
	t.registry = r
	r.tables = append(r.tables, t)
	r.byName[t.name] = t.handle
}

// Handle looks up a table by game name.
func (r *Registry) Handle(name string) (TableHandle, bool) {
	h, ok := r.byName[name]

	return h, ok
}

// Table returns the table for h. An unknown handle is a configuration defect and panics.
func (r *Registry) Table(h TableHandle) *GameTable {
	if h < 0 || int(h) >= len(r.tables) {
		panic(fmt.Sprintf("facility: unknown table handle %d", h))
	}

	return r.tables[h]
}

// MustTable looks a table up by name and panics if it does not exist.
func (r *Registry) MustTable(name string) *GameTable {
	h, ok := r.Handle(name)
	if !ok {
		panic(fmt.Sprintf("facility: unknown game %q", name))
	}

	return r.tables[h]
}

func (r *Registry) Tables() []*GameTable {
	return r.tables
}

// Enter puts an arriving agent into the lobby.
func (r *Registry) Enter(a *Agent) {
	r.attach(a, nil)
}

// Leave removes a from the lobby for good. It reports false if a was not in the lobby.
func (r *Registry) Leave(a *Agent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.lobby[a.id]
	delete(r.lobby, a.id)
	a.setLocation(Departed)

	return ok
}

// InLobby reports whether a is currently in the lobby.
func (r *Registry) InLobby(a *Agent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.lobby[a.id]

	return ok
}

func (r *Registry) LobbySize() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.lobby)
}

// MoveOut moves a from the lobby into the collection guarded by resource.
// enter runs with both locks held and must add a to that collection, or report false to refuse.
func (r *Registry) MoveOut(resource sync.Locker, a *Agent, to Location, enter func() bool) bool {
	resource.Lock()
	defer resource.Unlock()

	return r.detach(a, to, enter)
}

// MoveIn moves a from the collection guarded by resource back into the lobby.
// leave runs with both locks held and must remove a from that collection, or report false if it is not there.
func (r *Registry) MoveIn(resource sync.Locker, a *Agent, leave func() bool) bool {
	resource.Lock()
	defer resource.Unlock()

	return r.attach(a, leave)
}

// detach requires the caller to hold the resource lock.
func (r *Registry) detach(a *Agent, to Location, enter func() bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lobby[a.id]; !ok {
		return false
	}

	if enter != nil && !enter() {
		return false
	}

	delete(r.lobby, a.id)
	a.setLocation(to)

	return true
}

// attach requires the caller to hold the resource lock.
func (r *Registry) attach(a *Agent, leave func() bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if leave != nil && !leave() {
		return false
	}

	r.lobby[a.id] = a
	a.setLocation(Lobby)

	return true
}

// lobbyMembers requires r.mu.
func (r *Registry) lobbyMembers() []*Agent {
	members := make([]*Agent, 0, len(r.lobby))
	for _, a := range r.lobby {
		members = append(members, a)
	}

	return members
}

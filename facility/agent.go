package facility

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Location says which collection an agent belongs to.
type Location int32

const (
	Arriving Location = iota
	Lobby
	Waiting
	InResource
	Seated
	Departed
)

func (l Location) String() string {
	switch l {
	case Arriving:
		return "arriving"
	case Lobby:
		return "lobby"
	case Waiting:
		return "waiting"
	case InResource:
		return "in_resource"
	case Seated:
		return "seated"
	case Departed:
		return "departed"
	default:
		return "unknown"
	}
}

// Agent is one customer. Its location is only changed inside the critical sections of the
// collections it moves between; the atomic makes it readable from anywhere.
type Agent struct {
	id        uuid.UUID
	profile   *Profile
	ledger    *Ledger
	hasCar    bool
	bet       BetPolicy
	arrivedAt time.Time

	location atomic.Int32
	wake     chan struct{}

	mu      sync.Mutex
	parking *Slot
	room    *Slot
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithCar makes the agent arrive by car.
func WithCar() AgentOption {
	return func(a *Agent) {
		a.hasCar = true
	}
}

// WithBetPolicy overrides the profile's bet range.
func WithBetPolicy(policy BetPolicy) AgentOption {
	return func(a *Agent) {
		a.bet = policy
	}
}

// NewAgent creates an agent in the Arriving state.
func NewAgent(profile *Profile, balance Money, options ...AgentOption) *Agent {
	a := &Agent{
		id:      uuid.New(),
		profile: profile,
		ledger:  NewLedger(balance),
		bet:     RangeBet(profile.Bets),
		wake:    make(chan struct{}, 1),
	}

	for _, option := range options {
		option(a)
	}

	return a
}

func (a *Agent) ID() uuid.UUID {
	return a.id
}

func (a *Agent) Profile() *Profile {
	return a.profile
}

func (a *Agent) Ledger() *Ledger {
	return a.ledger
}

func (a *Agent) Balance() Money {
	return a.ledger.Balance()
}

func (a *Agent) HasCar() bool {
	return a.hasCar
}

func (a *Agent) Location() Location {
	return Location(a.location.Load())
}

func (a *Agent) setLocation(l Location) {
	a.location.Store(int32(l))
}

func (a *Agent) customerID() string {
	return a.id.String()
}

func (a *Agent) parkingSlot() *Slot {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.parking
}

func (a *Agent) setParkingSlot(s *Slot) {
	a.mu.Lock()
	a.parking = s
	a.mu.Unlock()
}

func (a *Agent) hasRoom() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.room != nil
}

func (a *Agent) setRoom(s *Slot) {
	a.mu.Lock()
	a.room = s
	a.mu.Unlock()
}

// wakeUp signals the agent that whoever held it has returned it to the lobby.
func (a *Agent) wakeUp() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

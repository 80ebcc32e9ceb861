package facility

import "sync"

// Slot is one parking space or hotel room. Its mutex guards only the occupant.
type Slot struct {
	mu       sync.Mutex
	index    int
	occupant *Agent
}

func (s *Slot) Index() int {
	return s.index
}

// Occupant returns the current holder, or nil.
func (s *Slot) Occupant() *Agent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.occupant
}

// Pool is a fixed set of independently locked slots. There is no pool-wide lock.
type Pool struct {
	name  string
	slots []*Slot
	rnd   Random
}

// NewPool creates a pool of capacity free slots.
func NewPool(name string, capacity int, rnd Random) *Pool {
	slots := make([]*Slot, capacity)
	for i := range slots {
		slots[i] = &Slot{index: i}
	}

	return &Pool{name: name, slots: slots, rnd: rnd}
}

func (p *Pool) Name() string {
	return p.name
}

func (p *Pool) Capacity() int {
	return len(p.slots)
}

// Available counts free slots. Slots are inspected one at a time, so the count is a snapshot.
func (p *Pool) Available() int {
	free := 0
	for _, s := range p.slots {
		s.mu.Lock()
		if s.occupant == nil {
			free++
		}
		s.mu.Unlock()
	}

	return free
}

// Acquire gives a free slot to a, trying slots in random order.
func (p *Pool) Acquire(a *Agent) (*Slot, bool) {
	return p.acquireWith(a, nil)
}

// acquireWith calls bind while holding the chosen slot's mutex; the slot is only taken if bind agrees.
func (p *Pool) acquireWith(a *Agent, bind func() bool) (*Slot, bool) {
	for _, i := range p.rnd.Perm(len(p.slots)) {
		s := p.slots[i]

		s.mu.Lock()
		if s.occupant == nil && (bind == nil || bind()) {
			s.occupant = a
			s.mu.Unlock()

			return s, true
		}
		s.mu.Unlock()
	}

	return nil, false
}

// Release frees s if a holds it. Releasing a free slot, or somebody else's, does nothing.
func (p *Pool) Release(s *Slot, a *Agent) bool {
	if s == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.vacate(a)
}

// vacate requires s.mu.
func (s *Slot) vacate(a *Agent) bool {
	if s.occupant == nil || s.occupant != a {
		return false
	}

	s.occupant = nil

	return true
}

func (p *Pool) occupied() int {
	return p.Capacity() - p.Available()
}

package testdoubles

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
)

// RecorderSpy captures every recorded domain event. It is safe for concurrent use.
type RecorderSpy struct {
	mu     sync.Mutex
	events []core.DomainEvent
}

func NewRecorderSpy() *RecorderSpy {
	return &RecorderSpy{}
}

// Record implements facility.Recorder.
func (s *RecorderSpy) Record(_ context.Context, event core.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
}

// Events returns a copy of all captured events in recording order.
func (s *RecorderSpy) Events() []core.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]core.DomainEvent, len(s.events))
	copy(events, s.events)

	return events
}

// OfType returns the captured events with the given event type.
func (s *RecorderSpy) OfType(eventType string) []core.DomainEvent {
	var matching []core.DomainEvent
	for _, e := range s.Events() {
		if e.IsEventType() == eventType {
			matching = append(matching, e)
		}
	}

	return matching
}

// CountOfType counts the captured events with the given event type.
func (s *RecorderSpy) CountOfType(eventType string) int {
	return len(s.OfType(eventType))
}

// ForCustomer returns the captured events of one customer.
func (s *RecorderSpy) ForCustomer(customerID string) []core.DomainEvent {
	var matching []core.DomainEvent
	for _, e := range s.Events() {
		if e.HasCustomerID() == customerID {
			matching = append(matching, e)
		}
	}

	return matching
}

package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent represents something that happened on the casino floor.
type DomainEvent interface {
	// IsEventType returns the string identifier for this event type.
	IsEventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time

	// IsErrorEvent returns true if this event represents a failed attempt.
	IsErrorEvent() bool

	// HasCustomerID returns the customer the event is about.
	HasCustomerID() CustomerIDString
}

package core

import (
	"time"
)

// CarParkedEventType is the event type identifier.
const CarParkedEventType = "CarParked"

// CarParked represents a customer's car taking a parking slot on arrival.
type CarParked struct {
	CustomerID CustomerIDString
	Slot       int
	Attempts   int
	OccurredAt OccurredAtTS
}

// BuildCarParked creates a new CarParked event.
func BuildCarParked(customerID CustomerIDString, slot int, attempts int, occurredAt time.Time) CarParked {
	return CarParked{
		CustomerID: customerID,
		Slot:       slot,
		Attempts:   attempts,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CarParked) IsEventType() string {
	return CarParkedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CarParked) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CarParked) IsErrorEvent() bool {
	return false
}

func (e CarParked) HasCustomerID() CustomerIDString {
	return e.CustomerID
}

package core

import (
	"time"
)

// CustomerArrivedEventType is the event type identifier.
const CustomerArrivedEventType = "CustomerArrived"

// CustomerArrived opens the stay record of a customer who came without a car.
type CustomerArrived struct {
	CustomerID CustomerIDString
	OccurredAt OccurredAtTS
}

// BuildCustomerArrived creates a new CustomerArrived event.
func BuildCustomerArrived(customerID CustomerIDString, occurredAt time.Time) CustomerArrived {
	return CustomerArrived{
		CustomerID: customerID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CustomerArrived) IsEventType() string {
	return CustomerArrivedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CustomerArrived) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CustomerArrived) IsErrorEvent() bool {
	return false
}

func (e CustomerArrived) HasCustomerID() CustomerIDString {
	return e.CustomerID
}

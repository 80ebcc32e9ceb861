package core

import (
	"time"
)

// CustomerDepartedEventType is the event type identifier.
const CustomerDepartedEventType = "CustomerDeparted"

// CustomerDeparted closes the stay record of a customer without a car.
// Customers with a car produce CarUnparked instead.
type CustomerDeparted struct {
	CustomerID   CustomerIDString
	Reason       DepartureReasonString
	FinalBalance CentsInt64
	ArrivedAt    OccurredAtTS
	OccurredAt   OccurredAtTS
}

// BuildCustomerDeparted creates a new CustomerDeparted event.
func BuildCustomerDeparted(
	customerID CustomerIDString,
	reason DepartureReasonString,
	finalBalance CentsInt64,
	arrivedAt time.Time,
	occurredAt time.Time,
) CustomerDeparted {

	return CustomerDeparted{
		CustomerID:   customerID,
		Reason:       reason,
		FinalBalance: finalBalance,
		ArrivedAt:    ToOccurredAt(arrivedAt),
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CustomerDeparted) IsEventType() string {
	return CustomerDepartedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CustomerDeparted) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CustomerDeparted) IsErrorEvent() bool {
	return false
}

func (e CustomerDeparted) HasCustomerID() CustomerIDString {
	return e.CustomerID
}

// StayDuration returns how long the customer stayed.
func (e CustomerDeparted) StayDuration() time.Duration {
	return e.OccurredAt.Sub(e.ArrivedAt)
}

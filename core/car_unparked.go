package core

import (
	"time"
)

// CarUnparkedEventType is the event type identifier.
const CarUnparkedEventType = "CarUnparked"

// CarUnparked represents a departing customer freeing their parking slot.
type CarUnparked struct {
	CustomerID   CustomerIDString
	Slot         int
	Reason       DepartureReasonString
	FinalBalance CentsInt64
	OccurredAt   OccurredAtTS
}

// BuildCarUnparked creates a new CarUnparked event.
func BuildCarUnparked(
	customerID CustomerIDString,
	slot int,
	reason DepartureReasonString,
	finalBalance CentsInt64,
	occurredAt time.Time,
) CarUnparked {

	return CarUnparked{
		CustomerID:   customerID,
		Slot:         slot,
		Reason:       reason,
		FinalBalance: finalBalance,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CarUnparked) IsEventType() string {
	return CarUnparkedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CarUnparked) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CarUnparked) IsErrorEvent() bool {
	return false
}

func (e CarUnparked) HasCustomerID() CustomerIDString {
	return e.CustomerID
}

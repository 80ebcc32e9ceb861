package core

import (
	"time"
)

// ParkingCarFailedEventType is the event type identifier.
const ParkingCarFailedEventType = "ParkingCarFailed"

// ParkingCarFailed represents a customer giving up on arrival because no parking slot became free.
type ParkingCarFailed struct {
	CustomerID  CustomerIDString
	Attempts    int
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildParkingCarFailed creates a new ParkingCarFailed event.
func BuildParkingCarFailed(
	customerID CustomerIDString,
	attempts int,
	failureInfo string,
	occurredAt time.Time,
) ParkingCarFailed {

	return ParkingCarFailed{
		CustomerID:  customerID,
		Attempts:    attempts,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ParkingCarFailed) IsEventType() string {
	return ParkingCarFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ParkingCarFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failed attempt.
func (e ParkingCarFailed) IsErrorEvent() bool {
	return true
}

func (e ParkingCarFailed) HasCustomerID() CustomerIDString {
	return e.CustomerID
}

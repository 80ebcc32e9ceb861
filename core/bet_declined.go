package core

import (
	"time"
)

// BetDeclinedEventType is the event type identifier.
const BetDeclinedEventType = "BetDeclined"

// BetDeclined represents a dealer skipping a customer whose balance could not cover the bet.
type BetDeclined struct {
	CustomerID    CustomerIDString
	Game          string
	TableInstance int
	Amount        CentsInt64
	Balance       CentsInt64
	FailureInfo   string
	OccurredAt    OccurredAtTS
}

// BuildBetDeclined creates a new BetDeclined event.
func BuildBetDeclined(
	customerID CustomerIDString,
	game string,
	tableInstance int,
	amount CentsInt64,
	balance CentsInt64,
	failureInfo string,
	occurredAt time.Time,
) BetDeclined {

	return BetDeclined{
		CustomerID:    customerID,
		Game:          game,
		TableInstance: tableInstance,
		Amount:        amount,
		Balance:       balance,
		FailureInfo:   failureInfo,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BetDeclined) IsEventType() string {
	return BetDeclinedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BetDeclined) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failed attempt.
func (e BetDeclined) IsErrorEvent() bool {
	return true
}

func (e BetDeclined) HasCustomerID() CustomerIDString {
	return e.CustomerID
}

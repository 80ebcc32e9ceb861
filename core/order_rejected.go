package core

import (
	"time"
)

// OrderRejectedEventType is the event type identifier.
const OrderRejectedEventType = "OrderRejected"

// OrderRejected represents an order the customer could not afford. Nothing was charged.
type OrderRejected struct {
	CustomerID  CustomerIDString
	VenueType   VenueTypeString
	VenueName   string
	Total       CentsInt64
	Balance     CentsInt64
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildOrderRejected creates a new OrderRejected event.
func BuildOrderRejected(
	customerID CustomerIDString,
	venueType VenueTypeString,
	venueName string,
	total CentsInt64,
	balance CentsInt64,
	failureInfo string,
	occurredAt time.Time,
) OrderRejected {

	return OrderRejected{
		CustomerID:  customerID,
		VenueType:   venueType,
		VenueName:   venueName,
		Total:       total,
		Balance:     balance,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e OrderRejected) IsEventType() string {
	return OrderRejectedEventType
}

// HasOccurredAt returns when this event occurred.
func (e OrderRejected) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failed attempt.
func (e OrderRejected) IsErrorEvent() bool {
	return true
}

func (e OrderRejected) HasCustomerID() CustomerIDString {
	return e.CustomerID
}

package core

import (
	"time"
)

// OrderPlacedEventType is the event type identifier.
const OrderPlacedEventType = "OrderPlaced"

// OrderPlaced represents an order at a bar or restaurant.
// Bar orders are paid when placed, restaurant orders when the customer leaves the table.
type OrderPlaced struct {
	OrderID    OrderIDString
	CustomerID CustomerIDString
	VenueType  VenueTypeString
	VenueName  string
	Items      []OrderLine
	Total      CentsInt64
	OccurredAt OccurredAtTS
}

// BuildOrderPlaced creates a new OrderPlaced event.
func BuildOrderPlaced(
	orderID OrderIDString,
	customerID CustomerIDString,
	venueType VenueTypeString,
	venueName string,
	items []OrderLine,
	total CentsInt64,
	occurredAt time.Time,
) OrderPlaced {

	return OrderPlaced{
		OrderID:    orderID,
		CustomerID: customerID,
		VenueType:  venueType,
		VenueName:  venueName,
		Items:      items,
		Total:      total,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e OrderPlaced) IsEventType() string {
	return OrderPlacedEventType
}

// HasOccurredAt returns when this event occurred.
func (e OrderPlaced) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e OrderPlaced) IsErrorEvent() bool {
	return false
}

func (e OrderPlaced) HasCustomerID() CustomerIDString {
	return e.CustomerID
}

package core

import (
	"time"
)

// CustomerIDString represents a customer identifier
type CustomerIDString = string

// OrderIDString represents an order identifier
type OrderIDString = string

// CentsInt64 is an amount of money in cents
type CentsInt64 = int64

// OccurredAtTS represents when an event occurred
type OccurredAtTS = time.Time

// DepartureReasonString tells why a customer left
type DepartureReasonString = string

// VenueTypeString is either VenueTypeBar or VenueTypeRestaurant
type VenueTypeString = string

const (
	DepartureOutOfMoney    DepartureReasonString = "out_of_money"
	DepartureLeft          DepartureReasonString = "left"
	DepartureStrategicExit DepartureReasonString = "strategic_exit"
	DepartureClosing       DepartureReasonString = "closing"

	VenueTypeBar        VenueTypeString = "bar"
	VenueTypeRestaurant VenueTypeString = "restaurant"
)

// OrderLine is one ordered item with the price charged for it.
type OrderLine struct {
	Name  string
	Price CentsInt64
}

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

package core

import (
	"time"
)

// HotelRoomBookingFailedEventType is the event type identifier.
const HotelRoomBookingFailedEventType = "HotelRoomBookingFailed"

// HotelRoomBookingFailed represents a booking attempt without a free room; the price was refunded.
type HotelRoomBookingFailed struct {
	CustomerID  CustomerIDString
	StaySeconds int
	Price       CentsInt64
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildHotelRoomBookingFailed creates a new HotelRoomBookingFailed event.
func BuildHotelRoomBookingFailed(
	customerID CustomerIDString,
	staySeconds int,
	price CentsInt64,
	failureInfo string,
	occurredAt time.Time,
) HotelRoomBookingFailed {

	return HotelRoomBookingFailed{
		CustomerID:  customerID,
		StaySeconds: staySeconds,
		Price:       price,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e HotelRoomBookingFailed) IsEventType() string {
	return HotelRoomBookingFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e HotelRoomBookingFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failed attempt.
func (e HotelRoomBookingFailed) IsErrorEvent() bool {
	return true
}

func (e HotelRoomBookingFailed) HasCustomerID() CustomerIDString {
	return e.CustomerID
}

package core

import (
	"time"
)

// HotelRoomBookedEventType is the event type identifier.
const HotelRoomBookedEventType = "HotelRoomBooked"

// HotelRoomBooked represents the start of a paid hotel stay.
// StaySeconds is in simulated seconds; Until is the scaled wall clock time the room is released.
type HotelRoomBooked struct {
	CustomerID  CustomerIDString
	Room        int
	StaySeconds int
	Price       CentsInt64
	Until       OccurredAtTS
	OccurredAt  OccurredAtTS
}

// BuildHotelRoomBooked creates a new HotelRoomBooked event.
func BuildHotelRoomBooked(
	customerID CustomerIDString,
	room int,
	staySeconds int,
	price CentsInt64,
	until time.Time,
	occurredAt time.Time,
) HotelRoomBooked {

	return HotelRoomBooked{
		CustomerID:  customerID,
		Room:        room,
		StaySeconds: staySeconds,
		Price:       price,
		Until:       ToOccurredAt(until),
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e HotelRoomBooked) IsEventType() string {
	return HotelRoomBookedEventType
}

// HasOccurredAt returns when this event occurred.
func (e HotelRoomBooked) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e HotelRoomBooked) IsErrorEvent() bool {
	return false
}

func (e HotelRoomBooked) HasCustomerID() CustomerIDString {
	return e.CustomerID
}

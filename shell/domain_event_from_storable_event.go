package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/casino-floor-simulation/core"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	payload := storableEvent.PayloadJSON

	switch storableEvent.EventType {
	case core.CustomerRegisteredEventType:
		return unmarshalPayload[core.CustomerRegistered](payload)
	case core.CustomerArrivedEventType:
		return unmarshalPayload[core.CustomerArrived](payload)
	case core.CarParkedEventType:
		return unmarshalPayload[core.CarParked](payload)
	case core.ParkingCarFailedEventType:
		return unmarshalPayload[core.ParkingCarFailed](payload)
	case core.CarUnparkedEventType:
		return unmarshalPayload[core.CarUnparked](payload)
	case core.CustomerDepartedEventType:
		return unmarshalPayload[core.CustomerDeparted](payload)
	case core.GamePlayedEventType:
		return unmarshalPayload[core.GamePlayed](payload)
	case core.BetDeclinedEventType:
		return unmarshalPayload[core.BetDeclined](payload)
	case core.OrderPlacedEventType:
		return unmarshalPayload[core.OrderPlaced](payload)
	case core.OrderRejectedEventType:
		return unmarshalPayload[core.OrderRejected](payload)
	case core.HotelRoomBookedEventType:
		return unmarshalPayload[core.HotelRoomBooked](payload)
	case core.HotelRoomBookingFailedEventType:
		return unmarshalPayload[core.HotelRoomBookingFailed](payload)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshalPayload[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}

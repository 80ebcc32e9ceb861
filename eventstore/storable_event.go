package eventstore

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrInvalidPayloadJSON is returned when the payload is not valid JSON.
	ErrInvalidPayloadJSON = errors.New("payload json is not valid")

	// ErrInvalidMetadataJSON is returned when the metadata is not valid JSON.
	ErrInvalidMetadataJSON = errors.New("metadata json is not valid")

	// ErrEmptyEventType is returned when the event type is empty.
	ErrEmptyEventType = errors.New("event type must not be empty")
)

// SequenceNumberUint is the position of an event in the journal, assigned by the engine on append.
type SequenceNumberUint = uint64

// StorableEvents is an alias type for a slice of StorableEvent
type StorableEvents = []StorableEvent

// StorableEvent is a DTO (data transfer object) used by the journal engines to append events and query them back.
//
// It is built on scalars to be completely agnostic of the domain events of the facility.
// SequenceNumber is zero for events that were not read back from an engine.
//
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildStorableEvent
//   - BuildStorableEventWithEmptyMetadata
type StorableEvent struct {
	EventType      string
	OccurredAt     time.Time
	PayloadJSON    []byte
	MetadataJSON   []byte
	SequenceNumber SequenceNumberUint
}

// BuildStorableEvent is a factory method for StorableEvent.
//
// Returns an error if eventType is empty or if payloadJSON or metadataJSON are not valid JSON.
func BuildStorableEvent(eventType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (StorableEvent, error) {
	if eventType == "" {
		return StorableEvent{}, ErrEmptyEventType
	}

	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return StorableEvent{}, ErrInvalidPayloadJSON
	}

	if !jsoniter.ConfigFastest.Valid(metadataJSON) {
		return StorableEvent{}, ErrInvalidMetadataJSON
	}

	return StorableEvent{
		EventType:    eventType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStorableEventWithEmptyMetadata is a factory method for StorableEvent with "{}" as metadata.
func BuildStorableEventWithEmptyMetadata(eventType string, occurredAt time.Time, payloadJSON []byte) (StorableEvent, error) {
	return BuildStorableEvent(eventType, occurredAt, payloadJSON, []byte("{}"))
}

// WithSequenceNumber returns a copy of the event carrying the sequence number assigned by an engine.
func (e StorableEvent) WithSequenceNumber(sequenceNumber SequenceNumberUint) StorableEvent {
	e.SequenceNumber = sequenceNumber

	return e
}

package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

//nolint:funlen
func Test_BuildStorableEvent_ErrorCases(t *testing.T) {
	validTime := time.Now()
	validPayloadJSON := []byte(`{"CustomerID": "c-1"}`)
	validMetadataJSON := []byte(`{"MessageID": "m-1"}`)

	tests := []struct {
		name         string
		eventType    string
		payloadJSON  []byte
		metadataJSON []byte
		expectedErr  error
	}{
		{
			name:         "empty event type",
			eventType:    "",
			payloadJSON:  validPayloadJSON,
			metadataJSON: validMetadataJSON,
			expectedErr:  ErrEmptyEventType,
		},
		{
			name:         "invalid payload JSON",
			eventType:    "GamePlayed",
			payloadJSON:  []byte(`{"invalid": json}`),
			metadataJSON: validMetadataJSON,
			expectedErr:  ErrInvalidPayloadJSON,
		},
		{
			name:         "invalid metadata JSON",
			eventType:    "GamePlayed",
			payloadJSON:  validPayloadJSON,
			metadataJSON: []byte(`{"invalid": json}`),
			expectedErr:  ErrInvalidMetadataJSON,
		},
		{
			name:         "empty payload JSON",
			eventType:    "GamePlayed",
			payloadJSON:  []byte(``),
			metadataJSON: validMetadataJSON,
			expectedErr:  ErrInvalidPayloadJSON,
		},
		{
			name:         "nil metadata JSON",
			eventType:    "GamePlayed",
			payloadJSON:  validPayloadJSON,
			metadataJSON: nil,
			expectedErr:  ErrInvalidMetadataJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildStorableEvent(tt.eventType, validTime, tt.payloadJSON, tt.metadataJSON)

			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_BuildStorableEvent_Success(t *testing.T) {
	occurredAt := time.Date(2025, 3, 1, 20, 15, 0, 0, time.UTC)

	event, err := BuildStorableEvent("OrderPlaced", occurredAt, []byte(`{"Total": 1250}`), []byte(`{}`))

	assert.NoError(t, err)
	assert.Equal(t, "OrderPlaced", event.EventType)
	assert.Equal(t, occurredAt, event.OccurredAt)
	assert.JSONEq(t, `{"Total": 1250}`, string(event.PayloadJSON))
	assert.Zero(t, event.SequenceNumber)
}

func Test_BuildStorableEventWithEmptyMetadata(t *testing.T) {
	event, err := BuildStorableEventWithEmptyMetadata("CarParked", time.Now(), []byte(`{"Slot": 3}`))

	assert.NoError(t, err)
	assert.Equal(t, []byte("{}"), event.MetadataJSON)
}

func Test_StorableEvent_WithSequenceNumber_ReturnsCopy(t *testing.T) {
	event, err := BuildStorableEventWithEmptyMetadata("CarParked", time.Now(), []byte(`{}`))
	assert.NoError(t, err)

	numbered := event.WithSequenceNumber(42)

	assert.Equal(t, SequenceNumberUint(42), numbered.SequenceNumber)
	assert.Zero(t, event.SequenceNumber)
}

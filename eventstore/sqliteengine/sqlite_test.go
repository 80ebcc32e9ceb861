package sqliteengine_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore/sqliteengine"
)

func givenJournal(t *testing.T) sqliteengine.EventStore {
	t.Helper()

	db, err := sqliteengine.OpenDB(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	journal, err := sqliteengine.NewEventStore(db)
	require.NoError(t, err)
	require.NoError(t, journal.CreateSchema(context.Background()))

	return journal
}

func givenEvent(t *testing.T, eventType string, occurredAt time.Time, payload string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(eventType, occurredAt, []byte(payload))
	require.NoError(t, err)

	return event
}

func Test_OpenDB_RejectsEmptyPath(t *testing.T) {
	_, err := sqliteengine.OpenDB("")
	assert.ErrorIs(t, err, sqliteengine.ErrEmptyDatabasePath)
}

func Test_NewEventStore_Options(t *testing.T) {
	_, err := sqliteengine.NewEventStore(nil)
	assert.ErrorIs(t, err, eventstore.ErrNilDatabaseConnection)

	db, err := sqliteengine.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = sqliteengine.NewEventStore(db, sqliteengine.WithTableName(""))
	assert.ErrorIs(t, err, eventstore.ErrEmptyEventsTableName)
}

func Test_CreateSchema_IsIdempotent(t *testing.T) {
	journal := givenJournal(t)

	assert.NoError(t, journal.CreateSchema(context.Background()))
}

//nolint:funlen
func Test_Query_TranslatesFilter(t *testing.T) {
	ctx := context.Background()
	journal := givenJournal(t)
	base := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	require.NoError(t, journal.Append(ctx,
		givenEvent(t, "CustomerArrived", base, `{"CustomerID":"c-1"}`),
		givenEvent(t, "GamePlayed", base.Add(time.Minute), `{"CustomerID":"c-1","Game":"Roulette"}`),
		givenEvent(t, "GamePlayed", base.Add(2*time.Minute), `{"CustomerID":"c-2","Game":"Craps"}`),
		givenEvent(t, "OrderPlaced", base.Add(3*time.Minute), `{"CustomerID":"c-1","VenueName":"Drinks Bar"}`),
	))

	tests := []struct {
		name          string
		filter        eventstore.Filter
		expectedTypes []string
	}{
		{
			name:          "empty filter returns everything in append order",
			filter:        eventstore.BuildEventFilter().Finalize(),
			expectedTypes: []string{"CustomerArrived", "GamePlayed", "GamePlayed", "OrderPlaced"},
		},
		{
			name:          "event types",
			filter:        eventstore.BuildEventFilter().OfEventTypes("OrderPlaced", "CustomerArrived").Finalize(),
			expectedTypes: []string{"CustomerArrived", "OrderPlaced"},
		},
		{
			name:          "payload predicates must all match",
			filter:        eventstore.BuildEventFilter().WithPredicates(eventstore.P("CustomerID", "c-1"), eventstore.P("Game", "Roulette")).Finalize(),
			expectedTypes: []string{"GamePlayed"},
		},
		{
			name: "time range is inclusive",
			filter: eventstore.BuildEventFilter().
				OccurredFrom(base.Add(time.Minute)).
				OccurredUntil(base.Add(2 * time.Minute)).
				Finalize(),
			expectedTypes: []string{"GamePlayed", "GamePlayed"},
		},
		{
			name:          "after sequence number and limit",
			filter:        eventstore.BuildEventFilter().AfterSequenceNumber(1).Limit(2).Finalize(),
			expectedTypes: []string{"GamePlayed", "GamePlayed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := journal.Query(ctx, tt.filter)
			require.NoError(t, err)

			types := make([]string, 0, len(events))
			for _, event := range events {
				types = append(types, event.EventType)
			}

			assert.Equal(t, tt.expectedTypes, types)
		})
	}
}

func Test_Query_RestoresEventFields(t *testing.T) {
	ctx := context.Background()
	journal := givenJournal(t)
	occurredAt := time.Date(2025, 3, 1, 20, 15, 30, 123456000, time.UTC)

	event, err := eventstore.BuildStorableEvent(
		"HotelRoomBooked", occurredAt, []byte(`{"CustomerID":"c-9","Room":4}`), []byte(`{"MessageID":"m-1"}`))
	require.NoError(t, err)
	require.NoError(t, journal.Append(ctx, event))

	events, err := journal.Query(ctx, eventstore.BuildEventFilter().Finalize())
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "HotelRoomBooked", events[0].EventType)
	assert.True(t, occurredAt.Equal(events[0].OccurredAt))
	assert.JSONEq(t, `{"CustomerID":"c-9","Room":4}`, string(events[0].PayloadJSON))
	assert.JSONEq(t, `{"MessageID":"m-1"}`, string(events[0].MetadataJSON))
	assert.Equal(t, eventstore.SequenceNumberUint(1), events[0].SequenceNumber)
}

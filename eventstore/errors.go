package eventstore

import (
	"errors"
)

var (
	// ErrEmptyEventsTableName is returned when an empty table name is supplied to an engine.
	ErrEmptyEventsTableName = errors.New("events table name must not be empty")

	// ErrNilDatabaseConnection is returned when an engine is constructed without a connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrNoEventsToAppend is returned when Append is called without events.
	ErrNoEventsToAppend = errors.New("no events to append")

	// ErrBuildingQueryFailed is returned when the SQL builder fails.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrQueryingEventsFailed is returned when the select query fails.
	ErrQueryingEventsFailed = errors.New("querying events failed")

	// ErrScanningDBRowFailed is returned when a result row cannot be scanned.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrBuildingStorableEventFailed is returned when a row does not form a valid StorableEvent.
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")

	// ErrAppendingEventFailed is returned when the insert statement fails.
	ErrAppendingEventFailed = errors.New("appending the event failed")

	// ErrCreatingSchemaFailed is returned when the events table cannot be created.
	ErrCreatingSchemaFailed = errors.New("creating events schema failed")
)

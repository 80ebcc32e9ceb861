package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	_ "modernc.org/sqlite"                              // database/sql driver "sqlite"

	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore/internal/adapters"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore/internal/instrument"
)

const (
	defaultEventTableName          = "events"
	engineName                     = "sqlite"
	driverName                     = "sqlite"
	dialectSQLite                  = "sqlite3"
	memoryPath                     = ":memory:"
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgCreateSchemaFailed       = "failed to create the events table"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgSchemaCreated            = "schema created"
	logAttrQuery                   = "query"
	logAttrEventType               = "event_type"
	logAttrEventCount              = "event_count"
	logAttrDurationMS              = "duration_ms"
	logAttrTable                   = "table"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	jsonExtract                    = "json_extract(" + colPayload + ", ?)"
	occurredAtLayout               = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrEmptyDatabasePath is returned by OpenDB for an empty path.
var ErrEmptyDatabasePath = errors.New("sqlite database path must not be empty")

// EventStore is the SQLite journal.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	observer       instrument.Observer
}

// OpenDB opens (and creates) a SQLite database tuned for an append-heavy journal.
// Use ":memory:" for a throwaway journal.
func OpenDB(path string) (*sql.DB, error) {
	if path == "" {
		return nil, ErrEmptyDatabasePath
	}

	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}

	// One connection: SQLite serializes writers anyway, and ":memory:" is per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return db, nil
}

// NewEventStore creates a new EventStore on top of a database opened with OpenDB.
func NewEventStore(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	es := EventStore{
		db:             adapters.NewSQLAdapter(db),
		eventTableName: defaultEventTableName,
		observer:       instrument.Observer{Engine: engineName},
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// CreateSchema creates the events table and its index if they do not exist yet.
func (es EventStore) CreateSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
	sequence_number INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL,
	occurred_at TEXT NOT NULL,
	payload TEXT NOT NULL,
	metadata TEXT NOT NULL
);`, es.eventTableName),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q (event_type);`, es.eventTableName+"_event_type_idx", es.eventTableName),
	}

	for _, ddl := range statements {
		start := time.Now()
		_, err := es.db.Exec(ctx, ddl)
		es.observer.LogQueryWithDuration(ctx, ddl, instrument.OperationSchema, time.Since(start))

		if err != nil {
			es.observer.LogError(ctx, logMsgCreateSchemaFailed, err, logAttrTable, es.eventTableName)
			return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
		}
	}

	es.observer.LogOperation(ctx, logMsgSchemaCreated, logAttrTable, es.eventTableName)

	return nil
}

// Query retrieves events matching the filter, ordered by sequence number.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (eventstore.StorableEvents, error) {
	ctx, span := es.observer.StartSpan(ctx, instrument.OperationQuery, nil)

	sqlQuery, args, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		es.observer.LogError(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		es.fail(ctx, span, instrument.OperationQuery, instrument.ErrorTypeBuildQuery)

		return nil, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery, args...)
	es.observer.LogQueryWithDuration(ctx, sqlQuery, instrument.OperationQuery, time.Since(start))

	if queryErr != nil {
		es.observer.LogError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		es.fail(ctx, span, instrument.OperationQuery, instrument.ErrorTypeDatabase)

		return nil, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			es.observer.LogWarn(ctx, logMsgCloseRowsFailed, closeErr)
		}
	}()

	events, errorType, scanErr := es.processQueryResults(ctx, rows)
	if scanErr != nil {
		es.fail(ctx, span, instrument.OperationQuery, errorType)
		return nil, scanErr
	}

	duration := time.Since(start)
	es.observer.RecordSuccess(ctx, instrument.OperationQuery, len(events), duration)
	span.FinishSuccess(len(events))
	es.observer.LogOperation(
		ctx,
		logMsgQueryCompleted,
		logAttrEventCount, len(events),
		logAttrDurationMS, instrument.ToMilliseconds(duration),
	)

	return events, nil
}

func (es EventStore) processQueryResults(ctx context.Context, rows adapters.DBRows) (eventstore.StorableEvents, string, error) {
	events := make(eventstore.StorableEvents, 0)

	var (
		eventType      string
		occurredAt     string
		payload        string
		metadata       string
		sequenceNumber int64
	)

	for rows.Next() {
		if err := rows.Scan(&eventType, &occurredAt, &payload, &metadata, &sequenceNumber); err != nil {
			es.observer.LogError(ctx, logMsgScanRowFailed, err)
			return nil, instrument.ErrorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		parsedAt, parseErr := time.Parse(occurredAtLayout, occurredAt)
		if parseErr != nil {
			es.observer.LogError(ctx, logMsgScanRowFailed, parseErr, logAttrEventType, eventType)
			return nil, instrument.ErrorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, parseErr)
		}

		event, buildErr := eventstore.BuildStorableEvent(eventType, parsedAt.UTC(), []byte(payload), []byte(metadata))
		if buildErr != nil {
			es.observer.LogError(ctx, logMsgBuildStorableEventFailed, buildErr, logAttrEventType, eventType)
			return nil, instrument.ErrorTypeBuildEvent, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		events = append(events, event.WithSequenceNumber(eventstore.SequenceNumberUint(sequenceNumber))) //nolint:gosec
	}

	if err := rows.Err(); err != nil {
		es.observer.LogError(ctx, logMsgScanRowFailed, err)
		return nil, instrument.ErrorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	return events, "", nil
}

// Append appends one or multiple events in a single statement; either all of them are stored or none.
func (es EventStore) Append(ctx context.Context, event eventstore.StorableEvent, additionalEvents ...eventstore.StorableEvent) error {
	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)
	ctx, span := es.observer.StartSpan(ctx, instrument.OperationAppend, allEvents)

	sqlQuery, args, buildQueryErr := es.buildInsertQuery(allEvents)
	if buildQueryErr != nil {
		es.observer.LogError(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventCount, len(allEvents))
		es.fail(ctx, span, instrument.OperationAppend, instrument.ErrorTypeBuildQuery)

		return buildQueryErr
	}

	start := time.Now()
	_, execErr := es.db.Exec(ctx, sqlQuery, args...)
	duration := time.Since(start)
	es.observer.LogQueryWithDuration(ctx, sqlQuery, instrument.OperationAppend, duration)

	if execErr != nil {
		es.observer.LogError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		es.fail(ctx, span, instrument.OperationAppend, instrument.ErrorTypeDBExec)

		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	es.observer.RecordSuccess(ctx, instrument.OperationAppend, len(allEvents), duration)
	span.FinishSuccess(len(allEvents))
	es.observer.LogOperation(
		ctx,
		logMsgEventsAppended,
		logAttrEventCount, len(allEvents),
		logAttrDurationMS, instrument.ToMilliseconds(duration),
	)

	return nil
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (string, []any, error) {
	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Prepared(true).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	if where := whereExpressions(filter); len(where) > 0 {
		selectStmt = selectStmt.Where(where...)
	}

	if filter.Limit() > 0 {
		selectStmt = selectStmt.Limit(filter.Limit())
	}

	sqlQuery, args, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func (es EventStore) buildInsertQuery(events eventstore.StorableEvents) (string, []any, error) {
	rows := make([][]any, 0, len(events))
	for _, event := range events {
		rows = append(rows, []any{
			event.EventType,
			formatOccurredAt(event.OccurredAt),
			string(event.PayloadJSON),
			string(event.MetadataJSON),
		})
	}

	insertStmt := goqu.Dialect(dialectSQLite).
		Insert(es.eventTableName).
		Prepared(true).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		Vals(rows...)

	sqlQuery, args, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

// whereExpressions translates the filter. Timestamps are stored in a fixed-width UTC layout,
// so comparing them as text preserves their chronological order.
func whereExpressions(filter eventstore.Filter) []goqu.Expression {
	expressions := make([]goqu.Expression, 0)

	if types := filter.EventTypes(); len(types) > 0 {
		expressions = append(expressions, goqu.C(colEventType).In(types))
	}

	for _, predicate := range filter.Predicates() {
		expressions = append(expressions, goqu.L(jsonExtract, "$."+predicate.Key()).Eq(predicate.Val()))
	}

	if !filter.OccurredFrom().IsZero() {
		expressions = append(expressions, goqu.C(colOccurredAt).Gte(formatOccurredAt(filter.OccurredFrom())))
	}

	if !filter.OccurredUntil().IsZero() {
		expressions = append(expressions, goqu.C(colOccurredAt).Lte(formatOccurredAt(filter.OccurredUntil())))
	}

	if filter.AfterSequenceNumber() > 0 {
		expressions = append(expressions, goqu.C(colSequenceNumber).Gt(int64(filter.AfterSequenceNumber()))) //nolint:gosec
	}

	return expressions
}

func formatOccurredAt(t time.Time) string {
	return t.UTC().Format(occurredAtLayout)
}

func (es EventStore) fail(ctx context.Context, span *instrument.Span, operation, errorType string) {
	es.observer.RecordError(ctx, operation, errorType)
	span.FinishError(errorType)
}

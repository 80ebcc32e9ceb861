package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore/internal/adapters"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore/internal/instrument"
)

const (
	defaultEventTableName          = "events"
	engineName                     = "postgres"
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
	dialectPostgres                = "postgres"
	castText                       = "?::text"
	castTimestamp                  = "?::timestamp with time zone"
	castJsonb                      = "?::jsonb"
	payloadContains                = colPayload + " @> ?::jsonb"
)

type sqlQueryString = string

// EventStore is the Postgres journal. It is safe for concurrent use as long as the underlying
// connection pool is.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	observer       instrument.Observer
}

type queryResultRow struct {
	eventType      string
	occurredAt     time.Time
	payload        []byte
	metadata       []byte
	sequenceNumber int64
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool with optional configuration.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB (lib/pq) with optional configuration.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB with optional configuration.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options)
}

func newEventStore(db adapters.DBAdapter, options []Option) (EventStore, error) {
	es := EventStore{
		db:             db,
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

// CreateSchema creates the events table and its indexes if they do not exist yet.
func (es EventStore) CreateSchema(ctx context.Context) error {
	table := pgx.Identifier{es.eventTableName}.Sanitize()
	indexPrefix := pgx.Identifier{es.eventTableName + "_event_type_idx"}.Sanitize()
	ginIndex := pgx.Identifier{es.eventTableName + "_payload_idx"}.Sanitize()

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number BIGSERIAL PRIMARY KEY,
	event_type TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	payload JSONB NOT NULL,
	metadata JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (event_type);
CREATE INDEX IF NOT EXISTS %[3]s ON %[1]s USING gin (payload jsonb_path_ops);`, table, indexPrefix, ginIndex)

	start := time.Now()
	_, err := es.db.Exec(ctx, ddl)
	es.observer.LogQueryWithDuration(ctx, ddl, instrument.OperationSchema, time.Since(start))

	if err != nil {
		es.observer.LogError(ctx, logMsgCreateSchemaFailed, err, logAttrTable, es.eventTableName)
		return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
	}

	es.observer.LogOperation(ctx, logMsgSchemaCreated, logAttrTable, es.eventTableName)

	return nil
}

// Query retrieves events matching the filter, ordered by sequence number.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (eventstore.StorableEvents, error) {
	ctx, span := es.observer.StartSpan(ctx, instrument.OperationQuery, nil)

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		es.observer.LogError(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		es.fail(ctx, span, instrument.OperationQuery, instrument.ErrorTypeBuildQuery)

		return nil, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	es.observer.LogQueryWithDuration(ctx, sqlQuery, instrument.OperationQuery, duration)

	if queryErr != nil {
		es.observer.LogError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		es.fail(ctx, span, instrument.OperationQuery, instrument.ErrorTypeDatabase)

		return nil, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(ctx, rows)

	events, errorType, scanErr := es.processQueryResults(ctx, rows)
	if scanErr != nil {
		es.fail(ctx, span, instrument.OperationQuery, errorType)
		return nil, scanErr
	}

	duration = time.Since(start)
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
	row := queryResultRow{}

	for rows.Next() {
		if err := rows.Scan(&row.eventType, &row.occurredAt, &row.payload, &row.metadata, &row.sequenceNumber); err != nil {
			es.observer.LogError(ctx, logMsgScanRowFailed, err)
			return nil, instrument.ErrorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, buildErr := eventstore.BuildStorableEvent(row.eventType, row.occurredAt.UTC(), row.payload, row.metadata)
		if buildErr != nil {
			es.observer.LogError(ctx, logMsgBuildStorableEventFailed, buildErr, logAttrEventType, row.eventType)
			return nil, instrument.ErrorTypeBuildEvent, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		events = append(events, event.WithSequenceNumber(eventstore.SequenceNumberUint(row.sequenceNumber))) //nolint:gosec
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

	sqlQuery, buildQueryErr := es.buildInsertQuery(allEvents)
	if buildQueryErr != nil {
		es.observer.LogError(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventCount, len(allEvents))
		es.fail(ctx, span, instrument.OperationAppend, instrument.ErrorTypeBuildQuery)

		return buildQueryErr
	}

	start := time.Now()
	_, execErr := es.db.Exec(ctx, sqlQuery)
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

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	where, err := whereExpressions(filter)
	if err != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	if len(where) > 0 {
		selectStmt = selectStmt.Where(where...)
	}

	if filter.Limit() > 0 {
		selectStmt = selectStmt.Limit(filter.Limit())
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) buildInsertQuery(events eventstore.StorableEvents) (sqlQueryString, error) {
	rows := make([][]any, 0, len(events))
	for _, event := range events {
		rows = append(rows, []any{
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)),
			goqu.L(castJsonb, string(event.MetadataJSON)),
		})
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		Vals(rows...)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// whereExpressions translates the filter; payload predicates become jsonb containment checks.
func whereExpressions(filter eventstore.Filter) ([]goqu.Expression, error) {
	expressions := make([]goqu.Expression, 0)

	if types := filter.EventTypes(); len(types) > 0 {
		expressions = append(expressions, goqu.C(colEventType).In(types))
	}

	for _, predicate := range filter.Predicates() {
		containment, err := jsoniter.ConfigFastest.MarshalToString(map[string]string{predicate.Key(): predicate.Val()})
		if err != nil {
			return nil, err
		}

		expressions = append(expressions, goqu.L(payloadContains, containment))
	}

	if !filter.OccurredFrom().IsZero() {
		expressions = append(expressions, goqu.C(colOccurredAt).Gte(filter.OccurredFrom()))
	}

	if !filter.OccurredUntil().IsZero() {
		expressions = append(expressions, goqu.C(colOccurredAt).Lte(filter.OccurredUntil()))
	}

	if filter.AfterSequenceNumber() > 0 {
		expressions = append(expressions, goqu.C(colSequenceNumber).Gt(filter.AfterSequenceNumber()))
	}

	return expressions, nil
}

func (es EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		es.observer.LogWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

func (es EventStore) fail(ctx context.Context, span *instrument.Span, operation, errorType string) {
	es.observer.RecordError(ctx, operation, errorType)
	span.FinishError(errorType)
}

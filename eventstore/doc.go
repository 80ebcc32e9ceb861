// Package eventstore provides the storage-agnostic types of the casino event journal.
//
// The facility records what happens on the floor (arrivals, game plays, orders, bookings, parking)
// as domain events. The journal persists them append-only, and they can be queried back for
// inspection with a Filter.
//
// Key types:
//   - StorableEvent: scalar DTO carrying event type, occurrence time, JSON payload and JSON metadata
//   - Filter: criteria to query events back (event types, payload predicates, time range, sequence)
//   - Logger, ContextualLogger, MetricsCollector, TracingCollector: dependency-free observability ports
//
// Engines live in sub-packages:
//   - postgresengine: PostgreSQL (pgx, database/sql, sqlx)
//   - sqliteengine: embedded SQLite file (modernc.org/sqlite)
//
// Common usage pattern:
//
//	filter := eventstore.BuildEventFilter().
//		OfEventTypes(core.GamePlayedEventType, core.BetDeclinedEventType).
//		WithPredicates(eventstore.P("CustomerID", customerID.String())).
//		Finalize()
//
//	events, err := journal.Query(ctx, filter)
//
// Appending is plain: the journal is a non-transactional side channel of the simulation,
// so there is no optimistic concurrency check.
//
//	err = journal.Append(ctx, storableEvent)
package eventstore

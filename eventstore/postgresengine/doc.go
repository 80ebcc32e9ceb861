// Package postgresengine provides a PostgreSQL implementation of the casino journal.
//
// It supports multiple database adapters (pgx, sql.DB, sqlx). Events are stored with a bigserial
// sequence number, the payload as jsonb, and payload predicates are translated to jsonb containment.
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	journal, _ := postgresengine.NewEventStoreFromPGXPool(db)
//	_ = journal.CreateSchema(ctx)
//
//	// With observability
//	journal, _ := postgresengine.NewEventStoreFromPGXPool(
//		db,
//		postgresengine.WithTableName("casino_events"),
//		postgresengine.WithLogger(slog.Default()),
//		postgresengine.WithMetrics(metricsCollector),
//		postgresengine.WithTracing(tracingCollector),
//	)
//
//	events, _ := journal.Query(ctx, filter)
//	err := journal.Append(ctx, event)
package postgresengine

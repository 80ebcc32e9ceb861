// Package sqliteengine provides an embedded SQLite implementation of the casino journal.
//
// It uses the pure Go modernc.org/sqlite driver, so a simulation run can keep a queryable journal
// in a single file without any external database. Queries are built with goqu as prepared
// statements, payload predicates use json_extract.
//
//	db, _ := sqliteengine.OpenDB("var/journal.db")
//	journal, _ := sqliteengine.NewEventStore(db, sqliteengine.WithLogger(slog.Default()))
//	_ = journal.CreateSchema(ctx)
package sqliteengine

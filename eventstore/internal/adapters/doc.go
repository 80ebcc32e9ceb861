// Package adapters provide the database adapters shared by the journal engines.
//
// The postgres engine can run on pgxpool.Pool, sql.DB (lib/pq) or sqlx.DB, and the sqlite engine
// runs on sql.DB (modernc.org/sqlite). All of them are presented through the DBAdapter interface
// so that query building and result handling are written once per engine.
package adapters

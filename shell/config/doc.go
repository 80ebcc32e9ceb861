// Package config wires the event journal and telemetry from environment variables.
//
// Variables can come from the process environment or an optional .env file. The journal is either
// PostgreSQL, reached through one of three drivers (pgx pool, database/sql with lib/pq, or sqlx),
// or a local SQLite file.
//
// This package is part of the shell (infrastructure) layer.
package config

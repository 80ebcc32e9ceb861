package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const (
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = time.Minute * 5
	defaultHealthCheckPeriod = time.Minute
	defaultConnectTimeout    = time.Second * 5
)

// ErrConnectingToDatabase is returned when a pool cannot be created or the first ping fails.
var ErrConnectingToDatabase = errors.New("could not connect to the database")

// PostgresPGXPoolConfig creates a pgxpool.Config for the journal database.
func PostgresPGXPoolConfig(cfg JournalConfig) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(cfg.PostgresDSN())
	if err != nil {
		return nil, errors.Join(ErrConnectingToDatabase, err)
	}

	dbConfig.MaxConns = int32(cfg.MaxConns) //nolint:gosec
	dbConfig.MinConns = min(dbConfig.MaxConns, 2)
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

// PostgresPGXPool opens a pgx pool and checks the connection.
func PostgresPGXPool(ctx context.Context, cfg JournalConfig) (*pgxpool.Pool, error) {
	dbConfig, err := PostgresPGXPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrConnectingToDatabase, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectingToDatabase, pingErr)
	}

	return pool, nil
}

// PostgresSQLDB opens a *sql.DB through lib/pq and checks the connection.
func PostgresSQLDB(ctx context.Context, cfg JournalConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, errors.Join(ErrConnectingToDatabase, err)
	}

	configurePool(db, cfg)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingToDatabase, pingErr)
	}

	return db, nil
}

// PostgresSQLX opens a *sqlx.DB through lib/pq and checks the connection.
func PostgresSQLX(ctx context.Context, cfg JournalConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, errors.Join(ErrConnectingToDatabase, err)
	}

	configurePool(db.DB, cfg)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectingToDatabase, pingErr)
	}

	return db, nil
}

func configurePool(db *sql.DB, cfg JournalConfig) {
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(max(cfg.MaxConns/4, 1))
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}

package config

import (
	"context"
	"errors"
	"io"

	"github.com/AntonStoeckl/casino-floor-simulation/eventstore/postgresengine"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore/sqliteengine"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// OpenPostgresJournal connects with the driver selected by cfg.Adapter.
// The returned closer releases the connection pool.
func OpenPostgresJournal(
	ctx context.Context,
	cfg JournalConfig,
	options ...postgresengine.Option,
) (postgresengine.EventStore, io.Closer, error) {

	options = append([]postgresengine.Option{postgresengine.WithTableName(cfg.TableName)}, options...)

	var (
		es     postgresengine.EventStore
		closer io.Closer
		err    error
	)

	switch cfg.Adapter {
	case AdapterSQL:
		db, openErr := PostgresSQLDB(ctx, cfg)
		if openErr != nil {
			return es, nil, openErr
		}

		closer = db
		es, err = postgresengine.NewEventStoreFromSQLDB(db, options...)

	case AdapterSQLX:
		db, openErr := PostgresSQLX(ctx, cfg)
		if openErr != nil {
			return es, nil, openErr
		}

		closer = db
		es, err = postgresengine.NewEventStoreFromSQLX(db, options...)

	default:
		pool, openErr := PostgresPGXPool(ctx, cfg)
		if openErr != nil {
			return es, nil, openErr
		}

		closer = closerFunc(func() error {
			pool.Close()
			return nil
		})
		es, err = postgresengine.NewEventStoreFromPGXPool(pool, options...)
	}

	if err != nil {
		_ = closer.Close()
		return postgresengine.EventStore{}, nil, err
	}

	return es, closer, nil
}

// OpenSQLiteJournal opens the SQLite file at cfg.SQLitePath.
func OpenSQLiteJournal(cfg JournalConfig, options ...sqliteengine.Option) (sqliteengine.EventStore, io.Closer, error) {
	db, err := sqliteengine.OpenDB(cfg.SQLitePath)
	if err != nil {
		return sqliteengine.EventStore{}, nil, errors.Join(ErrConnectingToDatabase, err)
	}

	options = append([]sqliteengine.Option{sqliteengine.WithTableName(cfg.TableName)}, options...)

	es, err := sqliteengine.NewEventStore(db, options...)
	if err != nil {
		_ = db.Close()
		return sqliteengine.EventStore{}, nil, err
	}

	return es, db, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore/postgresengine"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore/sqliteengine"
	"github.com/AntonStoeckl/casino-floor-simulation/shell"
	shellconfig "github.com/AntonStoeckl/casino-floor-simulation/shell/config"
)

const (
	journalNone     = "none"
	journalPostgres = "postgres"
	journalSQLite   = "sqlite"
)

// telemetry carries the optional OpenTelemetry adapters for the journal engines.
type telemetry struct {
	logger  eventstore.ContextualLogger
	metrics eventstore.MetricsCollector
	tracing eventstore.TracingCollector
}

// journal is what the CLI needs from either engine.
type journal interface {
	shell.AppendsEvents
	Query(ctx context.Context, filter eventstore.Filter) (eventstore.StorableEvents, error)
	CreateSchema(ctx context.Context) error
}

// journalSink closes the engine's database after the last batch was written.
type journalSink struct {
	shell.JournalSink
	db io.Closer
}

func (s journalSink) Close() error {
	return s.db.Close()
}

func openJournal(ctx context.Context, kind string, logger *slog.Logger, tel telemetry) (journal, io.Closer, error) {
	cfg, err := shellconfig.JournalConfigFromEnv()
	if err != nil {
		return nil, nil, err
	}

	switch kind {
	case journalPostgres:
		options := []postgresengine.Option{postgresengine.WithLogger(logger)}
		if tel.logger != nil {
			options = append(options,
				postgresengine.WithContextualLogger(tel.logger),
				postgresengine.WithMetrics(tel.metrics),
				postgresengine.WithTracing(tel.tracing),
			)
		}

		return shellconfig.OpenPostgresJournal(ctx, cfg, options...)

	case journalSQLite:
		options := []sqliteengine.Option{sqliteengine.WithLogger(logger)}
		if tel.logger != nil {
			options = append(options,
				sqliteengine.WithContextualLogger(tel.logger),
				sqliteengine.WithMetrics(tel.metrics),
				sqliteengine.WithTracing(tel.tracing),
			)
		}

		return shellconfig.OpenSQLiteJournal(cfg, options...)

	default:
		return nil, nil, fmt.Errorf("unknown journal %q, use %s or %s", kind, journalPostgres, journalSQLite)
	}
}

// openSink combines the selected journal and the archive. Without either, events are discarded.
func openSink(ctx context.Context, kind, archiveDir, runID string, logger *slog.Logger, tel telemetry) (shell.Sink, error) {
	var sinks shell.FanoutSink

	if kind != journalNone {
		j, db, err := openJournal(ctx, kind, logger, tel)
		if err != nil {
			return nil, err
		}

		if err = j.CreateSchema(ctx); err != nil {
			return nil, errors.Join(err, db.Close())
		}

		sinks = append(sinks, journalSink{JournalSink: shell.NewJournalSink(j), db: db})
	}

	if archiveDir != "" {
		sinks = append(sinks, shell.NewArchiveSink(archiveDir, runID))
	}

	switch len(sinks) {
	case 0:
		return shell.DiscardSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return sinks, nil
	}
}

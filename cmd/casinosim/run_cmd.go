package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/xid"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/casino-floor-simulation/config"
	"github.com/AntonStoeckl/casino-floor-simulation/eventstore/oteladapters"
	"github.com/AntonStoeckl/casino-floor-simulation/facility"
	"github.com/AntonStoeckl/casino-floor-simulation/shell"
	shellconfig "github.com/AntonStoeckl/casino-floor-simulation/shell/config"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the casino and run the simulation until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().String("layout", "", "layout YAML file (default: the built-in casino)")
	runCmd.Flags().Float64("time-scale", 0, "override the layout's time scale, e.g. 0.01 runs 100x faster")
	runCmd.Flags().String("journal", journalNone, "event journal: none, postgres or sqlite")
	runCmd.Flags().String("archive-dir", "", "also write events to hourly zstd JSONL files in this directory")
	runCmd.Flags().Duration("duration", 0, "close the casino after this long (default: run until interrupted)")
	runCmd.Flags().String("monitor-addr", "", "serve the monitor API on this address, e.g. localhost:8080")
	runCmd.Flags().Duration("status-interval", 10*time.Second, "how often to log occupancy and process stats")
	runCmd.Flags().String("otlp-endpoint", "", "export traces and metrics over OTLP gRPC to this host:port")
	runCmd.Flags().Uint64("seed", 0, "seed the random source for a reproducible run (0: random)")
	rootCmd.AddCommand(runCmd)
}

func loadLayout(path string) (config.Layout, error) {
	if path == "" {
		return config.Default()
	}

	return config.Load(path)
}

func runSimulation(cmd *cobra.Command, _ []string) error { //nolint:funlen
	flags := cmd.Flags()
	layoutPath, _ := flags.GetString("layout")
	timeScale, _ := flags.GetFloat64("time-scale")
	journalKind, _ := flags.GetString("journal")
	archiveDir, _ := flags.GetString("archive-dir")
	duration, _ := flags.GetDuration("duration")
	monitorAddr, _ := flags.GetString("monitor-addr")
	statusInterval, _ := flags.GetDuration("status-interval")
	otlpEndpoint, _ := flags.GetString("otlp-endpoint")
	seed, _ := flags.GetUint64("seed")

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	layout, err := loadLayout(layoutPath)
	if err != nil {
		return fmt.Errorf("failed to load layout: %w", err)
	}

	floor := layout.Facility()
	if timeScale > 0 {
		floor.Pacing.TimeScale = timeScale
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	var (
		cleanups []func()
		once     sync.Once
	)

	// Runs on return and from atexit handlers alike.
	cleanup := func() {
		once.Do(func() {
			for i := len(cleanups) - 1; i >= 0; i-- {
				cleanups[i]()
			}
		})
	}
	atexit.Register(cleanup)
	defer cleanup()

	var (
		tel     telemetry
		metrics facility.MetricsCollector
	)

	if otlpEndpoint != "" {
		providers, providerErr := shellconfig.NewObservabilityProviders(ctx, otlpEndpoint, serviceName, version)
		if providerErr != nil {
			return fmt.Errorf("failed to set up telemetry: %w", providerErr)
		}

		cleanups = append(cleanups, func() {
			if shutdownErr := providers.Shutdown(context.Background()); shutdownErr != nil {
				logger.Warn("telemetry shutdown failed", "error", shutdownErr.Error())
			}
		})

		collector := oteladapters.NewMetricsCollector(otel.Meter(serviceName))
		metrics = collector
		tel = telemetry{
			logger:  oteladapters.NewSlogBridgeLogger(serviceName),
			metrics: collector,
			tracing: oteladapters.NewTracingCollector(otel.Tracer(serviceName)),
		}
	}

	runID := xid.New()

	sink, err := openSink(ctx, journalKind, archiveDir, runID.String(), logger, tel)
	if err != nil {
		return fmt.Errorf("failed to open the event journal: %w", err)
	}

	recorder, err := shell.NewAsyncRecorder(sink, shell.WithRunID(runID), shell.WithLogger(logger))
	if err != nil {
		_ = sink.Close()
		return fmt.Errorf("failed to create the recorder: %w", err)
	}

	cleanups = append(cleanups, func() {
		if closeErr := recorder.Close(); closeErr != nil {
			logger.Error("closing the event journal failed", "error", closeErr.Error())
		}
	})

	options := []facility.Option{
		facility.WithRecorder(recorder),
		facility.WithLogger(logger),
	}

	if metrics != nil {
		options = append(options, facility.WithMetrics(metrics))
	}

	if seed != 0 {
		options = append(options, facility.WithRandom(facility.NewSeededRandom(seed)))
	}

	casino, err := facility.New(floor, options...)
	if err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}

	if monitorAddr != "" {
		server, serveErr := startMonitor(monitorAddr, newMonitor(casino, recorder), logger)
		if serveErr != nil {
			return fmt.Errorf("failed to start the monitor: %w", serveErr)
		}

		cleanups = append(cleanups, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		})
	}

	logger.Info("casino opening",
		"run_id", runID.String(),
		"journal", journalKind,
		"time_scale", floor.Pacing.TimeScale,
	)

	go reportStatus(ctx, casino, recorder, logger, statusInterval)

	if err = casino.Run(ctx); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	cleanup()

	snapshot := casino.Snapshot()
	stats := recorder.Stats()
	logger.Info("casino closed",
		slog.Int64("admitted", snapshot.Admitted),
		slog.Int64("departed", snapshot.Departed),
		slog.Int64("events_written", stats.Written),
		slog.Int64("events_dropped", stats.Dropped),
	)

	if auditErr := casino.Audit(); auditErr != nil {
		return fmt.Errorf("final audit failed: %w", auditErr)
	}

	return nil
}

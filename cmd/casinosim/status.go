package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/AntonStoeckl/casino-floor-simulation/facility"
	"github.com/AntonStoeckl/casino-floor-simulation/shell"
)

// reportStatus logs occupancy, recorder and process stats every interval until ctx is done.
// Facility gauges are pushed to the metrics collector on the same beat.
func reportStatus(ctx context.Context, casino *facility.Facility, recorder *shell.AsyncRecorder, logger *slog.Logger, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		snapshot := casino.ReportMetrics(ctx)
		stats := recorder.Stats()

		attrs := []any{
			slog.Int("lobby", snapshot.Lobby),
			slog.Int64("active", snapshot.Active),
			slog.Int64("departed", snapshot.Departed),
			slog.Int("parking_free", snapshot.ParkingFree),
			slog.Int("rooms_free", snapshot.RoomsFree),
			slog.Int64("events_written", stats.Written),
			slog.Int64("events_dropped", stats.Dropped),
		}

		if res, err := processResources(); err == nil {
			attrs = append(attrs,
				slog.Float64("cpu_percent", res.CPUPercent),
				slog.Uint64("rss_bytes", res.MemorySize),
			)
		}

		logger.Info("casino status", attrs...)
	}
}

// Package testdoubles provides spies for the ports of the simulation:
//   - RecorderSpy: captures domain events handed to a facility.Recorder
//   - MetricsCollectorSpy: captures counter, duration and value calls
//   - LogHandlerSpy: a slog.Handler that captures records
package testdoubles

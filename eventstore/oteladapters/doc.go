// Package oteladapters provides OpenTelemetry implementations of the observability interfaces
// used by the journal engines and the facility.
//
// The interfaces themselves are dependency-free; this package is the only place that imports
// the OpenTelemetry API. Providers (OTLP exporters, resources) are wired in shell/config.
package oteladapters

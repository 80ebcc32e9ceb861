// Package shell connects the facility to the outside world.
//
// It maps domain events to storable events and back, and records them asynchronously
// into one or more sinks: the event journal engines, a compressed JSONL archive, or nothing at all.
// The facility never waits for a sink; a recorder that falls behind drops events and counts them.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell

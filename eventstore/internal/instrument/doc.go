// Package instrument bundles the optional logging, metrics and tracing collaborators of a journal engine.
//
// Every helper is nil-safe: an engine built without observability pays for a few nil checks only.
package instrument

package facility

import "errors"

var (
	// ErrInsufficientFunds describes a debit that would have driven a balance negative.
	// Ledger.Debit reports it as false; the text ends up in failure events.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrResourceExhausted is returned when no slot, seat or room is free.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrUnknownResource is returned by New when a profile references a game that does not exist.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrInvalidLayout is returned by New for capacities, ranges or probabilities out of bounds.
	ErrInvalidLayout = errors.New("invalid facility layout")

	// ErrInvariantViolated is returned by Audit, joined with one error per violation.
	ErrInvariantViolated = errors.New("facility invariant violated")

	// ErrNilRecorder is returned when a nil recorder is provided to WithRecorder.
	ErrNilRecorder = errors.New("recorder must not be nil")

	// ErrNilRandom is returned when a nil random source is provided to WithRandom.
	ErrNilRandom = errors.New("random source must not be nil")
)

package types

import "errors"

// Error taxonomy shared by every package. Callers match with errors.Is; the
// returned errors wrap these with context.
var (
	// ErrDimensionMismatch: grid and coefficient/state shapes disagree. Fatal.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidLayerIndex: a depth index outside the configured layer count.
	ErrInvalidLayerIndex = errors.New("invalid layer index")

	// ErrNonPhysicalParameter: material or time step values that make the
	// update unstable or meaningless.
	ErrNonPhysicalParameter = errors.New("non-physical parameter")

	// ErrPhaseAlignmentViolation: frequency accumulation called out of step order.
	ErrPhaseAlignmentViolation = errors.New("phase alignment violation")

	// ErrAlreadyFinalized: stepping requested after the run completed.
	ErrAlreadyFinalized = errors.New("already finalized")

	// ErrNotConfiguring: configuration change after stepping started.
	ErrNotConfiguring = errors.New("configuration is locked")

	// ErrNotStarted: results requested before stepping started.
	ErrNotStarted = errors.New("simulation not started")
)

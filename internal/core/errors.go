package core

import "errors"

// Error taxonomy for the Numino core, per spec §7: errors are values, never
// exceptions, and fall into a small fixed set of sentinels that callers can
// match with errors.Is.
var (
	// ErrConfigInfeasible is raised immediately, deterministically, by the
	// Constructor when a Config can never be satisfied (e.g. require_all_numbers
	// but sum(numbers) > rows*cols).
	ErrConfigInfeasible = errors.New("numino: configuration is infeasible")

	// ErrConstructionExhausted is raised when the Constructor tries
	// max_attempts times without reaching a valid partition+coloring.
	ErrConstructionExhausted = errors.New("numino: construction exhausted max attempts")

	// ErrGenerationExhausted is raised by the composite generate pipeline
	// when construction fails (after its retries, or at once for an
	// infeasible config) or a deconstruction Stepper cannot be created. A
	// deconstruction that misses its target is not an error.
	ErrGenerationExhausted = errors.New("numino: generation exhausted retry budget")
)

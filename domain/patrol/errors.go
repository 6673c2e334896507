package patrol

import "errors"

// Domain errors for patrol runs.
var (
	// ErrStepBudgetExceeded indicates a run used up its step budget without
	// escaping or repeating a state.
	ErrStepBudgetExceeded = errors.New("step budget exceeded")

	// ErrBaselineLooped indicates the unobstructed guard never leaves the grid.
	ErrBaselineLooped = errors.New("baseline patrol never escapes")

	// ErrInvalidStart indicates the starting state is off-grid, on an
	// obstacle, or holds an invalid facing.
	ErrInvalidStart = errors.New("invalid starting state")
)

package guard

import "errors"

// Domain errors for guard movement.
var (
	// ErrTrapped indicates every neighbouring cell is blocked.
	ErrTrapped = errors.New("guard trapped")
)

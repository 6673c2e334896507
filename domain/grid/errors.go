package grid

import "errors"

// Domain errors for grid construction.
var (
	// ErrMalformedGrid indicates the input rows are empty or not rectangular.
	ErrMalformedGrid = errors.New("malformed grid")

	// ErrInvalidDimensions indicates a non-positive width or height.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
)

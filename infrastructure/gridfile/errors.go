package gridfile

import "errors"

// Loader errors.
var (
	// ErrNoGuard indicates the input has no guard glyph.
	ErrNoGuard = errors.New("no guard in grid")

	// ErrMultipleGuards indicates the input has more than one guard glyph.
	ErrMultipleGuards = errors.New("more than one guard in grid")

	// ErrInvalidCharacter indicates a rune outside ". # ^ > v <".
	ErrInvalidCharacter = errors.New("invalid grid character")
)

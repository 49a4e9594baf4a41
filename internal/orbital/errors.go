package orbital

import "errors"

// Domain errors for orbital selection.
var (
	// ErrInvalidSelector indicates an (n, l, label) tuple with no formula.
	ErrInvalidSelector = errors.New("orbital: no formula for selector")

	// ErrUnknownName indicates an orbital name that is not in the table.
	ErrUnknownName = errors.New("orbital: unknown orbital name")
)

package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrConflict     = fmt.Errorf("conflict")
	ErrForbidden    = fmt.Errorf("forbidden")
	ErrUnauthorized = fmt.Errorf("unauthorized")
)

// ErrOverlap is reported when a formula period intersects another period of
// the same tenant. It wraps ErrInvalidInput.
var ErrOverlap = fmt.Errorf("%w: overlapping formula period", ErrInvalidInput)

// IsDomain reports whether err belongs to the taxonomy above, as opposed to an
// unexpected failure.
func IsDomain(err error) bool {
	for _, target := range []error{ErrNotFound, ErrInvalidInput, ErrConflict, ErrForbidden, ErrUnauthorized} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLength is the sentinel matched by every *LengthError.
	ErrInvalidLength = errors.New("invalid length")
	// ErrEmptyStack is returned when popping the last selection.
	ErrEmptyStack = errors.New("no filter can be popped")
)

// LengthError reports a filter whose length does not match the dimension
// it applies to.
type LengthError struct {
	Dim       string // "sample" or "variant"
	Got       int
	Want      int
	Intersect bool
}

func (e *LengthError) Error() string {
	if e.Intersect {
		return fmt.Sprintf("invalid length of '%s' (should be equal to the number of selected %ss)", e.Dim, e.Dim)
	}
	return fmt.Sprintf("invalid length of '%s'", e.Dim)
}

func (e *LengthError) Unwrap() error { return ErrInvalidLength }

package cursor

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPositioned is returned by reads outside the positioned state.
	ErrNotPositioned = errors.New("cursor is not positioned on a variant")
	// ErrDimension is the sentinel matched by every *ShapeError.
	ErrDimension = errors.New("dimension mismatch")
	// ErrUnknownKind is returned for a Kind outside the defined set.
	ErrUnknownKind = errors.New("unknown cursor kind")
)

// ShapeError reports a genotype node whose shape disagrees with the
// dataset dimensions.
type ShapeError struct {
	Name string
	Dims []int32
	Want []int32
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid dimension of '%s': %v, want %v", e.Name, e.Dims, e.Want)
}

func (e *ShapeError) Unwrap() error { return ErrDimension }

package seqgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/seqgo/arraystore"
	"github.com/hupe1980/seqgo/internal/cursor"
	"github.com/hupe1980/seqgo/internal/index"
	"github.com/hupe1980/seqgo/internal/progress"
	"github.com/hupe1980/seqgo/internal/selection"
)

var (
	// ErrInvalidDimension is returned when a node's shape or count does not
	// match the dataset.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInvalidPosition is returned for a record index outside the dataset.
	ErrInvalidPosition = errors.New("invalid position")
	// ErrInvalidLength is returned when a filter has the wrong length.
	ErrInvalidLength = errors.New("invalid length")
	// ErrUnknownField is returned by GetField for names outside the
	// recognized grammar.
	ErrUnknownField = errors.New("unknown field")
	// ErrEmptyStack is returned when popping the last filter.
	ErrEmptyStack = errors.New("empty filter stack")
	// ErrInvalidArgument is returned for malformed arguments.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrFileClosed is returned for handles that are not open.
	ErrFileClosed = errors.New("the GDS file is closed or invalid")
	// ErrDimension is returned when genotype data disagrees with the
	// dataset ploidy or sample count during decoding.
	ErrDimension = errors.New("dimension error")
	// ErrNotFound is returned when a required node does not exist.
	ErrNotFound = errors.New("not found")
)

// Error carries one of the package sentinels together with the error that
// raised it. Its message is the message of the underlying error.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

// Unwrap returns both the kind and the cause, so errors.Is matches either.
func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	var kind error
	switch {
	case errors.Is(err, cursor.ErrDimension):
		kind = ErrDimension
	case errors.Is(err, index.ErrInvalidDimension):
		kind = ErrInvalidDimension
	case errors.Is(err, index.ErrInvalidPosition),
		errors.Is(err, arraystore.ErrOutOfRange):
		kind = ErrInvalidPosition
	case errors.Is(err, selection.ErrInvalidLength):
		kind = ErrInvalidLength
	case errors.Is(err, selection.ErrEmptyStack):
		kind = ErrEmptyStack
	case errors.Is(err, progress.ErrInvalidCount),
		errors.Is(err, arraystore.ErrInvalidRequest):
		kind = ErrInvalidArgument
	case errors.Is(err, arraystore.ErrNotFound):
		kind = ErrNotFound
	default:
		return err
	}
	return &Error{Kind: kind, Err: err}
}

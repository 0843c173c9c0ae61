package index

import "errors"

var (
	// ErrInvalidDimension is returned when a source node has an unexpected
	// shape or more records than a 32-bit count can address.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInvalidPosition is returned for lookups past the last record.
	ErrInvalidPosition = errors.New("invalid position")
)

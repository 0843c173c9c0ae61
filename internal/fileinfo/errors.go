package fileinfo

import (
	"fmt"

	"github.com/hupe1980/seqgo/internal/index"
)

// DimensionError reports a node whose shape does not match the dataset.
type DimensionError struct {
	Name string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("invalid dimension of '%s'", e.Name)
}

// Unwrap returns index.ErrInvalidDimension.
func (e *DimensionError) Unwrap() error { return index.ErrInvalidDimension }

package arraystore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a required node does not exist.
	ErrNotFound = errors.New("arraystore: node not found")
	// ErrTypeMismatch is returned when values cannot be converted to the requested type.
	ErrTypeMismatch = errors.New("arraystore: type mismatch")
	// ErrOutOfRange is returned when a request addresses elements outside the node.
	ErrOutOfRange = errors.New("arraystore: request out of range")
	// ErrInvalidRequest is returned when a request is malformed.
	ErrInvalidRequest = errors.New("arraystore: invalid request")
	// ErrClosed is returned by operations on a closed container.
	ErrClosed = errors.New("arraystore: container closed")
)

// Root is an opened dataset.
type Root interface {
	// ID identifies the dataset instance. Two roots with the same ID serve
	// identical content.
	ID() string
	// OpenNode resolves path. When the node is absent it returns ErrNotFound
	// if mustExist is set, and (nil, nil) otherwise.
	OpenNode(ctx context.Context, path string, mustExist bool) (Node, error)
}

// Node is an n-dimensional typed array.
type Node interface {
	Path() string
	DType() DType
	Rank() int
	// Dims returns the shape, slowest-varying dimension first.
	Dims() []int32
	TotalCount() int64
	// Read returns the elements addressed by req converted to target.
	Read(ctx context.Context, req Request, target DType) (*Buffer, error)
	// Iterator starts a linear scan over all elements in storage order.
	Iterator() Iterator
}

// Iterator streams the flattened elements of a node.
type Iterator interface {
	// ReadChunk returns up to max elements. It returns io.EOF once all
	// elements have been delivered.
	ReadChunk(ctx context.Context, max int, target DType) (*Buffer, error)
}

// Request addresses a subset of a node.
//
// Start and Count select a hyperslab; nil means the whole extent of every
// dimension. Selection then narrows each dimension of the hyperslab with a
// boolean mask whose length equals that dimension's count. A nil entry (or a
// nil Selection) keeps the whole dimension.
type Request struct {
	Start     []int32
	Count     []int32
	Selection [][]bool
}

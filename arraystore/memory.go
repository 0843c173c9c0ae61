package arraystore

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/seqgo/internal/conv"
)

// array is a fully materialized node.
type array struct {
	path   string
	dtype  DType
	dims   []int32
	values any
}

func newArray(path string, dims []int32, values any) (*array, error) {
	values = normalizeValues(values)
	dt, n, err := valuesInfo(values)
	if err != nil {
		return nil, err
	}
	if dims == nil {
		d, err := conv.IntToInt32(n)
		if err != nil {
			return nil, err
		}
		dims = []int32{d}
	}
	total := int64(1)
	for _, d := range dims {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension in %v", ErrInvalidRequest, dims)
		}
		total *= int64(d)
	}
	if total != int64(n) {
		return nil, fmt.Errorf("%w: %s has %d values, dims %v need %d", ErrInvalidRequest, path, n, dims, total)
	}
	return &array{path: path, dtype: dt, dims: slices.Clone(dims), values: values}, nil
}

func (a *array) Path() string { return a.path }
func (a *array) DType() DType { return a.dtype }
func (a *array) Rank() int { return len(a.dims) }
func (a *array) Dims() []int32 { return slices.Clone(a.dims) }
func (a *array) Iterator() Iterator { return &arrayIterator{a: a} }

func (a *array) TotalCount() int64 {
	n := int64(1)
	for _, d := range a.dims {
		n *= int64(d)
	}
	return n
}

func (a *array) Read(ctx context.Context, req Request, target DType) (*Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	coords, err := plan(a.dims, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.path, err)
	}
	buf, err := toBuffer(gatherValues(a.values, a.dims, coords), target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.path, err)
	}
	buf.Dims = shapeOf(coords)
	return buf, nil
}

type arrayIterator struct {
	a   *array
	pos int
}

func (it *arrayIterator) ReadChunk(ctx context.Context, max int, target DType) (*Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	total := int(it.a.TotalCount())
	n := total - it.pos
	if n <= 0 {
		return nil, io.EOF
	}
	if max > 0 && n > max {
		n = max
	}
	buf, err := toBuffer(sliceValues(it.a.values, it.pos, it.pos+n), target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", it.a.path, err)
	}
	it.pos += n
	return buf, nil
}

// MemoryRoot is a Root whose nodes live in process memory.
// It is safe for concurrent use.
type MemoryRoot struct {
	id    string
	mu    sync.RWMutex
	nodes map[string]*array
}

// NewMemoryRoot creates an empty in-memory dataset with a fresh identity.
func NewMemoryRoot() *MemoryRoot {
	return &MemoryRoot{
		id:    uuid.NewString(),
		nodes: make(map[string]*array),
	}
}

// ID implements Root.
func (r *MemoryRoot) ID() string { return r.id }

// Put stores values under path. values must be one of []int32, []uint16,
// []uint8, []float64, []string or []bool (stored as uint8). A nil dims
// stores a vector.
func (r *MemoryRoot) Put(path string, dims []int32, values any) error {
	path = CleanPath(path)
	a, err := newArray(path, dims, values)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[path] = a
	return nil
}

// Delete removes the node at path, if present.
func (r *MemoryRoot) Delete(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.nodes, CleanPath(path))
}

// Paths returns all node paths in lexical order.
func (r *MemoryRoot) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.nodes))
	for p := range r.nodes {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// OpenNode implements Root.
func (r *MemoryRoot) OpenNode(ctx context.Context, path string, mustExist bool) (Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	a, ok := r.nodes[CleanPath(path)]
	r.mu.RUnlock()
	if !ok {
		if mustExist {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, nil
	}
	return a, nil
}

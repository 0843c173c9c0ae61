package arraystore

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/seqgo/blobstore"
	"github.com/hupe1980/seqgo/internal/checksum"
	"golang.org/x/sync/errgroup"
)

// Container is a read-only Root backed by a blob store. Node payloads are
// fetched and decoded on first access and kept until Close.
type Container struct {
	store    blobstore.BlobStore
	opts     options
	manifest *Manifest
	nodes    map[string]*lazyNode
	closed   atomic.Bool
}

// OpenContainer loads the manifest of the container stored in store.
func OpenContainer(ctx context.Context, store blobstore.BlobStore, opts ...Option) (*Container, error) {
	m, err := LoadManifest(ctx, store)
	if err != nil {
		return nil, err
	}
	c := &Container{
		store:    store,
		opts:     applyOptions(opts),
		manifest: m,
		nodes:    make(map[string]*lazyNode, len(m.Nodes)),
	}
	for _, e := range m.Nodes {
		dt, err := ParseDType(e.DType)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Path, err)
		}
		c.nodes[e.Path] = &lazyNode{c: c, entry: e, dtype: dt}
	}
	return c, nil
}

// ID implements Root.
func (c *Container) ID() string { return c.manifest.ID }

// Manifest returns the decoded manifest.
func (c *Container) Manifest() *Manifest { return c.manifest }

// Paths returns all node paths in lexical order.
func (c *Container) Paths() []string {
	out := make([]string, 0, len(c.nodes))
	for p := range c.nodes {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// OpenNode implements Root.
func (c *Container) OpenNode(ctx context.Context, path string, mustExist bool) (Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.closed.Load() {
		return nil, ErrClosed
	}
	n, ok := c.nodes[CleanPath(path)]
	if !ok {
		if mustExist {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, nil
	}
	return n, nil
}

// Prefetch loads the payloads of the given nodes concurrently. With no
// paths every node is loaded.
func (c *Container) Prefetch(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		paths = c.Paths()
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range paths {
		n, ok := c.nodes[CleanPath(p)]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		g.Go(func() error {
			_, err := n.load(gctx)
			return err
		})
	}
	return g.Wait()
}

// Close drops all loaded payloads. Nodes obtained earlier fail with ErrClosed.
func (c *Container) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	for _, n := range c.nodes {
		n.release()
	}
	return nil
}

type lazyNode struct {
	c     *Container
	entry NodeEntry
	dtype DType

	mu sync.Mutex
	a  *array
}

func (n *lazyNode) Path() string { return n.entry.Path }
func (n *lazyNode) DType() DType { return n.dtype }
func (n *lazyNode) Rank() int { return len(n.entry.Dims) }
func (n *lazyNode) Dims() []int32 { return slices.Clone(n.entry.Dims) }
func (n *lazyNode) TotalCount() int64 { return n.entry.Count() }

func (n *lazyNode) Read(ctx context.Context, req Request, target DType) (*Buffer, error) {
	a, err := n.load(ctx)
	if err != nil {
		return nil, err
	}
	return a.Read(ctx, req, target)
}

func (n *lazyNode) Iterator() Iterator {
	return &lazyIterator{n: n}
}

// load fetches, verifies and decodes the payload once.
func (n *lazyNode) load(ctx context.Context) (*array, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.c.closed.Load() {
		return nil, ErrClosed
	}
	if n.a != nil {
		return n.a, nil
	}

	rc := n.c.opts.rc
	if err := rc.AcquireWorker(ctx); err != nil {
		return nil, err
	}
	defer rc.ReleaseWorker()

	if err := rc.AcquireIO(ctx, int(n.entry.Size)); err != nil {
		return nil, err
	}
	stored, err := blobstore.ReadAll(ctx, n.c.store, n.entry.Blob)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.entry.Path, err)
	}
	if err := checksum.Verify(stored, n.entry.Checksum); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrChecksumMismatch, n.entry.Path, err)
	}
	raw, err := decompressPayload(stored, n.c.manifest.Compression, n.entry.RawSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.entry.Path, err)
	}
	values, err := decodeValues(raw, n.dtype, int(n.entry.Count()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.entry.Path, err)
	}
	if err := rc.AcquireMemory(n.entry.RawSize); err != nil {
		return nil, fmt.Errorf("%s: %w", n.entry.Path, err)
	}
	a, err := newArray(n.entry.Path, n.entry.Dims, values)
	if err != nil {
		rc.ReleaseMemory(n.entry.RawSize)
		return nil, err
	}
	n.a = a
	return a, nil
}

func (n *lazyNode) release() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.a != nil {
		n.c.opts.rc.ReleaseMemory(n.entry.RawSize)
		n.a = nil
	}
}

type lazyIterator struct {
	n   *lazyNode
	pos int
}

func (it *lazyIterator) ReadChunk(ctx context.Context, max int, target DType) (*Buffer, error) {
	a, err := it.n.load(ctx)
	if err != nil {
		return nil, err
	}
	inner := &arrayIterator{a: a, pos: it.pos}
	buf, err := inner.ReadChunk(ctx, max, target)
	if err != nil {
		return nil, err
	}
	it.pos = inner.pos
	return buf, nil
}

var _ io.Closer = (*Container)(nil)

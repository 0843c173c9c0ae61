package arraystore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/seqgo/blobstore"
	"github.com/hupe1980/seqgo/internal/checksum"
)

// Writer builds a container in a blob store. Nodes are written as they are
// added; the container becomes readable once Commit stores the manifest.
type Writer struct {
	store blobstore.BlobStore
	opts  options

	mu        sync.Mutex
	entries   map[string]NodeEntry
	next      int
	committed bool
}

// NewWriter creates a Writer targeting store.
func NewWriter(store blobstore.BlobStore, opts ...Option) *Writer {
	return &Writer{
		store:   store,
		opts:    applyOptions(opts),
		entries: make(map[string]NodeEntry),
	}
}

// WriteNode stores values under path. dims and values follow MemoryRoot.Put.
func (w *Writer) WriteNode(ctx context.Context, path string, dims []int32, values any) error {
	path = CleanPath(path)
	a, err := newArray(path, dims, values)
	if err != nil {
		return err
	}
	raw, err := encodeValues(a.values)
	if err != nil {
		return err
	}
	stored, err := compressPayload(raw, w.opts.compression, w.opts.blockSize)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	w.mu.Lock()
	if w.committed {
		w.mu.Unlock()
		return ErrClosed
	}
	if _, ok := w.entries[path]; ok {
		w.mu.Unlock()
		return fmt.Errorf("%w: duplicate node %s", ErrInvalidRequest, path)
	}
	w.next++
	blob := fmt.Sprintf("node-%05d.blk", w.next)
	w.mu.Unlock()

	if err := w.store.Put(ctx, blob, stored); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries[path] = NodeEntry{
		Path:     path,
		DType:    a.dtype.String(),
		Dims:     a.dims,
		Blob:     blob,
		Size:     int64(len(stored)),
		RawSize:  int64(len(raw)),
		Checksum: checksum.Of(stored),
	}
	return nil
}

// CopyFrom writes every node of src.
func (w *Writer) CopyFrom(ctx context.Context, src *MemoryRoot) error {
	for _, p := range src.Paths() {
		n, err := src.OpenNode(ctx, p, true)
		if err != nil {
			return err
		}
		a := n.(*array)
		if err := w.WriteNode(ctx, a.path, a.dims, a.values); err != nil {
			return err
		}
	}
	return nil
}

// Commit writes the manifest and returns the container ID. The Writer
// cannot be used afterwards.
func (w *Writer) Commit(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.committed {
		return "", ErrClosed
	}

	m := &Manifest{
		Version:     CurrentVersion,
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Compression: w.opts.compression,
		Nodes:       make([]NodeEntry, 0, len(w.entries)),
	}
	for _, e := range w.entries {
		m.Nodes = append(m.Nodes, e)
	}
	slices.SortFunc(m.Nodes, func(a, b NodeEntry) int {
		return cmp.Compare(a.Path, b.Path)
	})

	data, err := encodeManifest(w.opts.codec, m)
	if err != nil {
		return "", err
	}
	if err := w.store.Put(ctx, ManifestFileName, data); err != nil {
		return "", err
	}
	w.committed = true
	return m.ID, nil
}

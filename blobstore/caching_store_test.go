package blobstore

import (
	"bytes"
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/seqgo/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBlob struct {
	data      []byte
	reads     atomic.Int64
	readBytes atomic.Int64
}

func (m *countingBlob) Close() error {
	return nil
}

func (m *countingBlob) Size() int64 {
	return int64(len(m.data))
}

func (m *countingBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	m.reads.Add(1)
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	m.readBytes.Add(int64(n))
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *countingBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.data[off : off+length])), nil
}

type countingStore struct {
	*MemoryStore
	blobs map[string]*countingBlob
}

func (m *countingStore) Open(_ context.Context, name string) (Blob, error) {
	if b, ok := m.blobs[name]; ok {
		return b, nil
	}
	return nil, ErrNotFound
}

func TestCachingStore_ReadAt(t *testing.T) {
	ctx := t.Context()
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i % 255)
	}
	inner := &countingStore{
		MemoryStore: NewMemoryStore(),
		blobs:       map[string]*countingBlob{"test": {data: data}},
	}

	store := NewCachingStore(inner, cache.NewLRUBlockCache(1<<20, nil), 256)

	blob, err := store.Open(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, int64(1024), blob.Size())

	buf := make([]byte, 100)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, data[:100], buf)

	mb := inner.blobs["test"]
	assert.Equal(t, int64(1), mb.reads.Load())
	assert.Equal(t, int64(256), mb.readBytes.Load())

	// Same range again is served from the cache.
	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), mb.reads.Load())

	// Spans block 0 (cached) and block 1 (missing).
	buf2 := make([]byte, 100)
	n, err = blob.ReadAt(ctx, buf2, 200)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, data[200:300], buf2)
	assert.Equal(t, int64(2), mb.reads.Load())
	assert.Equal(t, int64(512), mb.readBytes.Load())

	// Blocks 2 and 3 are fetched by a single coalesced request.
	buf3 := make([]byte, 512)
	n, err = blob.ReadAt(ctx, buf3, 512)
	require.NoError(t, err)
	assert.Equal(t, 512, n)
	assert.Equal(t, data[512:], buf3)
	assert.Equal(t, int64(3), mb.reads.Load())

	rc, err := blob.ReadRange(ctx, 1000, 100)
	require.NoError(t, err)
	tail, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data[1000:], tail)
	assert.Equal(t, int64(3), mb.reads.Load())
}

func TestCachingStore_SmallBlob(t *testing.T) {
	ctx := t.Context()
	data := []byte("hello")
	inner := &countingStore{
		MemoryStore: NewMemoryStore(),
		blobs:       map[string]*countingBlob{"small": {data: data}},
	}
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1024, nil), 256)

	blob, err := store.Open(ctx, "small")
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := blob.ReadAt(ctx, buf, 0)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 5, n)
	assert.Equal(t, data, buf[:n])

	_, err = blob.ReadAt(ctx, buf, 5)
	assert.ErrorIs(t, err, io.EOF)
}

func TestCachingStore_PutInvalidates(t *testing.T) {
	ctx := t.Context()
	c := cache.NewLRUBlockCache(1<<20, nil)
	store := NewCachingStore(NewMemoryStore(), c, 4)

	require.NoError(t, store.Put(ctx, "node", []byte("aaaaaaaa")))
	got, err := ReadAll(ctx, store, "node")
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaa", string(got))

	require.NoError(t, store.Put(ctx, "node", []byte("bbbbbbbb")))
	got, err = ReadAll(ctx, store, "node")
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbb", string(got))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"node"}, names)

	require.NoError(t, store.Delete(ctx, "node"))
	_, err = store.Open(ctx, "node")
	assert.ErrorIs(t, err, ErrNotFound)
}

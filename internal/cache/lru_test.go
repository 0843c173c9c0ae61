package cache

import (
	"testing"

	"github.com/hupe1980/seqgo/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blobKey(path string, off uint64) CacheKey {
	return CacheKey{Kind: CacheKindBlob, Path: path, Offset: off}
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := t.Context()
	c := NewLRUBlockCache(30, nil)

	c.Set(ctx, blobKey("a", 0), make([]byte, 10))
	c.Set(ctx, blobKey("a", 1), make([]byte, 10))
	c.Set(ctx, blobKey("a", 2), make([]byte, 10))

	// Touch block 0 so block 1 becomes the eviction candidate.
	_, ok := c.Get(ctx, blobKey("a", 0))
	require.True(t, ok)

	c.Set(ctx, blobKey("a", 3), make([]byte, 10))

	_, ok = c.Get(ctx, blobKey("a", 1))
	assert.False(t, ok)
	_, ok = c.Get(ctx, blobKey("a", 0))
	assert.True(t, ok)
	assert.Equal(t, int64(30), c.Size())
}

func TestLRU_EdgeCases(t *testing.T) {
	ctx := t.Context()
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRUBlockCache(50, rc)
	k := blobKey("x", 1)

	c.Set(ctx, k, make([]byte, 60))
	_, ok := c.Get(ctx, k)
	assert.False(t, ok, "item larger than capacity must not be cached")

	c.Set(ctx, k, make([]byte, 10))
	assert.Equal(t, int64(10), c.Size())

	c.Set(ctx, k, make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())

	c.Set(ctx, k, make([]byte, 5))
	assert.Equal(t, int64(5), c.Size())
	assert.Equal(t, int64(5), rc.MemoryUsage())

	rc2 := resource.NewController(resource.Config{MemoryLimitBytes: 10})
	c2 := NewLRUBlockCache(50, rc2)
	c2.Set(ctx, k, make([]byte, 8))
	c2.Set(ctx, k, make([]byte, 12))

	val, ok := c2.Get(ctx, k)
	require.True(t, ok)
	assert.Len(t, val, 8, "growth refused by the controller keeps the old value")
}

func TestLRU_Stats(t *testing.T) {
	ctx := t.Context()
	c := NewLRUBlockCache(100, nil)
	c.Set(ctx, blobKey("a", 1), []byte{1})
	c.Get(ctx, blobKey("a", 1))
	c.Get(ctx, blobKey("b", 2))

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_InvalidateAndClose(t *testing.T) {
	ctx := t.Context()
	rc := resource.NewController(resource.Config{})
	c := NewLRUBlockCache(100, rc)
	c.Set(ctx, blobKey("a", 1), []byte("a"))
	c.Set(ctx, blobKey("a", 2), []byte("b"))
	c.Set(ctx, blobKey("b", 1), []byte("c"))

	c.Invalidate(func(k CacheKey) bool { return k.Path == "a" })

	_, ok := c.Get(ctx, blobKey("a", 1))
	assert.False(t, ok)
	_, ok = c.Get(ctx, blobKey("b", 1))
	assert.True(t, ok)

	require.NoError(t, c.Close())
	assert.Zero(t, c.Size())
	assert.Zero(t, rc.MemoryUsage())
}

package fileinfo

import (
	"testing"
	"time"

	"github.com/hupe1980/seqgo/arraystore"
	"github.com/hupe1980/seqgo/internal/index"
	"github.com/hupe1980/seqgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	f, err := New(t.Context(), testutil.Small())
	require.NoError(t, err)

	assert.Equal(t, 3, f.SampleCount())
	assert.Equal(t, 5, f.VariantCount())
	assert.Equal(t, 2, f.Ploidy())
	assert.Equal(t, 3, f.SelectedSampleCount())
	assert.Equal(t, 5, f.SelectedVariantCount())
	assert.Equal(t, 1, f.Stack().Depth())
}

func TestNew_NoGenotype(t *testing.T) {
	root := arraystore.NewMemoryRoot()
	require.NoError(t, root.Put("sample.id", nil, []string{"a"}))
	require.NoError(t, root.Put("variant.id", nil, []int32{1, 2}))

	f, err := New(t.Context(), root)
	require.NoError(t, err)
	assert.Equal(t, -1, f.Ploidy())
}

func TestNew_MissingSampleID(t *testing.T) {
	root := arraystore.NewMemoryRoot()
	require.NoError(t, root.Put("variant.id", nil, []int32{1}))

	_, err := New(t.Context(), root)
	assert.ErrorIs(t, err, arraystore.ErrNotFound)
}

func TestResetRoot(t *testing.T) {
	ctx := t.Context()
	root := testutil.Small()
	f, err := New(ctx, root)
	require.NoError(t, err)

	require.NoError(t, f.Stack().SetVariant([]bool{true, false, true, false, true}, false))
	_, err = f.Position(ctx)
	require.NoError(t, err)

	changed, err := f.ResetRoot(ctx, root)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 3, f.SelectedVariantCount())

	other := testutil.Small()
	changed, err = f.ResetRoot(ctx, other)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Same(t, other, f.Root())
	assert.Equal(t, 5, f.SelectedVariantCount())
}

func TestPosition(t *testing.T) {
	ctx := t.Context()
	f, err := New(ctx, testutil.Small())
	require.NoError(t, err)

	pos, err := f.Position(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int32{100, 200, 150, 150, 300}, pos)
}

func TestPosition_InvalidDimension(t *testing.T) {
	ctx := t.Context()
	root := testutil.Small()
	require.NoError(t, root.Put("position", nil, []int32{1, 2}))
	f, err := New(ctx, root)
	require.NoError(t, err)

	_, err = f.Position(ctx)
	var de *DimensionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "position", de.Name)
	assert.ErrorIs(t, err, index.ErrInvalidDimension)
	assert.EqualError(t, err, "invalid dimension of 'position'")
}

func TestChromosome(t *testing.T) {
	ctx := t.Context()
	var built []string
	f, err := New(ctx, testutil.Small(), WithBuildHook(func(name string, _ int, _ time.Duration) {
		built = append(built, name)
	}))
	require.NoError(t, err)

	ci, err := f.Chromosome(ctx)
	require.NoError(t, err)
	assert.Equal(t, []index.Range{{Start: 0, Length: 2}}, ci.Ranges("1"))
	assert.Equal(t, []index.Range{{Start: 2, Length: 3}}, ci.Ranges("2"))

	again, err := f.Chromosome(ctx)
	require.NoError(t, err)
	assert.Same(t, ci, again)
	assert.Equal(t, []string{"chromosome"}, built)
}

func TestGenoIndex(t *testing.T) {
	ctx := t.Context()
	runs := map[string]int{}
	f, err := New(ctx, testutil.Small(), WithBuildHook(func(name string, n int, _ time.Duration) {
		runs[name] = n
	}))
	require.NoError(t, err)

	gi, err := f.GenoIndex(ctx)
	require.NoError(t, err)
	start, rows, err := gi.Lookup(3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), start)
	assert.Equal(t, uint8(1), rows)

	// five variants of one row each collapse into a single run
	assert.Equal(t, int64(5), gi.Len())
	assert.Equal(t, 1, gi.Runs())
	assert.Equal(t, map[string]int{GenotypeIndexPath: 1}, runs)
}

func TestVarIndex(t *testing.T) {
	ctx := t.Context()
	f, err := New(ctx, testutil.Small())
	require.NoError(t, err)

	rl, err := f.VarIndex(ctx, "annotation/info/@AF")
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 1, 2, 1, 0}, rl.Expand())

	cached, err := f.VarIndex(ctx, "annotation/info/@AF")
	require.NoError(t, err)
	assert.Same(t, rl, cached)

	ones, err := f.VarIndex(ctx, "annotation/info/@DP")
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 1, 1, 1, 1}, ones.Expand())
}

func TestVarIndex_InvalidDimension(t *testing.T) {
	ctx := t.Context()
	root := testutil.Small()
	require.NoError(t, root.Put("annotation/info/@AF", nil, []int32{1, 1, 2}))
	f, err := New(ctx, root)
	require.NoError(t, err)

	_, err = f.VarIndex(ctx, "annotation/info/@AF")
	var de *DimensionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "annotation/info/@AF", de.Name)
	assert.ErrorIs(t, err, index.ErrInvalidDimension)
}

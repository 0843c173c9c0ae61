package cursor

import (
	"testing"

	"github.com/hupe1980/seqgo/arraystore"
	"github.com/hupe1980/seqgo/internal/fileinfo"
	"github.com/hupe1980/seqgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFile(t *testing.T, root arraystore.Root) *fileinfo.FileContext {
	t.Helper()
	f, err := fileinfo.New(t.Context(), root)
	require.NoError(t, err)
	return f
}

// collect reads every record of c.
func collect(t *testing.T, c *Cursor) []*arraystore.Buffer {
	t.Helper()
	var out []*arraystore.Buffer
	for ok := c.Reset(); ok; ok = c.Next() {
		buf, err := c.Read(t.Context())
		require.NoError(t, err)
		out = append(out, buf)
	}
	return out
}

func TestCursor_StateMachine(t *testing.T) {
	ctx := t.Context()
	f := newFile(t, testutil.Small())
	require.NoError(t, f.Stack().SetVariant([]bool{true, false, true, false, true}, false))

	c, err := New(ctx, f, Basic, "variant.id")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, -1, c.Index())

	_, err = c.Read(ctx)
	assert.ErrorIs(t, err, ErrNotPositioned)

	var visited []int
	var ids []int32
	for ok := c.Next(); ok; ok = c.Next() {
		visited = append(visited, c.Index())
		buf, err := c.Read(ctx)
		require.NoError(t, err)
		ids = append(ids, buf.Int32...)
	}
	assert.Equal(t, []int{0, 2, 4}, visited)
	assert.Equal(t, []int32{1, 3, 5}, ids)

	assert.False(t, c.Next())
	assert.Equal(t, -1, c.Index())
	_, err = c.Read(ctx)
	assert.ErrorIs(t, err, ErrNotPositioned)

	require.True(t, c.Reset())
	assert.Equal(t, 0, c.Index())
}

func TestCursor_EmptySelection(t *testing.T) {
	ctx := t.Context()
	f := newFile(t, testutil.Small())
	require.NoError(t, f.Stack().SetVariant(make([]bool, 5), false))

	c, err := New(ctx, f, Position, "")
	require.NoError(t, err)
	assert.False(t, c.Reset())
	assert.False(t, c.Next())
}

func TestCursor_Basic_InvalidDimension(t *testing.T) {
	f := newFile(t, testutil.Small())
	_, err := New(t.Context(), f, Basic, "sample.id")
	var de *fileinfo.DimensionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "sample.id", de.Name)
}

func TestCursor_UnknownKind(t *testing.T) {
	f := newFile(t, testutil.Small())
	_, err := New(t.Context(), f, Kind(99), "")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestCursor_Position(t *testing.T) {
	f := newFile(t, testutil.Small())
	c, err := New(t.Context(), f, Position, "")
	require.NoError(t, err)

	var got []int32
	for _, b := range collect(t, c) {
		got = append(got, b.Int32...)
	}
	assert.Equal(t, []int32{100, 200, 150, 150, 300}, got)
}

func TestCursor_ChromosomeDedup(t *testing.T) {
	f := newFile(t, testutil.Small())
	c, err := New(t.Context(), f, Chromosome, "")
	require.NoError(t, err)

	bufs := collect(t, c)
	require.Len(t, bufs, 5)
	assert.Equal(t, []string{"1"}, bufs[0].String)
	assert.Same(t, bufs[0], bufs[1])
	assert.NotSame(t, bufs[1], bufs[2])
	assert.Same(t, bufs[2], bufs[4])
	assert.Equal(t, []string{"2"}, bufs[4].String)
}

func TestCursor_Genotype(t *testing.T) {
	ctx := t.Context()
	f := newFile(t, testutil.Small())
	c, err := New(ctx, f, Genotype, "")
	require.NoError(t, err)

	bufs := collect(t, c)
	require.Len(t, bufs, 5)
	assert.Equal(t, []int{3, 2}, bufs[1].Dims)
	assert.Equal(t, []uint8{0, 1, Missing, Missing, 1, 0}, bufs[1].UInt8)
	assert.Equal(t, []uint8{1, 2, 2, 2, 0, Missing}, bufs[4].UInt8)

	require.NoError(t, f.Stack().SetSample([]bool{true, false, true}, false))
	c, err = New(ctx, f, Genotype, "")
	require.NoError(t, err)
	require.True(t, c.Reset())
	buf, err := c.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, buf.Dims)
	assert.Equal(t, []uint8{0, 0, 1, 1}, buf.UInt8)
}

func TestCursor_GenotypeMultiRow(t *testing.T) {
	ctx := t.Context()
	root := arraystore.NewMemoryRoot()
	require.NoError(t, root.Put("sample.id", nil, []string{"S1"}))
	require.NoError(t, root.Put("variant.id", nil, []int32{1, 2}))
	require.NoError(t, root.Put("genotype/data", []int32{3, 1, 2}, []uint8{
		1, 3,
		0, 3,
		2, 0,
	}))
	require.NoError(t, root.Put("genotype/@data", nil, []uint16{2, 1}))

	f := newFile(t, root)
	c, err := New(ctx, f, Genotype, "")
	require.NoError(t, err)

	bufs := collect(t, c)
	require.Len(t, bufs, 2)
	assert.Equal(t, []uint8{1, Missing}, bufs[0].UInt8)
	assert.Equal(t, []uint8{2, 0}, bufs[1].UInt8)
}

func TestCursor_GenotypeShapeError(t *testing.T) {
	root := testutil.Small()
	require.NoError(t, root.Put("genotype/data", []int32{5, 2, 2}, make([]uint8, 20)))

	f := newFile(t, root)
	_, err := New(t.Context(), f, Genotype, "")
	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, ErrDimension)
	assert.Equal(t, []int32{5, 2, 2}, se.Dims)
}

func TestCursor_Dosage(t *testing.T) {
	f := newFile(t, testutil.Small())
	c, err := New(t.Context(), f, Dosage, "")
	require.NoError(t, err)

	bufs := collect(t, c)
	require.Len(t, bufs, 5)
	assert.Equal(t, []uint8{2, 1, 0}, bufs[0].UInt8)
	assert.Equal(t, []uint8{1, Missing, 1}, bufs[1].UInt8)
	assert.Equal(t, []uint8{2, 2, 2}, bufs[3].UInt8)
	assert.Equal(t, []uint8{0, 0, Missing}, bufs[4].UInt8)
	assert.Equal(t, []int{3}, bufs[0].Dims)
}

func TestCursor_Phase(t *testing.T) {
	ctx := t.Context()
	f := newFile(t, testutil.Small())
	require.NoError(t, f.Stack().SetSample([]bool{false, true, true}, false))

	c, err := New(ctx, f, Phase, "")
	require.NoError(t, err)
	bufs := collect(t, c)
	require.Len(t, bufs, 5)
	assert.Equal(t, []uint8{1, 0}, bufs[0].UInt8)
	assert.Equal(t, []uint8{0, 1}, bufs[1].UInt8)
	assert.Equal(t, []int{2}, bufs[0].Dims)
}

func TestCursor_Phase3D(t *testing.T) {
	root := testutil.Small()
	require.NoError(t, root.Put("phase/data", []int32{5, 3, 2}, make([]uint8, 30)))
	f := newFile(t, root)

	c, err := New(t.Context(), f, Phase, "")
	require.NoError(t, err)
	require.True(t, c.Reset())
	buf, err := c.Read(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, buf.Dims)
}

func TestCursor_InfoRagged(t *testing.T) {
	f := newFile(t, testutil.Small())
	c, err := New(t.Context(), f, Info, "annotation/info/AF")
	require.NoError(t, err)

	bufs := collect(t, c)
	require.Len(t, bufs, 5)
	assert.Equal(t, []float64{0.1}, bufs[0].Float64)
	assert.Equal(t, []float64{0.3, 0.35}, bufs[2].Float64)
	assert.Zero(t, bufs[4].Len())
}

func TestCursor_InfoPerVariant(t *testing.T) {
	ctx := t.Context()
	f := newFile(t, testutil.Small())
	require.NoError(t, f.Stack().SetVariant([]bool{false, false, true, false, false}, false))

	c, err := New(ctx, f, Info, "annotation/info/DP")
	require.NoError(t, err)
	bufs := collect(t, c)
	require.Len(t, bufs, 1)
	assert.Equal(t, []int32{30}, bufs[0].Int32)
}

func TestCursor_Format(t *testing.T) {
	ctx := t.Context()
	f := newFile(t, testutil.Small())
	c, err := New(ctx, f, Format, "annotation/format/AD")
	require.NoError(t, err)

	bufs := collect(t, c)
	require.Len(t, bufs, 5)
	assert.Equal(t, []int{2, 3}, bufs[0].Dims)
	assert.Equal(t, []int32{0, 1, 2, 10, 11, 12}, bufs[0].Int32)
	assert.Equal(t, []int32{20, 21, 22}, bufs[1].Int32)

	require.NoError(t, f.Stack().SetSample([]bool{false, true, true}, false))
	c, err = New(ctx, f, Format, "annotation/format/AD")
	require.NoError(t, err)
	require.True(t, c.Reset())
	buf, err := c.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, buf.Dims)
	assert.Equal(t, []int32{1, 2, 11, 12}, buf.Int32)
}

func TestCursor_NumAllele(t *testing.T) {
	f := newFile(t, testutil.Small())
	c, err := New(t.Context(), f, NumAllele, "")
	require.NoError(t, err)

	var got []int32
	for _, b := range collect(t, c) {
		got = append(got, b.Int32...)
	}
	assert.Equal(t, []int32{2, 2, 3, 2, 1}, got)
}

func TestCursor_ReadInto(t *testing.T) {
	ctx := t.Context()
	f := newFile(t, testutil.Small())
	c, err := New(ctx, f, Basic, "annotation/qual")
	require.NoError(t, err)

	dst := &arraystore.Buffer{}
	for ok := c.Reset(); ok; ok = c.Next() {
		require.NoError(t, c.ReadInto(ctx, dst))
	}
	assert.Equal(t, arraystore.Float64, dst.DType)
	assert.Equal(t, []float64{30, 40, 50, 60, 70}, dst.Float64)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "genotype", Genotype.String())
	assert.Equal(t, "num_allele", NumAllele.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

package arraystore

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoot_PutAndOpen(t *testing.T) {
	ctx := t.Context()
	root := NewMemoryRoot()
	require.NotEmpty(t, root.ID())

	require.NoError(t, root.Put("/sample.id/", nil, []string{"s1", "s2", "s3"}))
	require.NoError(t, root.Put("genotype/data", []int32{2, 3, 2}, make([]uint8, 12)))

	assert.Equal(t, []string{"genotype/data", "sample.id"}, root.Paths())

	n, err := root.OpenNode(ctx, "sample.id", true)
	require.NoError(t, err)
	assert.Equal(t, String, n.DType())
	assert.Equal(t, 1, n.Rank())
	assert.Equal(t, []int32{3}, n.Dims())

	n, err = root.OpenNode(ctx, "genotype//data", true)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n.TotalCount())

	n, err = root.OpenNode(ctx, "missing", false)
	require.NoError(t, err)
	assert.Nil(t, n)

	_, err = root.OpenNode(ctx, "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)

	root.Delete("sample.id")
	assert.Equal(t, []string{"genotype/data"}, root.Paths())
}

func TestMemoryRoot_PutValidates(t *testing.T) {
	root := NewMemoryRoot()

	err := root.Put("x", []int32{2, 2}, []int32{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	err = root.Put("x", []int32{-1}, []int32{})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	err = root.Put("x", nil, []int64{1})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestArray_ReadHyperslabAndSelection(t *testing.T) {
	ctx := t.Context()
	root := NewMemoryRoot()
	// 3 x 4 matrix with values r*10+c.
	vals := make([]int32, 0, 12)
	for r := range 3 {
		for c := range 4 {
			vals = append(vals, int32(r*10+c))
		}
	}
	require.NoError(t, root.Put("m", []int32{3, 4}, vals))
	n, err := root.OpenNode(ctx, "m", true)
	require.NoError(t, err)

	buf, err := n.Read(ctx, Request{}, Custom)
	require.NoError(t, err)
	assert.Equal(t, Int32, buf.DType)
	assert.Equal(t, vals, buf.Int32)
	assert.Equal(t, []int{3, 4}, buf.Dims)

	buf, err = n.Read(ctx, Request{Start: []int32{1, 1}, Count: []int32{2, 2}}, Int32)
	require.NoError(t, err)
	assert.Equal(t, []int32{11, 12, 21, 22}, buf.Int32)
	assert.Equal(t, []int{2, 2}, buf.Dims)

	buf, err = n.Read(ctx, Request{
		Start:     []int32{0, 1},
		Count:     []int32{3, 3},
		Selection: [][]bool{{true, false, true}, {true, false, true}},
	}, Float64)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 21, 23}, buf.Float64)

	buf, err = n.Read(ctx, Request{Selection: [][]bool{nil, {false, false, false, false}}}, UInt8)
	require.NoError(t, err)
	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, []int{3, 0}, buf.Dims)
}

func TestArray_ReadErrors(t *testing.T) {
	ctx := t.Context()
	root := NewMemoryRoot()
	require.NoError(t, root.Put("v", nil, []uint16{1, 2, 3}))
	require.NoError(t, root.Put("s", nil, []string{"a"}))

	v, err := root.OpenNode(ctx, "v", true)
	require.NoError(t, err)

	_, err = v.Read(ctx, Request{Start: []int32{2}, Count: []int32{2}}, Custom)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = v.Read(ctx, Request{Start: []int32{0, 0}}, Custom)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = v.Read(ctx, Request{Selection: [][]bool{{true}}}, Custom)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = v.Read(ctx, Request{}, String)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	s, err := root.OpenNode(ctx, "s", true)
	require.NoError(t, err)
	_, err = s.Read(ctx, Request{}, Int32)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestArray_Iterator(t *testing.T) {
	ctx := t.Context()
	root := NewMemoryRoot()
	require.NoError(t, root.Put("flags", nil, []bool{true, false, true, true, false}))

	n, err := root.OpenNode(ctx, "flags", true)
	require.NoError(t, err)
	assert.Equal(t, UInt8, n.DType())

	it := n.Iterator()
	var got []int32
	for {
		buf, err := it.ReadChunk(ctx, 2, Int32)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.LessOrEqual(t, buf.Len(), 2)
		got = append(got, buf.Int32...)
	}
	assert.Equal(t, []int32{1, 0, 1, 1, 0}, got)
}

func TestBuffer_AppendAndSlice(t *testing.T) {
	var b Buffer
	require.NoError(t, b.Append(&Buffer{DType: String, String: []string{"a", "b"}}))
	require.NoError(t, b.Append(&Buffer{DType: String, String: []string{"c"}}))
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []string{"b", "c"}, b.Slice(1, 3).Values())

	err := b.Append(&Buffer{DType: Int32, Int32: []int32{1}})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	f := NewBuffer(UInt16, 4)
	f.UInt16 = append(f.UInt16, 7)
	assert.InDelta(t, 7.0, f.Float64At(0), 0)
}

func TestPaths(t *testing.T) {
	assert.Empty(t, SplitPath(""))
	assert.Equal(t, []string{"annotation", "info", "DP"}, SplitPath("/annotation//info/DP/"))
	assert.Equal(t, "annotation/format/DP/data", Join("annotation/format", "DP", "data"))
	assert.Equal(t, "DP", Base("annotation/info/DP"))
	assert.Equal(t, "", Base("/"))

	assert.Equal(t, "annotation/info/@DP", Prefixed("annotation/info/DP", '@'))
	assert.Equal(t, "genotype/@data", Prefixed("genotype/~data", '@'))
	assert.Equal(t, "@x", Prefixed("x", '@'))
	assert.Equal(t, "@x", Prefixed("~x", '@'))
}

func TestDType(t *testing.T) {
	for _, dt := range []DType{Int32, UInt16, UInt8, Float64, String} {
		parsed, err := ParseDType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, parsed)
	}
	_, err := ParseDType("complex128")
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, 0, String.Size())
	assert.False(t, String.IsNumeric())
	assert.True(t, UInt8.IsNumeric())
}

package seqgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/seqgo/arraystore"
	"github.com/hupe1980/seqgo/testutil"
)

func getBuffer(t *testing.T, r *Registry, h Handle, name string) *arraystore.Buffer {
	t.Helper()
	v, err := r.GetField(t.Context(), h, name)
	require.NoError(t, err)
	buf, ok := v.(*arraystore.Buffer)
	require.True(t, ok, "%s returned %T", name, v)
	return buf
}

func TestGetField_Basic(t *testing.T) {
	r, h := openSmall(t)
	ctx := t.Context()

	assert.Equal(t, []string{"S1", "S2", "S3"}, getBuffer(t, r, h, "sample.id").String)
	assert.Equal(t, []int32{1, 2, 3, 4, 5}, getBuffer(t, r, h, "variant.id").Int32)
	assert.Equal(t, []float64{30, 40, 50, 60, 70}, getBuffer(t, r, h, "annotation/qual").Float64)

	require.NoError(t, r.SetVariantFilter(h, []bool{true, false, true, false, true}, false))
	require.NoError(t, r.SetSampleFilter(h, []bool{true, false, true}, false))

	assert.Equal(t, []string{"S1", "S3"}, getBuffer(t, r, h, "sample.id").String)
	assert.Equal(t, []int32{1, 3, 5}, getBuffer(t, r, h, "variant.id").Int32)
	assert.Equal(t, []string{"A,G", "G,A,T", "A"}, getBuffer(t, r, h, "allele").String)
	assert.Equal(t, []string{"rs1", "rs3", "rs5"}, getBuffer(t, r, h, "annotation/id").String)
	assert.Equal(t, []string{"PASS", "q10", "q10"}, getBuffer(t, r, h, "annotation/filter").String)
	assert.Equal(t, []int32{1, 1, 1}, getBuffer(t, r, h, "@genotype").Int32)
	assert.Equal(t, []int32{30, 50}, getBuffer(t, r, h, "sample.annotation/age").Int32)

	pos, err := r.GetField(ctx, h, "position")
	require.NoError(t, err)
	assert.Equal(t, []int32{100, 150, 300}, pos)

	chrom, err := r.GetField(ctx, h, "chromosome")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "2"}, chrom)

	num, err := r.GetField(ctx, h, "#num_allele")
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 3, 1}, num)
}

func TestGetField_Genotype(t *testing.T) {
	r, h := openSmall(t)
	require.NoError(t, r.SetVariantFilter(h, []bool{false, true, false, false, true}, false))
	require.NoError(t, r.SetSampleFilter(h, []bool{false, true, true}, false))

	g := getBuffer(t, r, h, "genotype")
	assert.Equal(t, []int{2, 2, 2}, g.Dims)
	assert.Equal(t, []uint8{
		Missing, Missing, 1, 0,
		2, 2, 0, Missing,
	}, g.UInt8)

	d := getBuffer(t, r, h, "#dosage")
	assert.Equal(t, []int{2, 2}, d.Dims)
	assert.Equal(t, []uint8{Missing, 1, 0, Missing}, d.UInt8)
	assert.Equal(t, d.UInt8, getBuffer(t, r, h, "$dosage").UInt8)

	p := getBuffer(t, r, h, "phase")
	assert.Equal(t, []int{2, 2}, p.Dims)
	assert.Equal(t, []uint8{0, 1, 1, 1}, p.UInt8)

	require.NoError(t, r.SetVariantFilter(h, make([]bool, 5), false))
	g = getBuffer(t, r, h, "genotype")
	assert.Equal(t, []int{0, 2, 2}, g.Dims)
	assert.Zero(t, g.Len())
}

func TestGetField_Info(t *testing.T) {
	r, h := openSmall(t)
	ctx := t.Context()

	assert.Equal(t, []int32{10, 20, 30, 40, 50}, getBuffer(t, r, h, "annotation/info/DP").Int32)

	v, err := r.GetField(ctx, h, "annotation/info/AF")
	require.NoError(t, err)
	af := v.(*Ragged)
	assert.Equal(t, []int32{1, 1, 2, 1, 0}, af.Lengths)
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.35, 0.4}, af.Data.Float64)

	require.NoError(t, r.SetVariantFilter(h, []bool{true, false, true, false, true}, false))
	v, err = r.GetField(ctx, h, "annotation/info/AF")
	require.NoError(t, err)
	af = v.(*Ragged)
	assert.Equal(t, []int32{1, 2, 0}, af.Lengths)
	assert.Equal(t, []float64{0.1, 0.3, 0.35}, af.Data.Float64)

	lens, err := r.GetField(ctx, h, "annotation/info/@AF")
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 0}, lens)

	lens, err = r.GetField(ctx, h, "annotation/info/@DP")
	require.NoError(t, err)
	assert.Nil(t, lens)

	require.NoError(t, r.SetVariantFilter(h, make([]bool, 5), false))
	v, err = r.GetField(ctx, h, "annotation/info/AF")
	require.NoError(t, err)
	af = v.(*Ragged)
	assert.Empty(t, af.Lengths)
	assert.Zero(t, af.Data.Len())
}

func TestGetField_Format(t *testing.T) {
	r, h := openSmall(t)
	ctx := t.Context()
	require.NoError(t, r.SetVariantFilter(h, []bool{true, false, true, false, true}, false))

	v, err := r.GetField(ctx, h, "annotation/format/AD")
	require.NoError(t, err)
	ad := v.(*Ragged)
	assert.Equal(t, []int32{2, 1, 1}, ad.Lengths)
	assert.Equal(t, []int{4, 3}, ad.Data.Dims)
	assert.Equal(t, []int32{0, 1, 2, 10, 11, 12, 30, 31, 32, 50, 51, 52}, ad.Data.Int32)

	require.NoError(t, r.SetSampleFilter(h, []bool{false, true, false}, false))
	v, err = r.GetField(ctx, h, "annotation/format/AD")
	require.NoError(t, err)
	ad = v.(*Ragged)
	assert.Equal(t, []int32{1, 11, 31, 51}, ad.Data.Int32)

	lens, err := r.GetField(ctx, h, "annotation/format/@AD")
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 1, 1}, lens)

	lens, err = r.GetField(ctx, h, "annotation/format/@GQ")
	require.NoError(t, err)
	assert.Nil(t, lens)
}

func TestGetField_ChromPos(t *testing.T) {
	r, h := openSmall(t)

	v, err := r.GetField(t.Context(), h, "#chrom_pos")
	require.NoError(t, err)
	assert.Equal(t, []string{"1_100", "1_200", "2_150", "2_150_1", "2_300"}, v)

	root := testutil.Small()
	require.NoError(t, root.Put("position", nil, []int32{100, 100, 100, 200, 200}))
	require.NoError(t, root.Put("chromosome", nil, []string{"1", "1", "1", "1", "1"}))
	require.NoError(t, r.Reattach(t.Context(), h, root))

	v, err = r.GetField(t.Context(), h, "$chrom_pos")
	require.NoError(t, err)
	assert.Equal(t, []string{"1_100", "1_100_1", "1_100_2", "1_200", "1_200_1"}, v)
}

func TestGetField_Errors(t *testing.T) {
	r, h := openSmall(t)
	ctx := t.Context()

	_, err := r.GetField(ctx, h, "genotype/data")
	require.ErrorIs(t, err, ErrUnknownField)
	assert.Contains(t, err.Error(), "'genotype/data' is not a standard variable name, and the standard format:\n")

	_, err = r.GetField(ctx, h, "annotation/info/~DP")
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.EqualError(t, err, "the variable name contains an invalid prefix '~'")

	_, err = r.GetField(ctx, h, "sample.annotation/@x")
	assert.EqualError(t, err, "the variable name contains an invalid prefix '@'")

	_, err = r.GetField(ctx, h, "annotation/info/NOPE")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.GetField(ctx, Handle(42), "position")
	assert.ErrorIs(t, err, ErrFileClosed)

	root := testutil.Small()
	require.NoError(t, root.Put("annotation/qual", nil, []float64{1, 2}))
	require.NoError(t, root.Put("sample.annotation/age", nil, []int32{1}))
	require.NoError(t, root.Put("genotype/data", []int32{5, 3, 3}, make([]uint8, 45)))
	require.NoError(t, r.Reattach(ctx, h, root))

	_, err = r.GetField(ctx, h, "annotation/qual")
	require.ErrorIs(t, err, ErrInvalidDimension)
	assert.EqualError(t, err, "invalid dimension of 'annotation/qual'")

	_, err = r.GetField(ctx, h, "sample.annotation/age")
	assert.ErrorIs(t, err, ErrInvalidDimension)

	// Ploidy is re-read on reattach, so a triploid layout decodes, but
	// dosage is only defined for diploid calls.
	d := getBuffer(t, r, h, "#dosage")
	for _, v := range d.UInt8 {
		assert.Equal(t, Missing, v)
	}
}

func TestGetField_Metrics(t *testing.T) {
	mc := &BasicMetricsCollector{}
	r, h := openSmall(t, WithMetricsCollector(mc))
	ctx := t.Context()

	_, err := r.GetField(ctx, h, "chromosome")
	require.NoError(t, err)
	_, err = r.GetField(ctx, h, "annotation/info/AF")
	require.NoError(t, err)
	_, err = r.GetField(ctx, h, "bogus")
	require.Error(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(3), stats.GetFieldCount)
	assert.Equal(t, int64(1), stats.GetFieldErrors)
	assert.Equal(t, int64(2), stats.IndexBuildCount)
	assert.Equal(t, int64(2+4), stats.IndexRuns)
}

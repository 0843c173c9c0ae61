package seqgo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/seqgo/arraystore"
	"github.com/hupe1980/seqgo/internal/cursor"
	"github.com/hupe1980/seqgo/internal/fileinfo"
	"github.com/hupe1980/seqgo/internal/selection"
)

// Missing marks a missing genotype call or dosage.
const Missing = cursor.Missing

// Ragged is a variable-length field: Lengths holds the number of rows of
// every selected variant and Data the rows themselves, concatenated.
type Ragged struct {
	Lengths []int32
	Data    *arraystore.Buffer
}

const unknownFieldFormat = "'%s' is not a standard variable name, and the standard format:\n" +
	"    sample.id, variant.id, position, chromosome, allele, genotype\n" +
	"    annotation/id, annotation/qual, annotation/filter\n" +
	"    annotation/info/VARIABLE_NAME, annotation/format/VARIABLE_NAME\n" +
	"    sample.annotation/VARIABLE_NAME"

// GetField reads a field over the active selection of h.
//
// The result type depends on the field:
//
//	sample.id, variant.id, allele, annotation/id|qual|filter   *arraystore.Buffer
//	position, #num_allele                                      []int32
//	chromosome, #chrom_pos                                     []string
//	genotype                                                   *arraystore.Buffer [variant][sample][ploidy] uint8
//	#dosage                                                    *arraystore.Buffer [variant][sample] uint8
//	@genotype                                                  *arraystore.Buffer int32
//	phase, sample.annotation/NAME                              *arraystore.Buffer
//	annotation/info/NAME                                       *arraystore.Buffer, or *Ragged when @NAME exists
//	annotation/format/NAME                                     *Ragged
//	annotation/info/@NAME, annotation/format/@NAME             []int32, or nil when the index is absent
//
// The '$' spelling of '#' fields is accepted too.
func (r *Registry) GetField(ctx context.Context, h Handle, name string) (any, error) {
	f, err := r.file(h)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	v, err := r.getField(ctx, f, name)
	err = translateError(err)
	r.opts.metricsCollector.RecordGetField(name, time.Since(start), err)
	r.opts.logger.WithHandle(h).LogGetField(ctx, name, err)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *Registry) getField(ctx context.Context, f *fileinfo.FileContext, name string) (any, error) {
	sel := f.Selection()

	switch name {
	case fileinfo.SampleIDPath:
		node, err := vector(ctx, f, name, f.SampleCount())
		if err != nil {
			return nil, err
		}
		return node.Read(ctx, arraystore.Request{Selection: [][]bool{maskOrNil(sel.Sample)}}, arraystore.Custom)

	case fileinfo.PositionPath:
		pos, err := f.Position(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]int32, 0, f.SelectedVariantCount())
		for _, i := range sel.Variant.Indices() {
			out = append(out, pos[i])
		}
		return out, nil

	case fileinfo.ChromosomePath:
		chrom, err := f.Chromosome(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, f.SelectedVariantCount())
		for _, i := range sel.Variant.Indices() {
			label, err := chrom.LabelAt(int64(i))
			if err != nil {
				return nil, err
			}
			out = append(out, label)
		}
		return out, nil

	case fileinfo.VariantIDPath, fileinfo.AllelePath, "annotation/id", "annotation/qual", "annotation/filter":
		node, err := vector(ctx, f, name, f.VariantCount())
		if err != nil {
			return nil, err
		}
		return node.Read(ctx, arraystore.Request{Selection: [][]bool{maskOrNil(sel.Variant)}}, arraystore.Custom)

	case "genotype":
		return readGenotypes(ctx, f, cursor.Genotype)

	case "@genotype":
		node, err := vector(ctx, f, fileinfo.GenotypeIndexPath, f.VariantCount())
		if err != nil {
			return nil, err
		}
		return node.Read(ctx, arraystore.Request{Selection: [][]bool{maskOrNil(sel.Variant)}}, arraystore.Int32)

	case "#dosage", "$dosage":
		if f.Ploidy() > 2 {
			r.opts.logger.WarnContext(ctx, "dosage is only defined for diploid genotypes; every call is missing",
				"ploidy", f.Ploidy(),
			)
		}
		return readGenotypes(ctx, f, cursor.Dosage)

	case "phase":
		node, err := f.Node(ctx, fileinfo.PhasePath, true)
		if err != nil {
			return nil, err
		}
		dims := node.Dims()
		if len(dims) < 2 || len(dims) > 3 ||
			int(dims[0]) != f.VariantCount() || int(dims[1]) != f.SampleCount() {
			return nil, &fileinfo.DimensionError{Name: name}
		}
		return node.Read(ctx, arraystore.Request{Selection: selectionFor(len(dims), maskOrNil(sel.Variant), maskOrNil(sel.Sample))}, arraystore.Custom)

	case "#chrom_pos", "$chrom_pos":
		return chromPos(ctx, f)

	case "#num_allele", "$num_allele":
		c, err := cursor.New(ctx, f, cursor.NumAllele, "")
		if err != nil {
			return nil, err
		}
		out := make([]int32, 0, c.Len())
		for ok := c.Reset(); ok; ok = c.Next() {
			buf, err := c.Read(ctx)
			if err != nil {
				return nil, err
			}
			out = append(out, buf.Int32[0])
		}
		return out, nil
	}

	switch {
	case strings.HasPrefix(name, fileinfo.InfoPrefix+"@"):
		node, err := f.Node(ctx, name, false)
		if err != nil || node == nil {
			return nil, err
		}
		rl, err := f.VarIndex(ctx, name)
		if err != nil {
			return nil, err
		}
		return rl.LengthsForSelection(sel.Variant.Bools())

	case strings.HasPrefix(name, fileinfo.InfoPrefix):
		return readInfo(ctx, f, name)

	case strings.HasPrefix(name, fileinfo.FormatPrefix+"@"):
		path := fileinfo.FormatPrefix + name[len(fileinfo.FormatPrefix)+1:] + "/@data"
		node, err := f.Node(ctx, path, false)
		if err != nil || node == nil {
			return nil, err
		}
		rl, err := f.VarIndex(ctx, path)
		if err != nil {
			return nil, err
		}
		return rl.LengthsForSelection(sel.Variant.Bools())

	case strings.HasPrefix(name, fileinfo.FormatPrefix):
		return readFormat(ctx, f, name)

	case strings.HasPrefix(name, fileinfo.SampleAnnoPrefix):
		if err := checkPrefix(name); err != nil {
			return nil, err
		}
		node, err := f.Node(ctx, name, true)
		if err != nil {
			return nil, err
		}
		dims := node.Dims()
		if len(dims) < 1 || len(dims) > 2 || int(dims[0]) != f.SampleCount() {
			return nil, &fileinfo.DimensionError{Name: name}
		}
		return node.Read(ctx, arraystore.Request{Selection: selectionFor(len(dims), maskOrNil(sel.Sample))}, arraystore.Custom)
	}

	return nil, newError(ErrUnknownField, unknownFieldFormat, name)
}

// vector opens a rank-1 node holding n values.
func vector(ctx context.Context, f *fileinfo.FileContext, path string, n int) (arraystore.Node, error) {
	node, err := f.Node(ctx, path, true)
	if err != nil {
		return nil, err
	}
	if node.Rank() != 1 || node.TotalCount() != int64(n) {
		return nil, &fileinfo.DimensionError{Name: path}
	}
	return node, nil
}

// checkPrefix rejects the reserved '~' and '@' name prefixes.
func checkPrefix(name string) error {
	if i := strings.IndexAny(name, "~@"); i >= 0 {
		return newError(ErrInvalidArgument, "the variable name contains an invalid prefix '%c'", name[i])
	}
	return nil
}

// maskOrNil returns nil when every entry of m is selected.
func maskOrNil(m *selection.Mask) []bool {
	if m.Count() == m.Len() {
		return nil
	}
	return m.Bools()
}

// selectionFor pads masks with whole-dimension entries up to rank.
func selectionFor(rank int, masks ...[]bool) [][]bool {
	out := make([][]bool, rank)
	copy(out, masks)
	return out
}

func readGenotypes(ctx context.Context, f *fileinfo.FileContext, kind cursor.Kind) (*arraystore.Buffer, error) {
	c, err := cursor.New(ctx, f, kind, "")
	if err != nil {
		return nil, err
	}
	nSample, nVariant := f.SelectedSampleCount(), c.Len()
	cell := nSample
	dims := []int{nVariant, nSample}
	if kind == cursor.Genotype {
		cell *= f.Ploidy()
		dims = append(dims, f.Ploidy())
	}

	out := arraystore.NewBuffer(arraystore.UInt8, cell*nVariant)
	for ok := c.Reset(); ok; ok = c.Next() {
		if err := c.ReadInto(ctx, out); err != nil {
			return nil, err
		}
	}
	out.Dims = dims
	return out, nil
}

func readInfo(ctx context.Context, f *fileinfo.FileContext, name string) (any, error) {
	if err := checkPrefix(name); err != nil {
		return nil, err
	}
	node, err := f.Node(ctx, name, true)
	if err != nil {
		return nil, err
	}
	dims := node.Dims()
	if len(dims) < 1 || len(dims) > 2 {
		return nil, &fileinfo.DimensionError{Name: name}
	}

	sel := f.Selection()
	idxPath := arraystore.Prefixed(name, '@')
	idx, err := f.Node(ctx, idxPath, false)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return node.Read(ctx, arraystore.Request{Selection: selectionFor(len(dims), maskOrNil(sel.Variant))}, arraystore.Custom)
	}
	return readRagged(ctx, f, node, idxPath, nil)
}

func readFormat(ctx context.Context, f *fileinfo.FileContext, name string) (any, error) {
	if err := checkPrefix(name); err != nil {
		return nil, err
	}
	node, err := f.Node(ctx, name+"/data", true)
	if err != nil {
		return nil, err
	}
	dims := node.Dims()
	if len(dims) < 2 || len(dims) > 3 || int(dims[1]) != f.SampleCount() {
		return nil, &fileinfo.DimensionError{Name: name}
	}
	return readRagged(ctx, f, node, name+"/@data", maskOrNil(f.Selection().Sample))
}

// readRagged reads the rows of the selected variants from node, using the
// length index at idxPath. samples narrows the second dimension.
func readRagged(ctx context.Context, f *fileinfo.FileContext, node arraystore.Node, idxPath string, samples []bool) (*Ragged, error) {
	rl, err := f.VarIndex(ctx, idxPath)
	if err != nil {
		return nil, err
	}
	s, err := rl.SliceForSelection(f.Selection().Variant.Bools())
	if err != nil {
		return nil, err
	}

	dims := node.Dims()
	req := arraystore.Request{
		Start:     make([]int32, len(dims)),
		Count:     append([]int32(nil), dims...),
		Selection: selectionFor(len(dims), s.Mask, samples),
	}
	req.Start[0] = int32(s.Start)
	req.Count[0] = int32(s.Count)
	if s.Count == 0 {
		req.Selection[0] = nil
	}

	data, err := node.Read(ctx, req, arraystore.Custom)
	if err != nil {
		return nil, err
	}
	return &Ragged{Lengths: s.Lengths, Data: data}, nil
}

// chromPos labels the selected variants "chrom_pos". A label equal to the
// last distinct one gets a running "_n" suffix, which restarts only when a
// different label appears.
func chromPos(ctx context.Context, f *fileinfo.FileContext) ([]string, error) {
	chromNode, err := f.Node(ctx, fileinfo.ChromosomePath, true)
	if err != nil {
		return nil, err
	}
	posNode, err := f.Node(ctx, fileinfo.PositionPath, true)
	if err != nil {
		return nil, err
	}
	n1, n2 := chromNode.TotalCount(), posNode.TotalCount()
	if n1 != n2 || n1 != int64(f.VariantCount()) {
		return nil, newError(ErrInvalidDimension, "invalid dimension of 'chromosome' and 'position'")
	}

	req := arraystore.Request{Selection: selectionFor(chromNode.Rank(), maskOrNil(f.Selection().Variant))}
	chr, err := chromNode.Read(ctx, req, arraystore.String)
	if err != nil {
		return nil, err
	}
	req.Selection = selectionFor(posNode.Rank(), maskOrNil(f.Selection().Variant))
	pos, err := posNode.Read(ctx, req, arraystore.Int32)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(chr.String))
	var last string
	dup := 0
	for i := range chr.String {
		label := fmt.Sprintf("%s_%d", chr.String[i], pos.Int32[i])
		if i > 0 && label == last {
			dup++
			out[i] = fmt.Sprintf("%s_%d", label, dup)
			continue
		}
		last = label
		out[i] = label
		dup = 0
	}
	return out, nil
}

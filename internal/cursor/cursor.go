package cursor

import (
	"context"
	"fmt"

	"github.com/hupe1980/seqgo/arraystore"
	"github.com/hupe1980/seqgo/internal/allele"
	"github.com/hupe1980/seqgo/internal/fileinfo"
	"github.com/hupe1980/seqgo/internal/index"
)

// Missing marks a missing genotype call or dosage.
const Missing uint8 = 0xFF

type state uint8

const (
	unstarted state = iota
	positioned
	exhausted
)

// Cursor iterates the selected variants of a dataset. It is not safe for
// concurrent use and must not outlive a ResetRoot of its FileContext.
type Cursor struct {
	kind  Kind
	name  string
	file  *fileinfo.FileContext
	node  arraystore.Node
	state state

	variants []int // selected variant indices
	k        int

	samples    []bool // selected samples, nil when every sample is selected
	numSamples int    // selected
	ploidy     int
	trailing   []int32 // extents past the sample (or element) dimension

	geno      *index.GenotypeIndex
	lengths   *index.RunLength[int32]
	positions []int32
	chrom     *index.ChromosomeIndex

	lastLabel string
	lastBuf   *arraystore.Buffer
}

// New creates a cursor of the given kind over the active selection of f.
// name is the node path for Basic and Info ("annotation/info/DP") and the
// variable path for Format ("annotation/format/DP"); other kinds ignore it.
func New(ctx context.Context, f *fileinfo.FileContext, kind Kind, name string) (*Cursor, error) {
	sel := f.Selection()
	c := &Cursor{
		kind:       kind,
		name:       name,
		file:       f,
		variants:   sel.Variant.Indices(),
		numSamples: sel.Sample.Count(),
		ploidy:     f.Ploidy(),
	}
	if c.numSamples != f.SampleCount() {
		c.samples = sel.Sample.Bools()
	}

	var err error
	switch kind {
	case Basic:
		c.node, err = vectorNode(ctx, f, name)
	case NumAllele:
		c.node, err = vectorNode(ctx, f, fileinfo.AllelePath)
	case Position:
		c.positions, err = f.Position(ctx)
	case Chromosome:
		c.chrom, err = f.Chromosome(ctx)
	case Genotype, Dosage:
		err = c.initGenotype(ctx)
	case Phase:
		err = c.initPhase(ctx)
	case Info:
		err = c.initInfo(ctx)
	case Format:
		err = c.initFormat(ctx)
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownKind, uint8(kind))
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func vectorNode(ctx context.Context, f *fileinfo.FileContext, path string) (arraystore.Node, error) {
	node, err := f.Node(ctx, path, true)
	if err != nil {
		return nil, err
	}
	if node.Rank() != 1 || node.TotalCount() != int64(f.VariantCount()) {
		return nil, &fileinfo.DimensionError{Name: path}
	}
	return node, nil
}

func (c *Cursor) initGenotype(ctx context.Context) error {
	node, err := c.file.Node(ctx, fileinfo.GenotypePath, true)
	if err != nil {
		return err
	}
	dims := node.Dims()
	want := []int32{-1, int32(c.file.SampleCount()), int32(c.ploidy)}
	if len(dims) != 3 || dims[1] != want[1] || dims[2] != want[2] {
		return &ShapeError{Name: fileinfo.GenotypePath, Dims: dims, Want: want}
	}
	c.node = node
	c.geno, err = c.file.GenoIndex(ctx)
	return err
}

func (c *Cursor) initPhase(ctx context.Context) error {
	node, err := c.file.Node(ctx, fileinfo.PhasePath, true)
	if err != nil {
		return err
	}
	dims := node.Dims()
	if len(dims) < 2 || len(dims) > 3 ||
		dims[0] != int32(c.file.VariantCount()) || dims[1] != int32(c.file.SampleCount()) {
		return &fileinfo.DimensionError{Name: "phase"}
	}
	c.node = node
	c.trailing = dims[2:]
	return nil
}

func (c *Cursor) initInfo(ctx context.Context) error {
	node, err := c.file.Node(ctx, c.name, true)
	if err != nil {
		return err
	}
	if node.Rank() != 1 && node.Rank() != 2 {
		return &fileinfo.DimensionError{Name: c.name}
	}
	c.node = node
	c.trailing = node.Dims()[1:]
	c.lengths, err = c.file.VarIndex(ctx, arraystore.Prefixed(c.name, '@'))
	return err
}

func (c *Cursor) initFormat(ctx context.Context) error {
	path := c.name + "/data"
	node, err := c.file.Node(ctx, path, true)
	if err != nil {
		return err
	}
	dims := node.Dims()
	if len(dims) < 2 || len(dims) > 3 || dims[1] != int32(c.file.SampleCount()) {
		return &fileinfo.DimensionError{Name: path}
	}
	c.node = node
	c.trailing = dims[2:]
	c.lengths, err = c.file.VarIndex(ctx, c.name+"/@data")
	return err
}

// Kind returns the decoder kind.
func (c *Cursor) Kind() Kind { return c.kind }

// Name returns the node path the cursor reads.
func (c *Cursor) Name() string { return c.name }

// Len returns the number of variants the cursor visits.
func (c *Cursor) Len() int { return len(c.variants) }

// Reset positions the cursor on the first selected variant. It returns
// false when no variant is selected.
func (c *Cursor) Reset() bool {
	c.k = 0
	return c.settle()
}

// Next advances to the next selected variant. An unstarted cursor moves
// to the first one. Once exhausted, Next keeps returning false.
func (c *Cursor) Next() bool {
	switch c.state {
	case unstarted:
		return c.Reset()
	case exhausted:
		return false
	}
	c.k++
	return c.settle()
}

func (c *Cursor) settle() bool {
	if c.k < len(c.variants) {
		c.state = positioned
		return true
	}
	c.k = len(c.variants)
	c.state = exhausted
	return false
}

// Index returns the variant index under the cursor, or -1.
func (c *Cursor) Index() int {
	if c.state != positioned {
		return -1
	}
	return c.variants[c.k]
}

// Read decodes the current record into a new buffer.
func (c *Cursor) Read(ctx context.Context) (*arraystore.Buffer, error) {
	if c.state != positioned {
		return nil, ErrNotPositioned
	}
	i := c.variants[c.k]
	switch c.kind {
	case Basic:
		return c.node.Read(ctx, arraystore.Request{
			Start: []int32{int32(i)},
			Count: []int32{1},
		}, arraystore.Custom)
	case Position:
		return &arraystore.Buffer{DType: arraystore.Int32, Int32: []int32{c.positions[i]}}, nil
	case Chromosome:
		return c.readChromosome(i)
	case Genotype:
		g, err := c.genotypes(ctx, i)
		if err != nil {
			return nil, err
		}
		return &arraystore.Buffer{DType: arraystore.UInt8, Dims: []int{c.numSamples, c.ploidy}, UInt8: g}, nil
	case Dosage:
		g, err := c.genotypes(ctx, i)
		if err != nil {
			return nil, err
		}
		return &arraystore.Buffer{DType: arraystore.UInt8, Dims: []int{c.numSamples}, UInt8: c.dosage(g)}, nil
	case Phase:
		return c.readPhase(ctx, i)
	case Info, Format:
		return c.readRagged(ctx, i)
	case NumAllele:
		buf, err := c.node.Read(ctx, arraystore.Request{
			Start: []int32{int32(i)},
			Count: []int32{1},
		}, arraystore.String)
		if err != nil {
			return nil, err
		}
		return &arraystore.Buffer{DType: arraystore.Int32, Int32: []int32{int32(allele.Count(buf.String[0]))}}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(c.kind))
	}
}

// ReadInto appends the current record to dst. An untyped dst adopts the
// record type.
func (c *Cursor) ReadInto(ctx context.Context, dst *arraystore.Buffer) error {
	buf, err := c.Read(ctx)
	if err != nil {
		return err
	}
	return dst.Append(buf)
}

func (c *Cursor) readChromosome(i int) (*arraystore.Buffer, error) {
	label, err := c.chrom.LabelAt(int64(i))
	if err != nil {
		return nil, err
	}
	if c.lastBuf == nil || label != c.lastLabel {
		c.lastLabel = label
		c.lastBuf = &arraystore.Buffer{DType: arraystore.String, String: []string{label}}
	}
	return c.lastBuf, nil
}

// genotypes decodes the calls of variant i as [sample][ploidy]. A site
// spanning several 2-bit rows combines them as row_k << 2k; a call with
// every bit set is Missing.
func (c *Cursor) genotypes(ctx context.Context, i int) ([]uint8, error) {
	start, rows, err := c.geno.Lookup(int64(i))
	if err != nil {
		return nil, err
	}
	cell := c.numSamples * c.ploidy
	out := make([]uint8, cell)
	if rows == 0 {
		for s := range out {
			out[s] = Missing
		}
		return out, nil
	}

	buf, err := c.node.Read(ctx, arraystore.Request{
		Start:     []int32{int32(start), 0, 0},
		Count:     []int32{int32(rows), int32(c.file.SampleCount()), int32(c.ploidy)},
		Selection: [][]bool{nil, c.samples, nil},
	}, arraystore.UInt8)
	if err != nil {
		return nil, err
	}

	missing := uint32(1)<<(2*uint32(rows)) - 1
	for s := range cell {
		var v uint32
		for r := range int(rows) {
			v |= uint32(buf.UInt8[r*cell+s]&0x03) << (2 * r)
		}
		if v == missing {
			out[s] = Missing
		} else {
			out[s] = uint8(v)
		}
	}
	return out, nil
}

// dosage counts reference alleles per sample. Any missing call, or a
// ploidy above two, yields Missing.
func (c *Cursor) dosage(g []uint8) []uint8 {
	out := make([]uint8, c.numSamples)
	for s := range out {
		if c.ploidy > 2 {
			out[s] = Missing
			continue
		}
		var n uint8
		for _, a := range g[s*c.ploidy : (s+1)*c.ploidy] {
			if a == Missing {
				n = Missing
				break
			}
			if a == 0 {
				n++
			}
		}
		out[s] = n
	}
	return out
}

func (c *Cursor) readPhase(ctx context.Context, i int) (*arraystore.Buffer, error) {
	req := arraystore.Request{
		Start:     []int32{int32(i), 0},
		Count:     []int32{1, int32(c.file.SampleCount())},
		Selection: [][]bool{nil, c.samples},
	}
	for _, d := range c.trailing {
		req.Start = append(req.Start, 0)
		req.Count = append(req.Count, d)
		req.Selection = append(req.Selection, nil)
	}
	buf, err := c.node.Read(ctx, req, arraystore.UInt8)
	if err != nil {
		return nil, err
	}
	buf.Dims = buf.Dims[1:]
	return buf, nil
}

func (c *Cursor) readRagged(ctx context.Context, i int) (*arraystore.Buffer, error) {
	start, n, err := c.lengths.Lookup(int64(i))
	if err != nil {
		return nil, err
	}
	req := arraystore.Request{
		Start: []int32{int32(start)},
		Count: []int32{n},
	}
	if c.kind == Format {
		req.Start = append(req.Start, 0)
		req.Count = append(req.Count, int32(c.file.SampleCount()))
		req.Selection = [][]bool{nil, c.samples}
	}
	for _, d := range c.trailing {
		req.Start = append(req.Start, 0)
		req.Count = append(req.Count, d)
		if req.Selection != nil {
			req.Selection = append(req.Selection, nil)
		}
	}
	return c.node.Read(ctx, req, arraystore.Custom)
}

package index

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/seqgo/arraystore"
)

const chromChunk = 4096

// Range is a contiguous block of variants [Start, Start+Length).
type Range struct {
	Start  int32
	Length int32
}

// TotalLength sums the lengths of ranges.
func TotalLength(ranges []Range) int64 {
	var n int64
	for _, r := range ranges {
		n += int64(r.Length)
	}
	return n
}

// ChromosomeIndex maps chromosome labels to the variant ranges they cover.
// Variants of one chromosome need not be contiguous; every label change in
// variant order starts a new range.
type ChromosomeIndex struct {
	ranges map[string][]Range
	labels []string

	// run-length encoded ids into names, in variant order
	runs  *RunLength[int32]
	names []string
	total int64
}

// BuildChromosomeIndex scans the "chromosome" node. The node must be a
// vector with one label per variant.
func BuildChromosomeIndex(ctx context.Context, node arraystore.Node, variants int) (*ChromosomeIndex, error) {
	if node.Rank() != 1 || node.TotalCount() != int64(variants) {
		return nil, fmt.Errorf("%w of 'chromosome'", ErrInvalidDimension)
	}
	var b chromBuilder
	it := node.Iterator()
	for done := int64(0); done < node.TotalCount(); {
		buf, err := it.ReadChunk(ctx, chromChunk, arraystore.String)
		if err != nil {
			return nil, err
		}
		for _, s := range buf.String {
			b.add(s)
		}
		done += int64(len(buf.String))
	}
	return b.build()
}

// NewChromosomeIndex indexes labels given in variant order.
func NewChromosomeIndex(labels []string) (*ChromosomeIndex, error) {
	var b chromBuilder
	for _, s := range labels {
		b.add(s)
	}
	return b.build()
}

type chromBuilder struct {
	ranges  map[string][]Range
	ids     map[string]int32
	names   []string
	runs    Builder[int32]
	last    string
	start   int32
	pos     int32
	started bool
}

func (b *chromBuilder) add(label string) {
	if b.ranges == nil {
		b.ranges = make(map[string][]Range)
		b.ids = make(map[string]int32)
	}
	if !b.started || label != b.last {
		b.close()
		b.last, b.start, b.started = label, b.pos, true
	}
	id, ok := b.ids[label]
	if !ok {
		id = int32(len(b.names))
		b.ids[label] = id
		b.names = append(b.names, label)
	}
	b.runs.Add(id, 1)
	b.pos++
}

func (b *chromBuilder) close() {
	if b.started && b.pos > b.start {
		b.ranges[b.last] = append(b.ranges[b.last], Range{Start: b.start, Length: b.pos - b.start})
	}
}

func (b *chromBuilder) build() (*ChromosomeIndex, error) {
	b.close()
	runs, err := b.runs.Build()
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(b.ranges))
	for l := range b.ranges {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	ranges := b.ranges
	if ranges == nil {
		ranges = map[string][]Range{}
	}
	return &ChromosomeIndex{
		ranges: ranges,
		labels: labels,
		runs:   runs,
		names:  b.names,
		total:  runs.Len(),
	}, nil
}

// Len returns the number of indexed variants.
func (c *ChromosomeIndex) Len() int64 { return c.total }

// Labels returns the distinct labels in lexical order.
func (c *ChromosomeIndex) Labels() []string { return slices.Clone(c.labels) }

// Ranges returns the ranges of label, or nil when the label is unknown.
func (c *ChromosomeIndex) Ranges(label string) []Range {
	return c.ranges[label]
}

// Contains reports whether label occurs in the index.
func (c *ChromosomeIndex) Contains(label string) bool {
	_, ok := c.ranges[label]
	return ok
}

// Count returns the total number of ranges across all labels.
func (c *ChromosomeIndex) Count() int {
	n := 0
	for _, r := range c.ranges {
		n += len(r)
	}
	return n
}

// LabelAt returns the label of variant pos. Successive calls for
// variants of the same label return the same string header.
func (c *ChromosomeIndex) LabelAt(pos int64) (string, error) {
	_, id, err := c.runs.Lookup(pos)
	if err != nil {
		return "", err
	}
	return c.names[id], nil
}

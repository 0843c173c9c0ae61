package index

import (
	"context"

	"github.com/hupe1980/seqgo/arraystore"
)

// GenotypeIndex tracks how many genotype rows each variant occupies.
// The low four bits of a stored value give the row count; the upper bits
// are reserved flags.
type GenotypeIndex struct {
	rl *RunLength[uint16]
}

// NewGenotypeIndex wraps a uint16 run-length index.
func NewGenotypeIndex(rl *RunLength[uint16]) *GenotypeIndex {
	return &GenotypeIndex{rl: rl}
}

// BuildGenotypeIndex scans "genotype/@data".
func BuildGenotypeIndex(ctx context.Context, node arraystore.Node) (*GenotypeIndex, error) {
	var b Builder[uint16]
	err := scan(ctx, node, arraystore.UInt16, func(buf *arraystore.Buffer) {
		for _, v := range buf.UInt16 {
			b.Add(v, 1)
		}
	})
	if err != nil {
		return nil, err
	}
	rl, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &GenotypeIndex{rl: rl}, nil
}

// Len returns the number of variants.
func (g *GenotypeIndex) Len() int64 { return g.rl.Len() }

// Runs returns the number of stored runs.
func (g *GenotypeIndex) Runs() int { return g.rl.Runs() }

// Lookup returns the first genotype row of variant pos and its row count.
// The row offset sums the raw stored values.
func (g *GenotypeIndex) Lookup(pos int64) (int64, uint8, error) {
	sum, v, err := g.rl.Lookup(pos)
	if err != nil {
		return 0, 0, err
	}
	return sum, uint8(v & 0x0F), nil
}

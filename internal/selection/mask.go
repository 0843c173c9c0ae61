package selection

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Mask is a boolean vector of fixed length.
type Mask struct {
	bits *roaring.Bitmap
	n    int
}

// All returns a mask of n true entries.
func All(n int) *Mask {
	m := &Mask{bits: roaring.New(), n: n}
	m.bits.AddRange(0, uint64(n))
	return m
}

// None returns a mask of n false entries.
func None(n int) *Mask {
	return &Mask{bits: roaring.New(), n: n}
}

// FromBools converts a boolean slice.
func FromBools(b []bool) *Mask {
	m := None(len(b))
	for i, v := range b {
		if v {
			m.bits.Add(uint32(i))
		}
	}
	return m
}

// Len returns the length of the vector.
func (m *Mask) Len() int { return m.n }

// Count returns the number of true entries.
func (m *Mask) Count() int { return int(m.bits.GetCardinality()) }

// Clone returns an independent copy.
func (m *Mask) Clone() *Mask {
	return &Mask{bits: m.bits.Clone(), n: m.n}
}

// And clears every entry that is not set in o.
func (m *Mask) And(o *Mask) {
	m.bits.And(o.bits)
}

// Bools expands the mask.
func (m *Mask) Bools() []bool {
	out := make([]bool, m.n)
	it := m.bits.Iterator()
	for it.HasNext() {
		out[it.Next()] = true
	}
	return out
}

// Indices returns the set entries in increasing order.
func (m *Mask) Indices() []int {
	out := make([]int, 0, m.bits.GetCardinality())
	it := m.bits.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Narrow clears the set entries whose matching element of sub is false.
// sub has one element per set entry, in increasing entry order, so a false
// entry never becomes true.
func (m *Mask) Narrow(sub []bool) error {
	if len(sub) != m.Count() {
		return fmt.Errorf("narrowing mask has %d entries, want %d", len(sub), m.Count())
	}
	drop := roaring.New()
	k := 0
	it := m.bits.Iterator()
	for it.HasNext() {
		i := it.Next()
		if !sub[k] {
			drop.Add(i)
		}
		k++
	}
	m.bits.AndNot(drop)
	return nil
}

// Range returns a mask of the same length holding only the set entries
// with rank in [from, to), that is the from-th through (to-1)-th selected
// positions.
func (m *Mask) Range(from, to int) *Mask {
	out := None(m.n)
	if from >= to {
		return out
	}
	first, err := m.bits.Select(uint32(max(from, 0)))
	if err != nil {
		return out
	}
	it := m.bits.Iterator()
	it.AdvanceIfNeeded(first)
	for k := max(from, 0); it.HasNext() && k < to; k++ {
		out.bits.Add(it.Next())
	}
	return out
}

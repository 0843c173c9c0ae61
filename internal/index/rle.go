package index

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

const maxRecords = math.MaxInt32

// RunLength is a run-length encoded sequence of non-negative integers.
// Adjacent runs never share a value and every run length is positive.
//
// RunLength is not safe for concurrent use: Lookup moves an internal cursor.
type RunLength[V constraints.Integer] struct {
	values  []V
	lengths []uint32
	total   int64

	position  int64
	accSum    int64
	accIndex  int
	accOffset int64
}

// Builder accumulates values into a RunLength.
type Builder[V constraints.Integer] struct {
	rl      RunLength[V]
	last    V
	repeat  uint32
	started bool
}

// Add appends n copies of v. Negative values are stored as 0.
func (b *Builder[V]) Add(v V, n uint32) {
	if n == 0 {
		return
	}
	if v < 0 {
		v = 0
	}
	b.rl.total += int64(n)
	if b.started && v == b.last {
		b.repeat += n
		return
	}
	b.flush()
	b.last, b.repeat, b.started = v, n, true
}

func (b *Builder[V]) flush() {
	if b.repeat > 0 {
		b.rl.values = append(b.rl.values, b.last)
		b.rl.lengths = append(b.rl.lengths, b.repeat)
	}
}

// Build finishes the sequence. It fails when the record count does not
// fit a 32-bit signed count.
func (b *Builder[V]) Build() (*RunLength[V], error) {
	if b.rl.total > maxRecords {
		return nil, fmt.Errorf("%w: %d records", ErrInvalidDimension, b.rl.total)
	}
	b.flush()
	b.repeat = 0
	rl := b.rl
	return &rl, nil
}

// NewRunLength encodes seq.
func NewRunLength[V constraints.Integer](seq []V) (*RunLength[V], error) {
	var b Builder[V]
	for _, v := range seq {
		b.Add(v, 1)
	}
	return b.Build()
}

// Ones returns the index of n records holding one value each.
func Ones[V constraints.Integer](n int) *RunLength[V] {
	rl := &RunLength[V]{total: int64(n)}
	if n > 0 {
		rl.values = []V{1}
		rl.lengths = []uint32{uint32(n)}
	}
	return rl
}

// Len returns the number of records.
func (r *RunLength[V]) Len() int64 { return r.total }

// Runs returns the number of runs.
func (r *RunLength[V]) Runs() int { return len(r.values) }

// Values returns the run values.
func (r *RunLength[V]) Values() []V { return r.values }

// Lengths returns the run lengths.
func (r *RunLength[V]) Lengths() []uint32 { return r.lengths }

// Expand reconstructs the full sequence.
func (r *RunLength[V]) Expand() []V {
	out := make([]V, 0, r.total)
	for i, v := range r.values {
		for range r.lengths[i] {
			out = append(out, v)
		}
	}
	return out
}

func (r *RunLength[V]) resetCursor() {
	r.position, r.accSum, r.accIndex, r.accOffset = 0, 0, 0, 0
}

// Lookup returns the sum of all values before pos and the value at pos.
func (r *RunLength[V]) Lookup(pos int64) (int64, V, error) {
	if pos < 0 || pos >= r.total {
		return 0, 0, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidPosition, pos, r.total)
	}
	if pos < r.position {
		r.resetCursor()
	}
	for r.position < pos {
		n := int64(r.lengths[r.accIndex]) - r.accOffset
		if r.position+n <= pos {
			r.accSum += int64(r.values[r.accIndex]) * n
			r.accIndex++
			r.accOffset = 0
		} else {
			n = pos - r.position
			r.accSum += int64(r.values[r.accIndex]) * n
			r.accOffset += n
		}
		r.position += n
	}
	return r.accSum, r.values[r.accIndex], nil
}

// runCursor walks records run by run without touching the lookup cursor.
type runCursor struct {
	run  int
	left int64
}

// skip consumes m records starting at record 0 and returns the sum of
// their values. Whole runs are consumed at once.
func (r *RunLength[V]) skip(m int64) (runCursor, int64) {
	c := runCursor{left: int64(r.lengths[0])}
	var sum int64
	for m > 0 {
		if c.left == 0 {
			c.run++
			c.left = int64(r.lengths[c.run])
			continue
		}
		k := min(c.left, m)
		c.left -= k
		m -= k
		sum += k * int64(r.values[c.run])
	}
	return c, sum
}

// next returns the value of the record at the cursor and advances it.
func (r *RunLength[V]) next(c *runCursor) V {
	for c.left == 0 {
		c.run++
		c.left = int64(r.lengths[c.run])
	}
	c.left--
	return r.values[c.run]
}

func (r *RunLength[V]) checkMask(sel []bool) error {
	if int64(len(sel)) != r.total {
		return fmt.Errorf("%w: selection has %d entries, index covers %d records", ErrInvalidDimension, len(sel), r.total)
	}
	return nil
}

func firstAndCount(sel []bool) (int, int) {
	first, n := -1, 0
	for i, s := range sel {
		if s {
			if first < 0 {
				first = i
			}
			n++
		}
	}
	return first, n
}

// LengthsForSelection returns the value of every selected record, in
// record order.
func (r *RunLength[V]) LengthsForSelection(sel []bool) ([]int32, error) {
	if err := r.checkMask(sel); err != nil {
		return nil, err
	}
	first, n := firstAndCount(sel)
	out := make([]int32, 0, n)
	if n == 0 {
		return out, nil
	}
	c, _ := r.skip(int64(first))
	for i := first; len(out) < n; i++ {
		v := r.next(&c)
		if sel[i] {
			out = append(out, int32(v))
		}
	}
	return out, nil
}

// Slice locates the selected records of a ragged payload.
type Slice struct {
	// Lengths holds the value count of every selected record.
	Lengths []int32
	// Start is the payload offset of the first selected record.
	Start int64
	// Count spans the payload from the first through the last selected
	// record, including unselected records in between.
	Count int64
	// Mask has Count entries and marks the payload elements of selected
	// records.
	Mask []bool
}

// SliceForSelection computes the payload span covering the selected
// records together with the element mask used to read it in one request.
func (r *RunLength[V]) SliceForSelection(sel []bool) (Slice, error) {
	if err := r.checkMask(sel); err != nil {
		return Slice{}, err
	}
	first, n := firstAndCount(sel)
	s := Slice{Lengths: make([]int32, 0, n)}
	if n == 0 {
		return s, nil
	}

	start, startSum := r.skip(int64(first))
	s.Start = startSum

	c := start
	last := first
	for i := first; len(s.Lengths) < n; i++ {
		v := r.next(&c)
		s.Count += int64(v)
		if sel[i] {
			s.Lengths = append(s.Lengths, int32(v))
			last = i
		}
	}

	s.Mask = make([]bool, s.Count)
	c = start
	off := int64(0)
	for i := first; i <= last; i++ {
		v := int64(r.next(&c))
		if sel[i] {
			for k := off; k < off+v; k++ {
				s.Mask[k] = true
			}
		}
		off += v
	}
	return s, nil
}

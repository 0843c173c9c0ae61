package index

import (
	"fmt"
	"sort"
	"strings"
)

// Interval is a closed interval of base-pair positions.
type Interval struct {
	Start int32
	End   int32
}

// before reports whether a lies strictly before b with at least one
// position between them. Overlapping or adjacent intervals compare equal.
func before(a, b Interval) bool {
	return int64(a.End) < int64(b.Start)-1
}

// RangeSet is an ordered set of disjoint, non-adjacent closed intervals.
// Adding an interval that overlaps or touches existing members merges them.
type RangeSet struct {
	items []Interval
}

// Len returns the number of intervals.
func (s *RangeSet) Len() int { return len(s.items) }

// Intervals returns the members in increasing order.
func (s *RangeSet) Intervals() []Interval {
	return append([]Interval(nil), s.items...)
}

// Clear removes all intervals.
func (s *RangeSet) Clear() { s.items = s.items[:0] }

// find returns the index of the first member equivalent to r, if any.
func (s *RangeSet) find(r Interval) (int, bool) {
	i := sort.Search(len(s.items), func(i int) bool { return !before(s.items[i], r) })
	return i, i < len(s.items) && !before(r, s.items[i])
}

// Add inserts [start, end]. An end before start is treated as start.
func (s *RangeSet) Add(start, end int32) {
	if end < start {
		end = start
	}
	r := Interval{Start: start, End: end}
	for {
		i, ok := s.find(r)
		if !ok {
			s.items = append(s.items, Interval{})
			copy(s.items[i+1:], s.items[i:])
			s.items[i] = r
			return
		}
		m := s.items[i]
		if m.Start <= r.Start && r.End <= m.End {
			return
		}
		r.Start = min(r.Start, m.Start)
		r.End = max(r.End, m.End)
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

// Contains reports whether point lies inside a member.
func (s *RangeSet) Contains(point int32) bool {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i].End >= point })
	return i < len(s.items) && s.items[i].Start <= point
}

func (s *RangeSet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, r := range s.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "[%d, %d]", r.Start, r.End)
	}
	sb.WriteByte('}')
	return sb.String()
}

package selection

// Selection is a sample mask paired with a variant mask.
type Selection struct {
	Sample  *Mask
	Variant *Mask
}

func (s *Selection) clone() *Selection {
	return &Selection{Sample: s.Sample.Clone(), Variant: s.Variant.Clone()}
}

// Stack is a stack of selections over a dataset with a fixed number of
// samples and variants. The zero-depth stack is never observable: Top
// creates an all-true selection on first use.
//
// A Stack is not safe for concurrent use.
type Stack struct {
	samples  int
	variants int
	frames   []*Selection
}

// NewStack returns an empty stack for the given dimensions.
func NewStack(samples, variants int) *Stack {
	return &Stack{samples: samples, variants: variants}
}

func (s *Stack) all() *Selection {
	return &Selection{Sample: All(s.samples), Variant: All(s.variants)}
}

// Depth returns the number of selections on the stack.
func (s *Stack) Depth() int { return len(s.frames) }

// Top returns the active selection.
func (s *Stack) Top() *Selection {
	if len(s.frames) == 0 {
		s.frames = append(s.frames, s.all())
	}
	return s.frames[len(s.frames)-1]
}

// Push adds a selection. It copies the active one unless reset is set or
// the stack is empty, in which case every sample and variant is selected.
func (s *Stack) Push(reset bool) *Selection {
	var sel *Selection
	if reset || len(s.frames) == 0 {
		sel = s.all()
	} else {
		sel = s.Top().clone()
	}
	s.frames = append(s.frames, sel)
	return sel
}

// Pop discards the active selection. The last selection cannot be popped.
func (s *Stack) Pop() error {
	if len(s.frames) <= 1 {
		return ErrEmptyStack
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// Reset drops every selection and adopts new dimensions.
func (s *Stack) Reset(samples, variants int) {
	clear(s.frames)
	s.frames = s.frames[:0]
	s.samples, s.variants = samples, variants
}

// SetSample replaces or narrows the active sample mask. A nil mask selects
// every sample. With intersect set, mask holds one entry per currently
// selected sample.
func (s *Stack) SetSample(mask []bool, intersect bool) error {
	sel := s.Top()
	next, err := apply(sel.Sample, mask, intersect, "sample")
	if err != nil {
		return err
	}
	sel.Sample = next
	return nil
}

// SetVariant is SetSample for variants.
func (s *Stack) SetVariant(mask []bool, intersect bool) error {
	sel := s.Top()
	next, err := apply(sel.Variant, mask, intersect, "variant")
	if err != nil {
		return err
	}
	sel.Variant = next
	return nil
}

// ReplaceVariant installs m as the active variant mask.
func (s *Stack) ReplaceVariant(m *Mask) error {
	if m.Len() != s.variants {
		return &LengthError{Dim: "variant", Got: m.Len(), Want: s.variants}
	}
	s.Top().Variant = m
	return nil
}

func apply(cur *Mask, mask []bool, intersect bool, dim string) (*Mask, error) {
	if mask == nil {
		return All(cur.Len()), nil
	}
	if !intersect {
		if len(mask) != cur.Len() {
			return nil, &LengthError{Dim: dim, Got: len(mask), Want: cur.Len()}
		}
		return FromBools(mask), nil
	}
	if len(mask) != cur.Count() {
		return nil, &LengthError{Dim: dim, Got: len(mask), Want: cur.Count(), Intersect: true}
	}
	next := cur.Clone()
	if err := next.Narrow(mask); err != nil {
		return nil, err
	}
	return next, nil
}

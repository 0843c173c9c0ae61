package seqgo

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/hupe1980/seqgo/internal/index"
	"github.com/hupe1980/seqgo/internal/selection"
)

// NA marks a missing From or To bound of a ChromosomeFilter region.
const NA int32 = math.MinInt32

// NumericMode restricts a chromosome filter by the shape of the label.
type NumericMode int

const (
	// AnyChromosome applies no restriction.
	AnyChromosome NumericMode = iota
	// NumericOnly keeps labels that parse as base-10 integers ("1", "22").
	NumericOnly
	// NonNumericOnly keeps the other labels ("X", "MT", "chr1").
	NonNumericOnly
)

// ChromosomeFilter selects variants by chromosome label and, optionally, by
// base-pair region.
type ChromosomeFilter struct {
	// Include lists the labels to keep. Nil keeps every label allowed by
	// Numeric.
	Include []string
	Numeric NumericMode
	// From and To give one inclusive region per Include entry. Either both
	// are nil or both match Include in length. NA stands for an open
	// bound.
	From []int32
	To   []int32
	// Intersect narrows the active variant selection instead of replacing
	// it.
	Intersect bool
}

func (m NumericMode) keep(label string) bool {
	switch m {
	case NumericOnly:
		return isNumeric(label)
	case NonNumericOnly:
		return !isNumeric(label)
	default:
		return true
	}
}

func isNumeric(s string) bool {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	if s == "" {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}

func (cf ChromosomeFilter) validate() error {
	if cf.Include == nil {
		if cf.From != nil {
			return newError(ErrInvalidArgument, "'From' should be nil without 'Include'")
		}
		if cf.To != nil {
			return newError(ErrInvalidArgument, "'To' should be nil without 'Include'")
		}
		return nil
	}
	if cf.From != nil || cf.To != nil {
		if len(cf.From) != len(cf.Include) {
			return newError(ErrInvalidArgument, "'From' should have the same length as 'Include'")
		}
		if len(cf.To) != len(cf.Include) {
			return newError(ErrInvalidArgument, "'To' should have the same length as 'Include'")
		}
	}
	return nil
}

// SetChromosomeFilter selects the variants on the chromosomes described
// by cf.
func (r *Registry) SetChromosomeFilter(ctx context.Context, h Handle, cf ChromosomeFilter) error {
	f, err := r.file(h)
	if err != nil {
		return err
	}
	if err := cf.validate(); err != nil {
		return err
	}

	chrom, err := f.Chromosome(ctx)
	if err != nil {
		return translateError(err)
	}
	picked := make([]bool, f.VariantCount())
	mark := func(rng []index.Range) {
		for _, p := range rng {
			for i := p.Start; i < p.Start+p.Length; i++ {
				picked[i] = true
			}
		}
	}

	switch {
	case cf.Include == nil:
		for _, label := range chrom.Labels() {
			if cf.Numeric.keep(label) {
				mark(chrom.Ranges(label))
			}
		}

	case cf.From == nil:
		for _, label := range cf.Include {
			if cf.Numeric.keep(label) {
				mark(chrom.Ranges(label))
			}
		}

	default:
		pos, err := f.Position(ctx)
		if err != nil {
			return translateError(err)
		}
		regions := make(map[string]*index.RangeSet)
		for i, label := range cf.Include {
			if !cf.Numeric.keep(label) || !chrom.Contains(label) {
				continue
			}
			from, to := cf.From[i], cf.To[i]
			if from == NA {
				from = 0
			}
			if to == NA {
				to = math.MaxInt32
			}
			rs, ok := regions[label]
			if !ok {
				rs = &index.RangeSet{}
				regions[label] = rs
			}
			rs.Add(from, to)
		}
		for label, rs := range regions {
			for _, p := range chrom.Ranges(label) {
				for i := p.Start; i < p.Start+p.Length; i++ {
					if rs.Contains(pos[i]) {
						picked[i] = true
					}
				}
			}
		}
	}

	m := selection.FromBools(picked)
	if cf.Intersect {
		m.And(f.Selection().Variant)
	}
	if err := f.Stack().ReplaceVariant(m); err != nil {
		return translateError(err)
	}
	r.opts.logger.LogFilter(h, "variant", m.Count())
	return nil
}

package seqgo

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/hupe1980/seqgo/arraystore"
	"github.com/hupe1980/seqgo/internal/cursor"
	"github.com/hupe1980/seqgo/internal/fileinfo"
	"github.com/hupe1980/seqgo/internal/progress"
)

// CombineMode controls what an apply returns.
type CombineMode int

const (
	// CombineNone discards the transform results.
	CombineNone CombineMode = iota
	// CombineList returns one result per call, in order.
	CombineList
	// CombineUnlist concatenates slice results and appends other results
	// as single elements.
	CombineUnlist
)

func (m CombineMode) String() string {
	switch m {
	case CombineNone:
		return "none"
	case CombineList:
		return "list"
	case CombineUnlist:
		return "unlist"
	default:
		return "invalid"
	}
}

// ParseCombineMode parses "none", "list" or "unlist".
func ParseCombineMode(s string) (CombineMode, error) {
	switch s {
	case "none":
		return CombineNone, nil
	case "list":
		return CombineList, nil
	case "unlist":
		return CombineUnlist, nil
	}
	return CombineNone, errInvalidMode()
}

func errInvalidMode() error {
	return newError(ErrInvalidArgument, "'asis' should be 'none', 'list' or 'unlist'")
}

// ApplyFunc transforms the fields of one block or variant. args holds the
// decoded fields in the requested order followed by the values passed
// with WithArgs.
type ApplyFunc func(ctx context.Context, args ...any) (any, error)

// ApplyOverVariantBlocks splits the selected variants into consecutive
// blocks of at most blockSize variants and calls fn once per block with the
// named fields read through GetField. The selection is restored before
// returning, also when fn fails.
func (r *Registry) ApplyOverVariantBlocks(ctx context.Context, h Handle, names []string, blockSize int, mode CombineMode, fn ApplyFunc, optFns ...ApplyOption) (any, error) {
	if blockSize < 1 {
		return nil, newError(ErrInvalidArgument, "'bsize' must be >= 1")
	}
	if len(names) == 0 {
		return nil, newError(ErrInvalidArgument, "'name' should be specified")
	}
	f, err := r.file(h)
	if err != nil {
		return nil, err
	}
	nVariant := f.SelectedVariantCount()
	if nVariant <= 0 {
		return nil, newError(ErrInvalidArgument, "there is no selected variant")
	}
	if mode < CombineNone || mode > CombineUnlist {
		return nil, errInvalidMode()
	}
	cfg := applyApplyOptions(optFns)

	numBlock := (nVariant + blockSize - 1) / blockSize
	bar, err := progress.New(r.opts.progress, int64(numBlock), cfg.verbose)
	if err != nil {
		return nil, translateError(err)
	}

	logger := r.opts.logger.WithHandle(h)
	logger.LogApplyStart(ctx, nVariant, numBlock)

	out, err := r.applyBlocks(ctx, f, names, blockSize, numBlock, mode, fn, cfg, bar)
	logger.LogApply(ctx, nVariant, numBlock, err)
	return out, err
}

func (r *Registry) applyBlocks(ctx context.Context, f *fileinfo.FileContext, names []string, blockSize, numBlock int, mode CombineMode, fn ApplyFunc, cfg applyConfig, bar progress.Reporter) (any, error) {
	base := f.Selection().Variant.Clone()
	stack := f.Stack()
	depth := stack.Depth()
	stack.Push(false)
	defer func() {
		for stack.Depth() > depth {
			if stack.Pop() != nil {
				return
			}
		}
	}()

	results := newCombiner(mode, numBlock)
	args := make([]any, len(names)+len(cfg.args))
	copy(args[len(names):], cfg.args)

	for b := range numBlock {
		if err := stack.ReplaceVariant(base.Range(b*blockSize, (b+1)*blockSize)); err != nil {
			return nil, translateError(err)
		}
		for i, name := range names {
			v, err := r.getField(ctx, f, name)
			if err != nil {
				return nil, translateError(err)
			}
			args[i] = v
		}

		start := time.Now()
		v, err := fn(ctx, args...)
		r.opts.metricsCollector.RecordBlock(time.Since(start), err)
		if err != nil {
			return nil, err
		}
		results.add(v)
		bar.Forward()
	}
	return results.result(), nil
}

// ApplyOverVariants calls fn once per selected variant with the named
// fields of that variant, each decoded by a variant cursor into an
// *arraystore.Buffer. Buffers may be reused between calls and must not be
// retained. Accepted names are variant.id, position, chromosome, allele,
// genotype, #dosage, phase, annotation/id, annotation/qual,
// annotation/filter, annotation/info/NAME, annotation/format/NAME and
// #num_allele.
func (r *Registry) ApplyOverVariants(ctx context.Context, h Handle, names []string, mode CombineMode, fn ApplyFunc, optFns ...ApplyOption) (any, error) {
	if len(names) == 0 {
		return nil, newError(ErrInvalidArgument, "'name' should be specified")
	}
	f, err := r.file(h)
	if err != nil {
		return nil, err
	}
	nVariant := f.SelectedVariantCount()
	if nVariant <= 0 {
		return nil, newError(ErrInvalidArgument, "there is no selected variant")
	}
	if mode < CombineNone || mode > CombineUnlist {
		return nil, errInvalidMode()
	}
	cfg := applyApplyOptions(optFns)

	cursors := make([]*cursor.Cursor, len(names))
	for i, name := range names {
		kind, path, err := variantKind(name)
		if err != nil {
			return nil, err
		}
		if cursors[i], err = cursor.New(ctx, f, kind, path); err != nil {
			return nil, translateError(err)
		}
	}

	bar, err := progress.New(r.opts.progress, int64(nVariant), cfg.verbose)
	if err != nil {
		return nil, translateError(err)
	}
	logger := r.opts.logger.WithHandle(h)
	logger.LogApplyStart(ctx, nVariant, nVariant)

	out, err := r.applyVariants(ctx, cursors, mode, fn, cfg, bar)
	logger.LogApply(ctx, nVariant, nVariant, err)
	return out, err
}

func (r *Registry) applyVariants(ctx context.Context, cursors []*cursor.Cursor, mode CombineMode, fn ApplyFunc, cfg applyConfig, bar progress.Reporter) (any, error) {
	n := cursors[0].Len()
	results := newCombiner(mode, n)
	args := make([]any, len(cursors)+len(cfg.args))
	copy(args[len(cursors):], cfg.args)

	for _, c := range cursors {
		c.Reset()
	}
	for range n {
		for i, c := range cursors {
			buf, err := c.Read(ctx)
			if err != nil {
				return nil, translateError(err)
			}
			args[i] = buf
		}

		start := time.Now()
		v, err := fn(ctx, args...)
		r.opts.metricsCollector.RecordBlock(time.Since(start), err)
		if err != nil {
			return nil, err
		}
		results.add(v)
		bar.Forward()

		for _, c := range cursors {
			c.Next()
		}
	}
	return results.result(), nil
}

// variantKind maps a field name to the cursor that decodes it and the
// path the cursor reads.
func variantKind(name string) (cursor.Kind, string, error) {
	switch name {
	case fileinfo.VariantIDPath, fileinfo.AllelePath, "annotation/id", "annotation/qual", "annotation/filter":
		return cursor.Basic, name, nil
	case fileinfo.PositionPath:
		return cursor.Position, "", nil
	case fileinfo.ChromosomePath:
		return cursor.Chromosome, "", nil
	case "genotype":
		return cursor.Genotype, "", nil
	case "#dosage", "$dosage":
		return cursor.Dosage, "", nil
	case "phase":
		return cursor.Phase, "", nil
	case "#num_allele", "$num_allele":
		return cursor.NumAllele, "", nil
	}
	switch {
	case strings.HasPrefix(name, fileinfo.InfoPrefix):
		if err := checkPrefix(name); err != nil {
			return 0, "", err
		}
		return cursor.Info, name, nil
	case strings.HasPrefix(name, fileinfo.FormatPrefix):
		if err := checkPrefix(name); err != nil {
			return 0, "", err
		}
		return cursor.Format, name, nil
	}
	return 0, "", newError(ErrUnknownField, "'%s' is not a variable stored by variant", name)
}

type combiner struct {
	mode CombineMode
	list []any
}

func newCombiner(mode CombineMode, n int) *combiner {
	c := &combiner{mode: mode}
	if mode != CombineNone {
		c.list = make([]any, 0, n)
	}
	return c
}

func (c *combiner) add(v any) {
	switch c.mode {
	case CombineList:
		c.list = append(c.list, v)
	case CombineUnlist:
		c.list = appendFlat(c.list, v)
	}
}

func (c *combiner) result() any {
	if c.mode == CombineNone {
		return nil
	}
	return c.list
}

// appendFlat appends the elements of slice values (including the values of
// an *arraystore.Buffer) and any other value as a single element.
func appendFlat(dst []any, v any) []any {
	if buf, ok := v.(*arraystore.Buffer); ok && buf != nil {
		v = buf.Values()
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return append(dst, v)
	}
	for i := range rv.Len() {
		dst = append(dst, rv.Index(i).Interface())
	}
	return dst
}

package fileinfo

import (
	"context"
	"math"
	"time"

	"github.com/hupe1980/seqgo/arraystore"
	"github.com/hupe1980/seqgo/internal/index"
	"github.com/hupe1980/seqgo/internal/selection"
)

// Standard node paths.
const (
	SampleIDPath      = "sample.id"
	VariantIDPath     = "variant.id"
	PositionPath      = "position"
	ChromosomePath    = "chromosome"
	AllelePath        = "allele"
	GenotypePath      = "genotype/data"
	GenotypeIndexPath = "genotype/@data"
	PhasePath         = "phase/data"
	InfoPrefix        = "annotation/info/"
	FormatPrefix      = "annotation/format/"
	SampleAnnoPrefix  = "sample.annotation/"
)

// BuildHook observes index builds.
type BuildHook func(name string, runs int, elapsed time.Duration)

// Option configures a FileContext.
type Option func(*FileContext)

// WithBuildHook registers fn to run after every index build.
func WithBuildHook(fn BuildHook) Option {
	return func(f *FileContext) { f.onBuild = fn }
}

// FileContext is the cached state of one dataset. It is not safe for
// concurrent use.
type FileContext struct {
	root     arraystore.Root
	rootID   string
	samples  int
	variants int
	ploidy   int

	stack    *selection.Stack
	chrom    *index.ChromosomeIndex
	position []int32
	geno     *index.GenotypeIndex
	varIndex map[string]*index.RunLength[int32]

	onBuild BuildHook
}

// New binds a context to root.
func New(ctx context.Context, root arraystore.Root, opts ...Option) (*FileContext, error) {
	f := &FileContext{}
	for _, opt := range opts {
		opt(f)
	}
	if _, err := f.ResetRoot(ctx, root); err != nil {
		return nil, err
	}
	return f, nil
}

// ResetRoot rebinds the context. Nothing happens when root has the
// identity of the bound root; otherwise the dimensions are re-read and
// every selection and cache is dropped. It reports whether a reset took
// place.
func (f *FileContext) ResetRoot(ctx context.Context, root arraystore.Root) (bool, error) {
	if f.root != nil && f.rootID == root.ID() {
		return false, nil
	}

	samples, err := countOf(ctx, root, SampleIDPath)
	if err != nil {
		return false, err
	}
	variants, err := countOf(ctx, root, VariantIDPath)
	if err != nil {
		return false, err
	}

	ploidy := -1
	geno, err := root.OpenNode(ctx, GenotypePath, false)
	if err != nil {
		return false, err
	}
	if geno != nil && geno.Rank() == 3 {
		ploidy = int(geno.Dims()[2])
	}

	f.root, f.rootID = root, root.ID()
	f.samples, f.variants, f.ploidy = samples, variants, ploidy
	if f.stack == nil {
		f.stack = selection.NewStack(samples, variants)
	} else {
		f.stack.Reset(samples, variants)
	}
	f.chrom = nil
	f.position = nil
	f.geno = nil
	f.varIndex = make(map[string]*index.RunLength[int32])
	return true, nil
}

func countOf(ctx context.Context, root arraystore.Root, path string) (int, error) {
	node, err := root.OpenNode(ctx, path, true)
	if err != nil {
		return 0, err
	}
	n := node.TotalCount()
	if n < 0 || n > math.MaxInt32 {
		return 0, &DimensionError{Name: path}
	}
	return int(n), nil
}

// Root returns the bound root.
func (f *FileContext) Root() arraystore.Root { return f.root }

// SampleCount returns the number of samples.
func (f *FileContext) SampleCount() int { return f.samples }

// VariantCount returns the number of variants.
func (f *FileContext) VariantCount() int { return f.variants }

// Ploidy returns the third genotype dimension, or -1 without genotypes.
func (f *FileContext) Ploidy() int { return f.ploidy }

// Stack returns the selection stack.
func (f *FileContext) Stack() *selection.Stack { return f.stack }

// Selection returns the active selection.
func (f *FileContext) Selection() *selection.Selection { return f.stack.Top() }

// SelectedSampleCount returns the number of selected samples.
func (f *FileContext) SelectedSampleCount() int { return f.Selection().Sample.Count() }

// SelectedVariantCount returns the number of selected variants.
func (f *FileContext) SelectedVariantCount() int { return f.Selection().Variant.Count() }

// Node opens path on the bound root.
func (f *FileContext) Node(ctx context.Context, path string, mustExist bool) (arraystore.Node, error) {
	return f.root.OpenNode(ctx, path, mustExist)
}

// Chromosome returns the chromosome index, building it on first use.
func (f *FileContext) Chromosome(ctx context.Context) (*index.ChromosomeIndex, error) {
	if f.chrom != nil {
		return f.chrom, nil
	}
	node, err := f.Node(ctx, ChromosomePath, true)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	ci, err := index.BuildChromosomeIndex(ctx, node, f.variants)
	if err != nil {
		return nil, err
	}
	f.built(ChromosomePath, ci.Count(), start)
	f.chrom = ci
	return ci, nil
}

// Position returns the base-pair position of every variant.
func (f *FileContext) Position(ctx context.Context) ([]int32, error) {
	if f.position != nil {
		return f.position, nil
	}
	node, err := f.Node(ctx, PositionPath, true)
	if err != nil {
		return nil, err
	}
	if node.Rank() != 1 || node.TotalCount() != int64(f.variants) {
		return nil, &DimensionError{Name: PositionPath}
	}
	buf, err := node.Read(ctx, arraystore.Request{}, arraystore.Int32)
	if err != nil {
		return nil, err
	}
	f.position = buf.Int32
	return f.position, nil
}

// GenoIndex returns the genotype row index read from "genotype/@data".
func (f *FileContext) GenoIndex(ctx context.Context) (*index.GenotypeIndex, error) {
	if f.geno != nil {
		return f.geno, nil
	}
	node, err := f.Node(ctx, GenotypeIndexPath, true)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	gi, err := index.BuildGenotypeIndex(ctx, node)
	if err != nil {
		return nil, err
	}
	f.built(GenotypeIndexPath, gi.Runs(), start)
	f.geno = gi
	return gi, nil
}

// VarIndex returns the length index stored at path. A missing node yields
// one value per variant.
func (f *FileContext) VarIndex(ctx context.Context, path string) (*index.RunLength[int32], error) {
	if rl, ok := f.varIndex[path]; ok {
		return rl, nil
	}
	node, err := f.Node(ctx, path, false)
	if err != nil {
		return nil, err
	}
	var rl *index.RunLength[int32]
	if node == nil {
		rl = index.Ones[int32](f.variants)
	} else {
		start := time.Now()
		if rl, err = index.BuildRunLength(ctx, node); err != nil {
			return nil, err
		}
		if rl.Len() != int64(f.variants) {
			return nil, &DimensionError{Name: path}
		}
		f.built(path, rl.Runs(), start)
	}
	f.varIndex[path] = rl
	return rl, nil
}

func (f *FileContext) built(name string, runs int, start time.Time) {
	if f.onBuild != nil {
		f.onBuild(name, runs, time.Since(start))
	}
}

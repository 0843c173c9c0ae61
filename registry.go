package seqgo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/seqgo/arraystore"
	"github.com/hupe1980/seqgo/internal/fileinfo"
)

// Handle identifies a dataset opened in a Registry.
type Handle int

func (h Handle) String() string { return fmt.Sprintf("handle(%d)", int(h)) }

// Registry owns the open datasets of one embedding context. The table
// itself is safe for concurrent use; the dataset behind a handle is not,
// and callers must serialize work on the same handle.
type Registry struct {
	mu    sync.Mutex
	files map[Handle]*fileinfo.FileContext
	next  Handle

	opts options
}

// NewRegistry creates an empty registry.
func NewRegistry(optFns ...Option) *Registry {
	return &Registry{
		files: make(map[Handle]*fileinfo.FileContext),
		next:  1,
		opts:  applyOptions(optFns),
	}
}

// Open attaches root under a new handle with every sample and variant
// selected.
func (r *Registry) Open(ctx context.Context, root arraystore.Root) (Handle, error) {
	f, err := fileinfo.New(ctx, root, fileinfo.WithBuildHook(r.onBuild))
	if err != nil {
		return 0, translateError(err)
	}
	f.Selection()

	r.mu.Lock()
	h := r.next
	r.next++
	r.files[h] = f
	r.mu.Unlock()

	r.opts.logger.LogOpen(ctx, h, f.SampleCount(), f.VariantCount(), f.Ploidy())
	return h, nil
}

// Reattach binds an open handle to root. When root is the dataset already
// bound nothing changes; otherwise the selection stack and every cached
// index are dropped.
func (r *Registry) Reattach(ctx context.Context, h Handle, root arraystore.Root) error {
	f, err := r.file(h)
	if err != nil {
		return err
	}
	reset, err := f.ResetRoot(ctx, root)
	if err != nil {
		return translateError(err)
	}
	if reset {
		r.opts.logger.LogReset(ctx, h, f.SampleCount(), f.VariantCount(), f.Ploidy())
	}
	return nil
}

// Close releases h.
func (r *Registry) Close(h Handle) error {
	r.mu.Lock()
	_, ok := r.files[h]
	delete(r.files, h)
	r.mu.Unlock()
	if !ok {
		return ErrFileClosed
	}
	r.opts.logger.LogClose(h)
	return nil
}

// Handles returns the open handles in increasing order.
func (r *Registry) Handles() []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	hs := make([]Handle, 0, len(r.files))
	for h := range r.files {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

func (r *Registry) file(h Handle) (*fileinfo.FileContext, error) {
	r.mu.Lock()
	f, ok := r.files[h]
	r.mu.Unlock()
	if !ok {
		return nil, ErrFileClosed
	}
	return f, nil
}

func (r *Registry) onBuild(name string, runs int, elapsed time.Duration) {
	r.opts.logger.LogIndexBuild(name, runs)
	r.opts.metricsCollector.RecordIndexBuild(name, runs, elapsed)
}

// PushFilter pushes a copy of the active selection, or an all-true one
// when reset is set.
func (r *Registry) PushFilter(h Handle, reset bool) error {
	f, err := r.file(h)
	if err != nil {
		return err
	}
	f.Stack().Push(reset)
	return nil
}

// PopFilter restores the selection active before the matching push.
func (r *Registry) PopFilter(h Handle) error {
	f, err := r.file(h)
	if err != nil {
		return err
	}
	return translateError(f.Stack().Pop())
}

// SetSampleFilter replaces the active sample mask. A nil mask selects every
// sample. With intersect set, mask has one entry per selected sample and
// narrows the current selection.
func (r *Registry) SetSampleFilter(h Handle, mask []bool, intersect bool) error {
	f, err := r.file(h)
	if err != nil {
		return err
	}
	if err := f.Stack().SetSample(mask, intersect); err != nil {
		return translateError(err)
	}
	r.opts.logger.LogFilter(h, "sample", f.SelectedSampleCount())
	return nil
}

// SetVariantFilter is SetSampleFilter for variants.
func (r *Registry) SetVariantFilter(h Handle, mask []bool, intersect bool) error {
	f, err := r.file(h)
	if err != nil {
		return err
	}
	if err := f.Stack().SetVariant(mask, intersect); err != nil {
		return translateError(err)
	}
	r.opts.logger.LogFilter(h, "variant", f.SelectedVariantCount())
	return nil
}

// GetFilter returns a copy of the active sample (forSamples) or variant
// mask.
func (r *Registry) GetFilter(h Handle, forSamples bool) ([]bool, error) {
	f, err := r.file(h)
	if err != nil {
		return nil, err
	}
	sel := f.Selection()
	if forSamples {
		return sel.Sample.Bools(), nil
	}
	return sel.Variant.Bools(), nil
}

// SampleCount returns the number of samples in the dataset.
func (r *Registry) SampleCount(h Handle) (int, error) {
	f, err := r.file(h)
	if err != nil {
		return 0, err
	}
	return f.SampleCount(), nil
}

// SelectedSampleCount returns the number of selected samples.
func (r *Registry) SelectedSampleCount(h Handle) (int, error) {
	f, err := r.file(h)
	if err != nil {
		return 0, err
	}
	return f.SelectedSampleCount(), nil
}

// VariantCount returns the number of variants in the dataset.
func (r *Registry) VariantCount(h Handle) (int, error) {
	f, err := r.file(h)
	if err != nil {
		return 0, err
	}
	return f.VariantCount(), nil
}

// SelectedVariantCount returns the number of selected variants.
func (r *Registry) SelectedVariantCount(h Handle) (int, error) {
	f, err := r.file(h)
	if err != nil {
		return 0, err
	}
	return f.SelectedVariantCount(), nil
}

// Ploidy returns the genotype ploidy, or -1 when the dataset has no
// three-dimensional genotype node.
func (r *Registry) Ploidy(h Handle) (int, error) {
	f, err := r.file(h)
	if err != nil {
		return 0, err
	}
	return f.Ploidy(), nil
}

// Space returns the ploidy and the sample and variant counts.
func (r *Registry) Space(h Handle) (ploidy, samples, variants int, err error) {
	f, err := r.file(h)
	if err != nil {
		return 0, 0, 0, err
	}
	return f.Ploidy(), f.SampleCount(), f.VariantCount(), nil
}

// SelectedSpace is Space restricted to the active selection.
func (r *Registry) SelectedSpace(h Handle) (ploidy, samples, variants int, err error) {
	f, err := r.file(h)
	if err != nil {
		return 0, 0, 0, err
	}
	return f.Ploidy(), f.SelectedSampleCount(), f.SelectedVariantCount(), nil
}

// Package seqgo reads variant-call datasets stored in the SeqArray layout:
// sample and variant identifiers, positions, chromosomes, alleles, packed
// 2-bit genotypes, phase flags and ragged annotation fields, all kept as
// named n-dimensional arrays in an arraystore.Root.
//
// # Quick Start
//
//	reg := seqgo.NewRegistry(seqgo.WithLogLevel(slog.LevelInfo))
//	h, _ := reg.Open(ctx, root)
//	defer reg.Close(h)
//
//	// Keep the variants of chromosome 22 and read their dosages.
//	_ = reg.SetChromosomeFilter(ctx, h, seqgo.ChromosomeFilter{Include: []string{"22"}})
//	v, _ := reg.GetField(ctx, h, "#dosage")
//	dosage := v.(*arraystore.Buffer) // [variant][sample] uint8
//
// # Selections
//
// Every handle carries a stack of selections. SetSampleFilter,
// SetVariantFilter and SetChromosomeFilter change the active one;
// PushFilter and PopFilter nest temporary selections:
//
//	_ = reg.PushFilter(h, false)
//	defer reg.PopFilter(h)
//	_ = reg.SetVariantFilter(h, keep, true) // narrow the selected variants
//
// # Block Apply
//
// ApplyOverVariantBlocks walks the selected variants in blocks and hands
// the requested fields of each block to a transform:
//
//	means, _ := reg.ApplyOverVariantBlocks(ctx, h, []string{"#dosage"}, 1024, seqgo.CombineList,
//	    func(ctx context.Context, args ...any) (any, error) {
//	        return meanDosage(args[0].(*arraystore.Buffer)), nil
//	    }, seqgo.WithVerbose(true))
//
// ApplyOverVariants does the same one variant at a time.
//
// # Errors
//
// Errors match the sentinels of this package with errors.Is (ErrUnknownField,
// ErrInvalidDimension, ...) and keep the message of the failing check.
package seqgo

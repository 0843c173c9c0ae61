// Package index implements the lookup structures used to address ragged
// variant records.
//
// RunLength compresses a per-record integer attribute (the number of values
// a variant contributes to a ragged field) into (value, length) runs. A
// cached cursor makes increasing lookups amortized O(1); a lookup behind the
// cursor rescans from the first run. The selection helpers translate a
// record mask into the physical element span of the ragged payload.
//
// GenotypeIndex is the uint16 specialization read from "genotype/@data",
// ChromosomeIndex maps labels to contiguous variant ranges and RangeSet
// merges base-pair intervals for region filters.
package index

package seqgo

import "github.com/hupe1980/seqgo/internal/allele"

// NumAlleles returns the number of alleles in a comma-separated list, the
// value #num_allele reports per variant. Empty tokens are skipped, but a
// trailing comma counts as one more allele: "A,G," has three.
func NumAlleles(list string) int { return allele.Count(list) }

// AlleleIndex returns the position of a in list, or -1 when list does not
// hold it. Empty tokens occupy a position, so "G" is at 2 in "A,,G".
func AlleleIndex(a, list string) int { return allele.Index(a, list) }

// SplitAlleles returns the tokens of list including empty ones, or nil for
// an empty list.
func SplitAlleles(list string) []string { return allele.Split(list) }

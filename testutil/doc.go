// Package testutil provides dataset fixtures for seqgo tests, benchmarks
// and examples.
//
// Small returns a fixed five-variant, three-sample dataset whose every
// value is listed in its source; Synthetic generates larger datasets from
// a seeded RNG.
//
//	root := testutil.Small()
//	root, err := testutil.Synthetic(testutil.NewRNG(1), testutil.Shape{Samples: 100, Variants: 1000})
package testutil

// Package arraystore defines the hierarchical array store that the seqgo
// engine reads from, together with two implementations.
//
// A Root resolves slash-separated node paths ("genotype/data",
// "annotation/info/DP") to Nodes. A Node reports its rank and dimensions
// (slowest-varying dimension first) and serves typed reads of a hyperslab,
// optionally narrowed by a boolean mask per dimension.
//
// # Implementations
//
//   - MemoryRoot keeps every node in process memory. It is convenient for
//     tests and for embedding small datasets.
//   - Container is a read-only dataset persisted on any blobstore.BlobStore:
//     a manifest blob describing the nodes plus one compressed blob per node.
//     Containers are produced by Writer.
//
// # Reading
//
//	node, err := root.OpenNode(ctx, "position", true)
//	buf, err := node.Read(ctx, arraystore.Request{
//	    Selection: [][]bool{variantMask},
//	}, arraystore.Int32)
//	positions := buf.Int32
package arraystore

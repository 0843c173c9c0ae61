// Package s3 stores seqgo containers in Amazon S3.
//
//	store, err := s3.New(ctx, "genomes",
//	    s3.WithPrefix("1kg/chr22/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	root, err := arraystore.OpenContainer(ctx, store)
//
// Reads are ranged GETs, so a blobstore.CachingStore in front of the store
// avoids refetching hot regions. Small blobs are written with a single
// PutObject carrying a CRC32C checksum; streamed blobs go through the
// multipart upload manager.
package s3

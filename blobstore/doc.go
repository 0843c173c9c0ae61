// Package blobstore provides the byte storage that seqgo containers are
// persisted on.
//
// BlobStore is the interface for reading and writing immutable blobs
// (container manifests, node payloads). Implementations must be safe for
// concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with mmap-backed reads
//   - MemoryStore: in-process, for tests
//   - CachingStore: block cache in front of any other store
//   - minio.Store: MinIO and other S3-compatible services
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Remote backends should serve ReadRange with a single ranged request so that
// partial reads of large payloads stay cheap.
package blobstore

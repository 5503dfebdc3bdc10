// Package blobstore provides named, immutable byte blobs for snapshot storage.
//
// A Store holds whole snapshots keyed by name. Implementations must be safe
// for concurrent use and must make Put atomic: a concurrent Get observes
// either the previous blob or the new one, never a partial write.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests
//   - LocalStore: local filesystem, temp-file + rename writes, mmap reads
//   - s3.Store: Amazon S3 (multipart uploads via the transfer manager)
//   - minio.Store: MinIO and other S3-compatible services
package blobstore

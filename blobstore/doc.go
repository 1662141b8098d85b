// Package blobstore stores rank/select snapshots.
//
// A BlobStore is a flat namespace of immutable blobs. Implementations must be
// safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local file system, read through mmap
//   - MemoryStore: an in-process map, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// Regression fixtures are read through the same interface, so a suite can
// live next to snapshots in a bucket.
package blobstore

// Package blobstore abstracts where an experiment's files live.
//
// An SRX experiment is a directory tree of read-only files: a data.json
// recording configuration, a frameinfo.csv frame table, numbered raw image
// batches and particle tables. A Store exposes that tree by slash-separated
// names relative to the experiment root ("Raw Images/img000001.dat"), so the
// same reader code works over a local directory, an in-memory fixture or an
// object store bucket.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local file system
//   - MemoryStore: an in-memory map, mostly for tests
//   - minio.Store: MinIO and S3-compatible endpoints
//   - s3.Store: Amazon S3 through aws-sdk-go-v2
//
// Implementations must be safe for concurrent use and must report missing
// blobs with an error satisfying errors.Is(err, ErrNotFound).
package blobstore

// Package minio reads experiment trees stored in a MinIO or other
// S3-compatible bucket.
//
// Every object read issues a ranged GET, so callers that read a raw image
// batch more than once should put a cache in front of the store.
package minio

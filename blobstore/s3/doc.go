// Package s3 reads experiment trees stored in Amazon S3.
//
// The store talks to S3 through the small Client interface, which
// *s3.Client satisfies, so tests can substitute a fake.
package s3

// Package filesystem abstracts the places datasets are read from.
//
// Implementations:
//   - OSFileSystem: local directories
//   - S3FileSystem: s3://bucket/prefix URLs
//   - MemoryFileSystem: in-memory trees for tests
//   - Router: sends s3:// paths to S3 and everything else to the local disk
//
// Opening a root that does not exist returns an error wrapping fs.ErrNotExist.
package filesystem

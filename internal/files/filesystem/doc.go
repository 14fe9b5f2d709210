// Package filesystem abstracts where RSML documents are read from.
//
// Available providers:
//   - OSFileSystem: the local filesystem
//   - MemoryFileSystem: an in-memory tree, the test seam for document loading
//   - S3FileSystem: objects in one S3 (or MinIO) bucket
//   - Router: dispatches s3:// paths to an S3 provider and everything else to a fallback
//
// Missing paths are reported with errors wrapping fs.ErrNotExist on every
// provider, so callers can use errors.Is(err, fs.ErrNotExist) uniformly.
package filesystem

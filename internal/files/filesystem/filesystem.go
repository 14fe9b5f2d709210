package filesystem

import "io/fs"

// FileInfo is fs.FileInfo; S3 objects and in-memory entries implement it too.
type FileInfo = fs.FileInfo

// File is one entry yielded while walking a Directory.
type File interface {
	// Path is the location handed to ReadFile: an OS path or an s3:// URI.
	Path() string
	// RelativePath is Path relative to the walked directory.
	RelativePath() string
	Info() FileInfo
	ReadContent() ([]byte, error)
}

// Directory is a walkable tree of RSML candidates: a folder, an S3 prefix
// or a virtual directory in memory.
type Directory interface {
	Path() string
	// Walk calls fn for each entry until fn returns an error. Callers
	// skip entries whose Info reports a directory.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider is how the loader and the scanner reach input bytes.
// Missing paths return errors that match fs.ErrNotExist.
type FileSystemProvider interface {
	Open(path string) (Directory, error)
	ReadFile(path string) ([]byte, error)
	Stat(path string) (FileInfo, error)
}

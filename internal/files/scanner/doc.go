// Package scanner expands command-line inputs into RSML file paths.
//
// An input may be a file, a directory or an s3:// prefix. Directories and
// prefixes are walked recursively and every file whose name ends in .rsml
// or .rsmlNN (two digits, as written by time-lapse exports) is kept, sorted
// by path. Explicit file inputs are kept in argument order even when they
// do not exist, so the loader can report them as not found.
//
// The scanner works through filesystem.FileSystemProvider, so tests run
// against an in-memory tree.
package scanner

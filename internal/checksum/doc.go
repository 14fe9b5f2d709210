// Package checksum fingerprints RSML documents.
//
// Two fingerprints are available: a raw SHA-256 of the bytes and a
// normalized one that ignores XML comments and insignificant whitespace,
// so that re-indented exports of the same scene compare equal.
package checksum

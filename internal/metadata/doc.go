// Package metadata builds and merges per-file RSML metadata.
//
// Build turns the raw <metadata> fields of one file into a model.Metadata:
// numeric fields are parsed leniently (unparsable values stay at -1 with a
// diagnostic), <last-modified> is parsed with the date layouts ("today" or
// a missing element means now), the resolved capture date is recorded, and
// a file without <file-key> receives a deterministic UUID v5 derived from
// its path.
//
// Merge folds one file's metadata into an aggregate. Capture dates
// accumulate; unit and resolution disagreements are reported but never
// abort the merge.
package metadata

// Package assembler runs the whole pipeline over a list of RSML files.
//
// For each path, in input order: load the document, resolve its capture
// date, extract raw records with the strategy for the requested mode,
// build the root tree and build the file's metadata. Files that fail are
// reported as skipped FileOutcomes and the batch continues, unless Strict
// is set, in which case a missing file or malformed XML aborts the run.
//
// In snapshot mode every usable file contributes to one scene keyed by the
// earliest capture date. In temporal mode each file becomes its own entry
// keyed by its capture date; a later file resolving to the same date
// replaces the earlier entry.
package assembler

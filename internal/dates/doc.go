// Package dates resolves the capture date of an RSML file.
//
// Files rarely declare their acquisition date reliably, so the resolver
// scans the file name, the metadata block and every element's text and
// attributes for date-shaped substrings, parses each one against a fixed
// list of layouts, and keeps the earliest. When nothing parses, the
// injected Clock supplies the current time and a diagnostic is recorded.
package dates

package rootmodel

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure taxonomy of an ingestion run.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	result, err := asm.Assemble(ctx, paths, opts)
//	if errors.Is(err, rootmodel.ErrNotFound) {
//	    // A path was missing and strict mode was requested
//	}
var (
	// ErrNotFound indicates an input path does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrMalformedDocument indicates the file is not well-formed XML.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrMissingScene indicates a well-formed document without any <scene> element.
	ErrMissingScene = errors.New("no scene in document")

	// ErrNoValidRoot indicates no plant in the document has a root with non-empty geometry.
	ErrNoValidRoot = errors.New("no root with geometry")

	// ErrInvalidNumericField indicates a single attribute, sample or property failed to parse.
	ErrInvalidNumericField = errors.New("invalid numeric field")

	// ErrDateUnresolved indicates no capture date candidate could be parsed.
	ErrDateUnresolved = errors.New("capture date unresolved")

	// ErrMetadataMismatch indicates merged files disagree on unit or resolution.
	ErrMetadataMismatch = errors.New("metadata mismatch")

	// ErrDuplicateCaptureDate indicates two files resolved to the same capture date.
	ErrDuplicateCaptureDate = errors.New("duplicate capture date")

	// ErrDuplicateFunction indicates a root declares the same function name twice.
	// The last declaration wins.
	ErrDuplicateFunction = errors.New("duplicate function")

	// ErrMissingMetadata indicates a document without a <metadata> element.
	ErrMissingMetadata = errors.New("metadata element missing")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoInput indicates no input paths were supplied.
	ErrNoInput = errors.New("no input files")

	// ErrNoUsableFiles indicates every input file was skipped.
	ErrNoUsableFiles = errors.New("no usable files")

	// ErrExportFailed indicates writing the model to a store failed.
	ErrExportFailed = errors.New("export failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrNoInput):
		return ExitUsageError
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrMalformedDocument):
		return ExitMalformedDocument
	case errors.Is(err, ErrNoUsableFiles):
		return ExitNoUsableFiles
	case errors.Is(err, ErrExportFailed):
		return ExitExportFailed
	}

	// cobra reports flag problems as plain errors
	errStr := err.Error()
	if strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "unknown command") ||
		strings.Contains(errStr, "accepts") {
		return ExitUsageError
	}

	return ExitGeneralError
}

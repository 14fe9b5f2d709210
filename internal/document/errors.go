package document

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// Error is a file-level load failure with location and an actionable hint.
type Error struct {
	Path    string // File that failed to load
	Line    int    // Line number (0 if unknown)
	Kind    error  // rootmodel.ErrNotFound or rootmodel.ErrMalformedDocument
	Message string
	Hint    string
}

func (e *Error) Error() string {
	location := e.Path
	if e.Line > 0 {
		location = fmt.Sprintf("%s (line %d)", e.Path, e.Line)
	}

	msg := fmt.Sprintf("%s: %s: %s", e.Kind, location, e.Message)
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

const structureHint = "Check that all tags are closed and attribute values are quoted.\n\n" +
	"Expected layout:\n" +
	"  <rsml>\n" +
	"    <metadata>...</metadata>\n" +
	"    <scene><plant><root ID=\"...\">...</root></plant></scene>\n" +
	"  </rsml>"

// wrapXMLError converts a parse failure into an *Error with line information
// when the decoder provides it.
func wrapXMLError(err error, path string) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &Error{
			Path:    path,
			Line:    syntaxErr.Line,
			Kind:    rootmodel.ErrMalformedDocument,
			Message: syntaxErr.Msg,
			Hint:    structureHint,
		}
	}

	// etree reports unclosed and mismatched tags without a position.
	if errors.Is(err, etree.ErrXML) {
		return &Error{
			Path:    path,
			Kind:    rootmodel.ErrMalformedDocument,
			Message: "unclosed or mismatched tags",
			Hint:    structureHint,
		}
	}

	return &Error{
		Path:    path,
		Kind:    rootmodel.ErrMalformedDocument,
		Message: err.Error(),
		Hint:    "Verify the file is an RSML export and not truncated.",
	}
}

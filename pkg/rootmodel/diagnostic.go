package rootmodel

import (
	"errors"
	"fmt"
	"strings"
)

// Diagnostic records one skip-and-continue event. Kind is one of the
// sentinel errors and is exposed through Unwrap so errors.Is works on it.
type Diagnostic struct {
	Kind    error
	File    string
	RootID  string
	Field   string
	Message string
}

// Error renders the diagnostic as "<kind> in <file> [root: id] [field: name]: message".
func (d Diagnostic) Error() string {
	var b strings.Builder
	if d.Kind != nil {
		b.WriteString(d.Kind.Error())
	} else {
		b.WriteString("diagnostic")
	}
	if d.File != "" {
		fmt.Fprintf(&b, " in %s", d.File)
	}
	if d.RootID != "" {
		fmt.Fprintf(&b, " [root: %s]", d.RootID)
	}
	if d.Field != "" {
		fmt.Fprintf(&b, " [field: %s]", d.Field)
	}
	if d.Message != "" {
		b.WriteString(": ")
		b.WriteString(d.Message)
	}
	return b.String()
}

func (d Diagnostic) Unwrap() error { return d.Kind }

// Diagnostics accumulates diagnostics in emission order.
// The zero value is ready to use. Not safe for concurrent use.
type Diagnostics struct {
	items []Diagnostic
}

// Add appends a diagnostic.
func (d *Diagnostics) Add(diag Diagnostic) {
	d.items = append(d.items, diag)
}

// Addf appends a diagnostic built from its parts.
func (d *Diagnostics) Addf(kind error, file, rootID, field, format string, args ...interface{}) {
	d.Add(Diagnostic{
		Kind:    kind,
		File:    file,
		RootID:  rootID,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// Items returns the accumulated diagnostics.
func (d *Diagnostics) Items() []Diagnostic {
	return d.items
}

// Len returns the number of accumulated diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.items)
}

// Count returns how many diagnostics unwrap to kind.
func (d *Diagnostics) Count(kind error) int {
	n := 0
	for _, item := range d.items {
		if errors.Is(item, kind) {
			n++
		}
	}
	return n
}

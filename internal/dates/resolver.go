package dates

import (
	"regexp"
	"time"

	"github.com/beevik/etree"

	"github.com/vvka-141/rootmodel/internal/document"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// patterns extract date-shaped substrings from candidate text, in priority order.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{2}_\d{2}_\d{4}`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`\b\d{4}/\d{2}/\d{2}\b`),
	regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`),
	regexp.MustCompile(`\b\d{8}\b`),
	regexp.MustCompile(`\b\d{4}_\d{2}_\d{2}\b`),
}

// Resolution is the outcome of InferEarliest.
type Resolution struct {
	Date      time.Time
	Candidate string // substring the date was parsed from; empty on fallback
	Fallback  bool   // true when the clock supplied the date
}

// Resolver infers capture dates.
type Resolver struct {
	clock   Clock
	layouts []string
}

// NewResolver creates a resolver. Extra layouts are tried after the built-in ones.
func NewResolver(clock Clock, extraLayouts ...string) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	layouts := make([]string, 0, len(Layouts)+len(extraLayouts))
	layouts = append(layouts, Layouts...)
	layouts = append(layouts, extraLayouts...)
	return &Resolver{clock: clock, layouts: layouts}
}

// Now returns the resolver clock's current time.
func (r *Resolver) Now() time.Time {
	return r.clock.Now()
}

// Parse runs ParseDate with the resolver's layouts.
func (r *Resolver) Parse(text string) (time.Time, bool) {
	return ParseDate(text, r.layouts)
}

// InferEarliest scans doc for date candidates and returns the earliest one
// that parses. On fallback a DateUnresolved diagnostic is added to diags.
func (r *Resolver) InferEarliest(doc *document.Document, diags *rootmodel.Diagnostics) Resolution {
	var best Resolution
	found := false

	for _, candidate := range Candidates(doc) {
		for _, re := range patterns {
			for _, match := range re.FindAllString(candidate, -1) {
				t, ok := r.Parse(match)
				if !ok {
					continue
				}
				if !found || t.Before(best.Date) {
					best = Resolution{Date: t, Candidate: match}
					found = true
				}
			}
		}
	}

	if found {
		return best
	}

	now := r.clock.Now()
	if diags != nil {
		diags.Addf(rootmodel.ErrDateUnresolved, doc.Path, "", "capture-date",
			"no date found in file name or content, using current time %s", now.Format(time.RFC3339))
	}
	return Resolution{Date: now, Fallback: true}
}

// Candidates lists every string scanned for dates: the file's base name,
// the text of each direct child of <metadata>, and for every element its
// text content followed by its attribute values.
func Candidates(doc *document.Document) []string {
	out := []string{doc.BaseName()}

	root := doc.Root()
	metadata := root
	if metadata.Tag != "metadata" {
		metadata = firstDescendant(root, "metadata")
	}
	if metadata != nil {
		for _, child := range metadata.ChildElements() {
			out = append(out, document.TextContent(child))
		}
	}

	document.Walk(root, func(el *etree.Element) bool {
		out = append(out, document.TextContent(el))
		for _, attr := range el.Attr {
			out = append(out, attr.Value)
		}
		return true
	})
	return out
}

func firstDescendant(el *etree.Element, tag string) *etree.Element {
	var found *etree.Element
	document.Walk(el, func(e *etree.Element) bool {
		if found != nil {
			return false
		}
		if e.Tag == tag {
			found = e
			return false
		}
		return true
	})
	return found
}

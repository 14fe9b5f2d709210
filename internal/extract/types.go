package extract

import (
	"time"

	"github.com/vvka-141/rootmodel/internal/geometry"
)

// RawRoot is one <root> element as read from the document.
type RawRoot struct {
	ID          string
	Label       string
	Accession   string
	Order       int
	Properties  map[string]float64
	Functions   []RawFunction
	Annotations []RawAnnotation
	Polylines   []geometry.Geometry // non-empty polylines only
	Children    []*RawRoot
}

// HasGeometry reports whether at least one polyline survived point filtering.
func (r *RawRoot) HasGeometry() bool {
	return len(r.Polylines) > 0
}

// RawFunction is a named sample sequence.
type RawFunction struct {
	Name    string
	Domain  string
	Samples []float64
}

// RawAnnotation maps child element names of one <annotation> to their text.
type RawAnnotation struct {
	Name   string
	Values map[string]string
}

// RawPlant is one <plant> element.
type RawPlant struct {
	ID    string
	Label string
	Roots []*RawRoot
}

// RawScene is one <scene> element.
type RawScene struct {
	Plants []*RawPlant
}

// RawPropertyDefinition is a (label, type, unit) triple from <property-definitions>.
type RawPropertyDefinition struct {
	Label string
	Type  string
	Unit  string
}

// RawMetadata holds the <metadata> block with defaults applied.
type RawMetadata struct {
	Present             bool
	Version             string
	Unit                string
	Resolution          string
	LastModified        string // raw text, empty when absent
	Software            string
	User                string
	FileKey             string
	ObservationHours    []float64 // nil when the element is absent
	PropertyDefinitions []RawPropertyDefinition
	Image               map[string]string
}

// Extraction is the raw result for one document.
type Extraction struct {
	Path        string
	CaptureDate time.Time
	Metadata    RawMetadata
	Scenes      []*RawScene
	// Flat lists every root that carries geometry, in extraction order.
	Flat []*RawRoot
}

// RootCount returns the number of roots with geometry.
func (e *Extraction) RootCount() int {
	return len(e.Flat)
}

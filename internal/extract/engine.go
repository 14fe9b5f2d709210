package extract

import (
	"time"

	"github.com/beevik/etree"

	"github.com/vvka-141/rootmodel/internal/document"
	"github.com/vvka-141/rootmodel/internal/geometry"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// Engine extracts raw records from loaded documents.
type Engine struct {
	strategy Strategy
}

// NewEngine creates an engine using the given geometry strategy.
func NewEngine(strategy Strategy) *Engine {
	if strategy == nil {
		strategy = SpatialStrategy{}
	}
	return &Engine{strategy: strategy}
}

// Strategy returns the engine's geometry strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// run carries per-document state through the recursive descent.
type run struct {
	path  string
	date  time.Time
	diags *rootmodel.Diagnostics
	out   *Extraction
}

func (r *run) warn(kind error, rootID, field, format string, args ...interface{}) {
	if r.diags != nil {
		r.diags.Addf(kind, r.path, rootID, field, format, args...)
	}
}

// Extract walks doc and returns its raw records. captureDate is stamped on
// every polyline. Field-level problems go to diags; a document with no
// scene or no root carrying geometry returns a rootmodel.Diagnostic error
// of kind ErrMissingScene or ErrNoValidRoot.
func (e *Engine) Extract(doc *document.Document, captureDate time.Time, diags *rootmodel.Diagnostics) (*Extraction, error) {
	r := &run{
		path:  doc.Path,
		date:  captureDate,
		diags: diags,
		out:   &Extraction{Path: doc.Path, CaptureDate: captureDate},
	}
	r.out.Metadata = ExtractMetadata(doc, diags)

	sceneEls := document.Descendants(doc.Root(), "scene")
	if doc.Root().Tag == "scene" {
		sceneEls = append([]*etree.Element{doc.Root()}, sceneEls...)
	}
	if len(sceneEls) == 0 {
		return nil, rootmodel.Diagnostic{
			Kind:    rootmodel.ErrMissingScene,
			File:    doc.Path,
			Message: "document has no <scene> element",
		}
	}

	for _, sceneEl := range sceneEls {
		r.out.Scenes = append(r.out.Scenes, e.scene(r, sceneEl))
	}

	if len(r.out.Flat) == 0 {
		return nil, rootmodel.Diagnostic{
			Kind:    rootmodel.ErrNoValidRoot,
			File:    doc.Path,
			Message: "no plant has a root with non-empty geometry",
		}
	}
	return r.out, nil
}

func (e *Engine) scene(r *run, el *etree.Element) *RawScene {
	scene := &RawScene{}
	for _, plantEl := range document.Descendants(el, "plant") {
		scene.Plants = append(scene.Plants, e.plant(r, plantEl))
	}
	return scene
}

func (e *Engine) plant(r *run, el *etree.Element) *RawPlant {
	return &RawPlant{
		ID:    document.Attr(el, "ID"),
		Label: document.Attr(el, "label"),
		Roots: e.roots(r, el),
	}
}

// roots parses the direct <root> children of parent.
func (e *Engine) roots(r *run, parent *etree.Element) []*RawRoot {
	var out []*RawRoot
	for _, el := range document.DirectChildren(parent, document.RootTag) {
		out = append(out, e.root(r, el))
	}
	return out
}

func (e *Engine) root(r *run, el *etree.Element) *RawRoot {
	root := &RawRoot{
		ID:        document.Attr(el, "ID"),
		Label:     document.Attr(el, "label"),
		Accession: document.Attr(el, "po:accession"),
		Order:     document.AncestorCount(el, document.RootTag) + 1,
	}
	root.Properties = parseProperties(r, root.ID, el)

	root.Polylines = e.polylines(r, root.ID, el)
	if !root.HasGeometry() {
		r.warn(rootmodel.ErrNoValidRoot, root.ID, "geometry", "root has no non-empty polyline, skipping it and its children")
		return root
	}

	root.Functions = parseFunctions(r, root.ID, el)
	root.Annotations = parseAnnotations(el)
	root.Children = e.roots(r, el)
	r.out.Flat = append(r.out.Flat, root)
	return root
}

func (e *Engine) polylines(r *run, rootID string, el *etree.Element) []geometry.Geometry {
	report := func(field, format string, args ...interface{}) {
		r.warn(rootmodel.ErrInvalidNumericField, rootID, field, format, args...)
	}

	var out []geometry.Geometry
	for _, geomEl := range document.Owned(el, "geometry") {
		for _, polyEl := range document.Descendants(geomEl, "polyline") {
			g := e.strategy.ParsePolyline(polyEl, r.date, report)
			if g.Len() == 0 {
				continue
			}
			out = append(out, g)
		}
	}
	return out
}

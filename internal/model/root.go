package model

import (
	"github.com/vvka-141/rootmodel/internal/geometry"
)

// Function is a named sample sequence attached to a root.
type Function struct {
	Name    string    `json:"name" yaml:"name"`
	Domain  string    `json:"domain,omitempty" yaml:"domain,omitempty"`
	Samples []float64 `json:"samples" yaml:"samples"`
}

// Annotation is a named set of free-form values attached to a root.
type Annotation struct {
	Name   string            `json:"name" yaml:"name"`
	Values map[string]string `json:"values,omitempty" yaml:"values,omitempty"`
}

// Root is one node of a plant's root tree.
type Root struct {
	ID          string
	Label       string
	Accession   string
	Order       int
	Properties  map[string]float64
	Functions   []Function
	Annotations []Annotation

	geometry geometry.Geometry
	parent   *Root
	plant    *Plant
	children []*Root
}

// NewRoot creates a root owning g.
func NewRoot(id, label, accession string, order int, g geometry.Geometry) *Root {
	return &Root{ID: id, Label: label, Accession: accession, Order: order, geometry: g}
}

// Geometry returns the root's combined geometry.
func (r *Root) Geometry() geometry.Geometry { return r.geometry }

// Parent returns the parent root, or nil for a first-order root.
func (r *Root) Parent() *Root { return r.parent }

// Plant returns the owning plant.
func (r *Root) Plant() *Plant { return r.plant }

// Children returns the retained child roots in document order.
func (r *Root) Children() []*Root { return r.children }

// ParentID returns the parent's id, or "" for a first-order root.
func (r *Root) ParentID() string {
	if r.parent == nil {
		return ""
	}
	return r.parent.ID
}

// ParentLabel returns the parent's label, or "" for a first-order root.
func (r *Root) ParentLabel() string {
	if r.parent == nil {
		return ""
	}
	return r.parent.Label
}

// AddChild links child under r.
func (r *Root) AddChild(child *Root) {
	child.parent = r
	child.plant = r.plant
	r.children = append(r.children, child)
}

// Function returns the samples of the named function. When the name
// repeats, the last function wins.
func (r *Root) Function(name string) ([]float64, bool) {
	for i := len(r.Functions) - 1; i >= 0; i-- {
		if r.Functions[i].Name == name {
			return r.Functions[i].Samples, true
		}
	}
	return nil, false
}

// Walk visits r and its descendants depth-first, parent before children.
func (r *Root) Walk(fn func(*Root)) {
	fn(r)
	for _, child := range r.children {
		child.Walk(fn)
	}
}

package model

import "time"

// Plant owns an ordered list of first-order roots and indexes every root
// reachable from them.
type Plant struct {
	ID    string
	Label string

	roots []*Root
	flat  []*Root
	byID  map[string]*Root
	scene *Scene
}

// NewPlant creates an empty plant.
func NewPlant(id, label string) *Plant {
	return &Plant{ID: id, Label: label, byID: make(map[string]*Root)}
}

// AddRoot attaches a first-order root.
func (p *Plant) AddRoot(r *Root) {
	r.parent = nil
	r.plant = p
	p.roots = append(p.roots, r)
}

// Index registers r in the flat index. Ids are not unique; RootByID returns
// the first root registered under an id.
func (p *Plant) Index(r *Root) {
	r.plant = p
	p.flat = append(p.flat, r)
	if _, exists := p.byID[r.ID]; !exists {
		p.byID[r.ID] = r
	}
}

// Roots returns the first-order roots.
func (p *Plant) Roots() []*Root { return p.roots }

// FirstOrderRoots is an alias of Roots.
func (p *Plant) FirstOrderRoots() []*Root { return p.roots }

// All returns every indexed root.
func (p *Plant) All() []*Root { return p.flat }

// RootByID looks up a root in the flat index.
func (p *Plant) RootByID(id string) (*Root, bool) {
	r, ok := p.byID[id]
	return r, ok
}

// IDs returns the ids of all indexed roots in index order.
func (p *Plant) IDs() []string {
	ids := make([]string, len(p.flat))
	for i, r := range p.flat {
		ids[i] = r.ID
	}
	return ids
}

// Scene returns the owning scene.
func (p *Plant) Scene() *Scene { return p.scene }

// Scene groups the plants captured at one instant.
type Scene struct {
	Date   time.Time
	plants []*Plant
}

// NewScene creates an empty scene.
func NewScene(date time.Time) *Scene {
	return &Scene{Date: date}
}

// AddPlant attaches p to the scene.
func (s *Scene) AddPlant(p *Plant) {
	p.scene = s
	s.plants = append(s.plants, p)
}

// Plants returns the plants in document order.
func (s *Scene) Plants() []*Plant { return s.plants }

// Roots returns every indexed root of every plant.
func (s *Scene) Roots() []*Root {
	var out []*Root
	for _, p := range s.plants {
		out = append(out, p.flat...)
	}
	return out
}

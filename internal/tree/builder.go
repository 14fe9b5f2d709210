// Package tree turns raw extraction records into the typed root graph.
package tree

import (
	"github.com/vvka-141/rootmodel/internal/extract"
	"github.com/vvka-141/rootmodel/internal/geometry"
	"github.com/vvka-141/rootmodel/internal/model"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// Builder links roots parent-first, mirroring extraction order.
type Builder struct {
	diags *rootmodel.Diagnostics
	file  string
}

// NewBuilder creates a builder reporting to diags, which may be nil.
func NewBuilder(diags *rootmodel.Diagnostics) *Builder {
	return &Builder{diags: diags}
}

// Build adds every plant of ext to scene and returns the roots retained,
// parent before children. Roots without geometry are dropped together with
// their subtree; they never reach a child list, a plant's root list or a
// flat index.
func (b *Builder) Build(scene *model.Scene, ext *extract.Extraction) []*model.Root {
	b.file = ext.Path

	var retained []*model.Root
	for _, rawScene := range ext.Scenes {
		for _, rawPlant := range rawScene.Plants {
			plant := model.NewPlant(rawPlant.ID, rawPlant.Label)
			for _, rawRoot := range rawPlant.Roots {
				root := b.root(rawRoot, nil)
				if root == nil {
					continue
				}
				plant.AddRoot(root)
				retained = append(retained, b.index(plant, root)...)
			}
			scene.AddPlant(plant)
		}
	}
	return retained
}

// root converts raw and its subtree. Returns nil when raw has no geometry.
func (b *Builder) root(raw *extract.RawRoot, parent *model.Root) *model.Root {
	if !raw.HasGeometry() {
		return nil
	}
	g, err := geometry.Join(raw.Polylines...)
	if err != nil {
		if b.diags != nil {
			b.diags.Addf(rootmodel.ErrNoValidRoot, b.file, raw.ID, "geometry", "cannot combine polylines: %v", err)
		}
		return nil
	}

	root := model.NewRoot(raw.ID, raw.Label, raw.Accession, raw.Order, g)
	root.Properties = raw.Properties
	for _, fn := range raw.Functions {
		root.Functions = append(root.Functions, model.Function{Name: fn.Name, Domain: fn.Domain, Samples: fn.Samples})
	}
	for _, ann := range raw.Annotations {
		root.Annotations = append(root.Annotations, model.Annotation{Name: ann.Name, Values: ann.Values})
	}

	if parent != nil {
		parent.AddChild(root)
	}
	for _, rawChild := range raw.Children {
		b.root(rawChild, root)
	}
	return root
}

// index registers root and its descendants in the plant's flat index.
func (b *Builder) index(plant *model.Plant, root *model.Root) []*model.Root {
	var out []*model.Root
	root.Walk(func(r *model.Root) {
		plant.Index(r)
		out = append(out, r)
	})
	return out
}

package store

import (
	"sort"
	"time"

	"github.com/vvka-141/rootmodel/internal/geometry"
	"github.com/vvka-141/rootmodel/internal/model"
)

// EntryRow is one dated entry of the model.
type EntryRow struct {
	EntryID     int64
	CaptureDate time.Time
	FileKey     string
	Version     float64
	Unit        string
	Resolution  float64
	Software    string
	User        string
	ModifyDate  time.Time
}

// RootRow is one retained root. RootKey is unique within one export;
// ParentKey is nil for first-order roots.
type RootRow struct {
	RootKey    int64
	EntryID    int64
	ParentKey  *int64
	PlantID    string
	PlantLabel string
	RootID     string
	Label      string
	Accession  string
	Order      int
	Geometry   string
	Length     float64
}

// PointRow is one polyline point. Time-annotated columns are nil for
// spatial geometry.
type PointRow struct {
	RootKey  int64
	Seq      int
	X        float64
	Y        float64
	T        *float64
	TH       *float64
	Diameter *float64
	VX       *float64
	VY       *float64
}

// PropertyRow is one scalar root property.
type PropertyRow struct {
	RootKey int64
	Name    string
	Value   float64
}

// FunctionRow is one function sample.
type FunctionRow struct {
	RootKey int64
	Name    string
	Seq     int
	Value   float64
}

// Rows is the relational form of a RootModel.
type Rows struct {
	Entries    []EntryRow
	Roots      []RootRow
	Points     []PointRow
	Properties []PropertyRow
	Functions  []FunctionRow
}

// Flatten converts m into rows. Entries keep ascending date order and
// roots keep plant, then depth-first, order.
func Flatten(m *model.RootModel) *Rows {
	rows := &Rows{}
	if m == nil {
		return rows
	}

	var nextKey int64
	for i, entry := range m.Entries() {
		entryID := int64(i + 1)
		rows.Entries = append(rows.Entries, entryRow(entryID, entry))
		if entry.Scene == nil {
			continue
		}

		keys := make(map[*model.Root]int64)
		for _, plant := range entry.Scene.Plants() {
			for _, root := range plant.All() {
				nextKey++
				keys[root] = nextKey
				rows.Roots = append(rows.Roots, rootRow(nextKey, entryID, plant, root, keys))
				rows.Points = append(rows.Points, pointRows(nextKey, root.Geometry())...)
				rows.Properties = append(rows.Properties, propertyRows(nextKey, root)...)
				rows.Functions = append(rows.Functions, functionRows(nextKey, root)...)
			}
		}
	}
	return rows
}

// functionRows emits one row per sample. Only the last function of a
// repeated name is kept, matching Root.Function.
func functionRows(key int64, r *model.Root) []FunctionRow {
	last := make(map[string]int, len(r.Functions))
	for i, fn := range r.Functions {
		last[fn.Name] = i
	}
	var out []FunctionRow
	for i, fn := range r.Functions {
		if last[fn.Name] != i {
			continue
		}
		for seq, v := range fn.Samples {
			out = append(out, FunctionRow{RootKey: key, Name: fn.Name, Seq: seq, Value: v})
		}
	}
	return out
}

func entryRow(id int64, e *model.Entry) EntryRow {
	row := EntryRow{EntryID: id, CaptureDate: e.Date}
	if md := e.Metadata; md != nil {
		row.FileKey = md.FileKey
		row.Version = md.Version
		row.Unit = md.Unit
		row.Resolution = md.Resolution
		row.Software = md.Software
		row.User = md.User
		row.ModifyDate = md.ModifyDate
	}
	return row
}

func rootRow(key, entryID int64, plant *model.Plant, r *model.Root, keys map[*model.Root]int64) RootRow {
	row := RootRow{
		RootKey:    key,
		EntryID:    entryID,
		PlantID:    plant.ID,
		PlantLabel: plant.Label,
		RootID:     r.ID,
		Label:      r.Label,
		Accession:  r.Accession,
		Order:      r.Order,
	}
	if parent := r.Parent(); parent != nil {
		if pk, ok := keys[parent]; ok {
			row.ParentKey = &pk
		}
	}
	if g := r.Geometry(); g != nil {
		row.Geometry = g.Kind().String()
		row.Length = g.TotalLength()
	}
	return row
}

func pointRows(key int64, g geometry.Geometry) []PointRow {
	var out []PointRow
	switch v := g.(type) {
	case *geometry.Polyline:
		for i, p := range v.Points {
			out = append(out, PointRow{RootKey: key, Seq: i, X: p.X, Y: p.Y})
		}
	case *geometry.TemporalPolyline:
		for i := range v.Points {
			p := v.Points[i]
			out = append(out, PointRow{
				RootKey: key, Seq: i, X: p.X, Y: p.Y,
				T: &p.Time, TH: &p.TimeHours, Diameter: &p.Diameter, VX: &p.VX, VY: &p.VY,
			})
		}
	}
	return out
}

func propertyRows(key int64, r *model.Root) []PropertyRow {
	names := make([]string, 0, len(r.Properties))
	for name := range r.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]PropertyRow, 0, len(names))
	for _, name := range names {
		out = append(out, PropertyRow{RootKey: key, Name: name, Value: r.Properties[name]})
	}
	return out
}

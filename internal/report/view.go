package report

import (
	"time"

	"github.com/vvka-141/rootmodel/internal/assembler"
	"github.com/vvka-141/rootmodel/internal/metrics"
	"github.com/vvka-141/rootmodel/internal/model"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// Report is the serializable view of an assembly run.
type Report struct {
	Mode        string       `json:"mode" yaml:"mode"`
	Files       []File       `json:"files" yaml:"files"`
	Aggregate   *Metadata    `json:"aggregate,omitempty" yaml:"aggregate,omitempty"`
	Entries     []Entry      `json:"entries" yaml:"entries"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

type File struct {
	Path         string    `json:"path" yaml:"path"`
	Status       string    `json:"status" yaml:"status"`
	CaptureDate  time.Time `json:"capture_date,omitempty" yaml:"capture_date,omitempty"`
	DateFallback bool      `json:"date_fallback,omitempty" yaml:"date_fallback,omitempty"`
	Checksum     string    `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Roots        int       `json:"roots" yaml:"roots"`
	Error        string    `json:"error,omitempty" yaml:"error,omitempty"`
}

type Metadata struct {
	Version             float64                    `json:"version" yaml:"version"`
	Unit                string                     `json:"unit" yaml:"unit"`
	Resolution          float64                    `json:"resolution" yaml:"resolution"`
	ModifyDate          time.Time                  `json:"modify_date" yaml:"modify_date"`
	Software            string                     `json:"software,omitempty" yaml:"software,omitempty"`
	User                string                     `json:"user,omitempty" yaml:"user,omitempty"`
	FileKey             string                     `json:"file_key" yaml:"file_key"`
	ObservationHours    []float64                  `json:"observation_hours,omitempty" yaml:"observation_hours,omitempty"`
	PropertyDefinitions []model.PropertyDefinition `json:"property_definitions,omitempty" yaml:"property_definitions,omitempty"`
	ImageInfo           map[string]string          `json:"image,omitempty" yaml:"image,omitempty"`
	CaptureDates        []time.Time                `json:"capture_dates" yaml:"capture_dates"`
}

type Entry struct {
	Date     time.Time `json:"date" yaml:"date"`
	Metadata *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Plants   []Plant   `json:"plants" yaml:"plants"`
}

type Plant struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Roots []Root `json:"roots" yaml:"roots"`
}

type Root struct {
	ID          string             `json:"id" yaml:"id"`
	Label       string             `json:"label,omitempty" yaml:"label,omitempty"`
	Accession   string             `json:"accession,omitempty" yaml:"accession,omitempty"`
	Order       int                `json:"order" yaml:"order"`
	Geometry    string             `json:"geometry" yaml:"geometry"`
	Points      int                `json:"points" yaml:"points"`
	Length      float64            `json:"length" yaml:"length"`
	Properties  map[string]float64 `json:"properties,omitempty" yaml:"properties,omitempty"`
	Functions   []model.Function   `json:"functions,omitempty" yaml:"functions,omitempty"`
	Annotations []model.Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Children    []Root             `json:"children,omitempty" yaml:"children,omitempty"`
}

type Diagnostic struct {
	Kind    string `json:"kind" yaml:"kind"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
	RootID  string `json:"root_id,omitempty" yaml:"root_id,omitempty"`
	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// Build converts an assembly result into a Report.
func Build(result *assembler.Result, mode rootmodel.Mode) *Report {
	r := &Report{Mode: mode.String()}
	if result == nil {
		return r
	}

	for _, f := range result.Files {
		file := File{
			Path:         f.Path,
			Status:       string(f.Status),
			CaptureDate:  f.CaptureDate,
			DateFallback: f.DateFallback,
			Checksum:     f.Checksum,
			Roots:        f.Roots,
		}
		if f.Err != nil {
			file.Error = f.Err.Error()
		}
		r.Files = append(r.Files, file)
	}

	r.Aggregate = metadataView(result.Aggregate)
	if result.Model != nil {
		for _, e := range result.Model.Entries() {
			r.Entries = append(r.Entries, entryView(e))
		}
	}

	for _, d := range result.Diagnostics {
		r.Diagnostics = append(r.Diagnostics, Diagnostic{
			Kind:    metrics.KindLabel(d.Kind),
			File:    d.File,
			RootID:  d.RootID,
			Field:   d.Field,
			Message: d.Message,
		})
	}
	return r
}

func metadataView(md *model.Metadata) *Metadata {
	if md == nil {
		return nil
	}
	return &Metadata{
		Version:             md.Version,
		Unit:                md.Unit,
		Resolution:          md.Resolution,
		ModifyDate:          md.ModifyDate,
		Software:            md.Software,
		User:                md.User,
		FileKey:             md.FileKey,
		ObservationHours:    md.ObservationHours,
		PropertyDefinitions: md.PropertyDefinitions,
		ImageInfo:           md.ImageInfo,
		CaptureDates:        md.CaptureDates(),
	}
}

func entryView(e *model.Entry) Entry {
	entry := Entry{Date: e.Date, Metadata: metadataView(e.Metadata)}
	if e.Scene == nil {
		return entry
	}
	for _, p := range e.Scene.Plants() {
		plant := Plant{ID: p.ID, Label: p.Label}
		for _, root := range p.Roots() {
			plant.Roots = append(plant.Roots, rootView(root))
		}
		entry.Plants = append(entry.Plants, plant)
	}
	return entry
}

func rootView(r *model.Root) Root {
	v := Root{
		ID:          r.ID,
		Label:       r.Label,
		Accession:   r.Accession,
		Order:       r.Order,
		Properties:  r.Properties,
		Functions:   r.Functions,
		Annotations: r.Annotations,
	}
	if g := r.Geometry(); g != nil {
		v.Geometry = g.Kind().String()
		v.Points = g.Len()
		v.Length = g.TotalLength()
	}
	for _, child := range r.Children() {
		v.Children = append(v.Children, rootView(child))
	}
	return v
}

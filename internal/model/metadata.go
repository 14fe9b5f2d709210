package model

import (
	"sort"
	"time"

	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// PropertyDefinition declares a scalar property used by roots.
type PropertyDefinition struct {
	Label string `json:"label" yaml:"label"`
	Type  string `json:"type" yaml:"type"`
	Unit  string `json:"unit" yaml:"unit"`
}

// Metadata is the header of one file, or the aggregate of several.
type Metadata struct {
	Version             float64
	Unit                string
	Resolution          float64
	ModifyDate          time.Time
	Software            string
	User                string
	FileKey             string
	ObservationHours    []float64
	PropertyDefinitions []PropertyDefinition
	ImageInfo           map[string]string

	captureDates []time.Time
}

// NewMetadata creates metadata with the numeric fields unset.
func NewMetadata() *Metadata {
	return &Metadata{
		Version:    rootmodel.UnsetNumber,
		Resolution: rootmodel.UnsetNumber,
		ImageInfo:  make(map[string]string),
	}
}

// AddCaptureDate inserts t keeping the set sorted and free of duplicates.
func (m *Metadata) AddCaptureDate(t time.Time) {
	i := sort.Search(len(m.captureDates), func(i int) bool {
		return !m.captureDates[i].Before(t)
	})
	if i < len(m.captureDates) && m.captureDates[i].Equal(t) {
		return
	}
	m.captureDates = append(m.captureDates, time.Time{})
	copy(m.captureDates[i+1:], m.captureDates[i:])
	m.captureDates[i] = t
}

// CaptureDates returns the capture dates in ascending order.
func (m *Metadata) CaptureDates() []time.Time {
	return m.captureDates
}

// FirstCaptureDate returns the earliest capture date and whether one exists.
func (m *Metadata) FirstCaptureDate() (time.Time, bool) {
	if len(m.captureDates) == 0 {
		return time.Time{}, false
	}
	return m.captureDates[0], true
}

// Clone returns a copy sharing no mutable state with m.
func (m *Metadata) Clone() *Metadata {
	out := *m
	out.captureDates = append([]time.Time(nil), m.captureDates...)
	out.ObservationHours = append([]float64(nil), m.ObservationHours...)
	out.PropertyDefinitions = append([]PropertyDefinition(nil), m.PropertyDefinitions...)
	out.ImageInfo = make(map[string]string, len(m.ImageInfo))
	for k, v := range m.ImageInfo {
		out.ImageInfo[k] = v
	}
	return &out
}

// Merge folds other into m. Capture dates accumulate; every other field
// keeps m's value. A unit or resolution disagreement is reported to diags
// as ErrMetadataMismatch and does not stop the merge.
func (m *Metadata) Merge(other *Metadata, file string, diags *rootmodel.Diagnostics) {
	for _, d := range other.captureDates {
		m.AddCaptureDate(d)
	}
	if diags == nil {
		return
	}
	if other.Resolution != m.Resolution {
		diags.Addf(rootmodel.ErrMetadataMismatch, file, "", "resolution",
			"resolution differs between files: kept %g, got %g", m.Resolution, other.Resolution)
	}
	if other.Unit != m.Unit {
		diags.Addf(rootmodel.ErrMetadataMismatch, file, "", "unit",
			"unit differs between files: kept %q, got %q", m.Unit, other.Unit)
	}
}

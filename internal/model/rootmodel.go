package model

import (
	"sort"
	"time"
)

// Entry bundles everything captured at one date.
type Entry struct {
	Date     time.Time
	Scene    *Scene
	Metadata *Metadata
	Roots    []*Root
}

// RootModel is an ascending date-indexed series of entries.
type RootModel struct {
	entries []*Entry
}

// New creates an empty model.
func New() *RootModel {
	return &RootModel{}
}

// Put stores e under e.Date. It reports whether an entry with the same
// date was replaced.
func (m *RootModel) Put(e *Entry) bool {
	i := sort.Search(len(m.entries), func(i int) bool {
		return !m.entries[i].Date.Before(e.Date)
	})
	if i < len(m.entries) && m.entries[i].Date.Equal(e.Date) {
		m.entries[i] = e
		return true
	}
	m.entries = append(m.entries, nil)
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = e
	return false
}

// Entries returns the entries in ascending date order.
func (m *RootModel) Entries() []*Entry { return m.entries }

// Len returns the number of entries.
func (m *RootModel) Len() int { return len(m.entries) }

// Dates returns the entry dates in ascending order.
func (m *RootModel) Dates() []time.Time {
	out := make([]time.Time, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Date
	}
	return out
}

// Entry returns the entry stored under date.
func (m *RootModel) Entry(date time.Time) (*Entry, bool) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return !m.entries[i].Date.Before(date)
	})
	if i < len(m.entries) && m.entries[i].Date.Equal(date) {
		return m.entries[i], true
	}
	return nil, false
}

// Aggregate merges the metadata of every entry, earliest first. Returns
// nil for an empty model. Mismatch diagnostics are not collected here.
func (m *RootModel) Aggregate() *Metadata {
	if len(m.entries) == 0 {
		return nil
	}
	agg := m.entries[0].Metadata.Clone()
	for _, e := range m.entries[1:] {
		agg.Merge(e.Metadata, "", nil)
	}
	return agg
}

// RootCount returns the number of retained roots across all entries.
func (m *RootModel) RootCount() int {
	n := 0
	for _, e := range m.entries {
		n += len(e.Roots)
	}
	return n
}

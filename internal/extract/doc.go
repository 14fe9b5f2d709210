// Package extract walks an RSML element tree and produces raw records.
//
// The engine descends scene → plant → root → nested root with the same
// shape at every level. Only direct child <root> elements of a node become
// its children. Each root's properties, functions, annotations and geometry
// are read from the part of its subtree it owns, i.e. without descending
// into nested roots.
//
// Geometry is read by a Strategy: SpatialStrategy reads x/y points,
// TemporalStrategy reads coord_t, coord_th, coord_x, coord_y, diameter,
// vx and vy. A point with an unparsable attribute is dropped, a polyline
// left empty is dropped, and a root with no surviving polyline is recorded
// without geometry and without children.
//
// Field-level problems are reported as rootmodel.Diagnostic values and never
// abort extraction. A document with no scene, or with no root carrying
// geometry, is rejected with ErrMissingScene or ErrNoValidRoot.
package extract

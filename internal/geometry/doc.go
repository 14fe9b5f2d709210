// Package geometry holds the two root centerline representations.
//
// A Geometry is either a Polyline (plain x, y points) or a TemporalPolyline
// (points carrying elapsed time, elapsed hours, diameter and velocity).
// The set is closed: both variants implement the unexported sealed method,
// and code that needs the concrete payload switches on the type.
//
// Coordinates are the only mutable state. Scale, Transform and
// TransformBeforeTime rewrite points in place; the point count never changes
// after construction except through Append.
package geometry

package geometry

import (
	"fmt"
	"time"
)

// Kind identifies the Geometry variant.
type Kind int

const (
	KindSpatial Kind = iota
	KindSpatioTemporal
)

func (k Kind) String() string {
	switch k {
	case KindSpatial:
		return "spatial"
	case KindSpatioTemporal:
		return "spatio-temporal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Geometry is the centerline of one root.
type Geometry interface {
	Kind() Kind
	// CaptureDate is the acquisition date of the file the geometry came from.
	CaptureDate() time.Time
	// Len returns the number of points.
	Len() int
	// Scale multiplies every coordinate by factor.
	Scale(factor float64)
	// TotalLength sums the distances between consecutive points.
	TotalLength() float64
	// LengthUntil sums the segment lengths up to elapsed time t.
	LengthUntil(t float64) float64
	// Transform applies tr to every point.
	Transform(tr Transform)
	// TransformBeforeTime applies tr to points observed at or before t.
	TransformBeforeTime(tr Transform, t float64)

	sealed()
}

var (
	_ Geometry = (*Polyline)(nil)
	_ Geometry = (*TemporalPolyline)(nil)
)

// Join concatenates same-kind parts into one Geometry, in order.
// The capture date of the first part is kept. Returns nil for no parts.
func Join(parts ...Geometry) (Geometry, error) {
	if len(parts) == 0 {
		return nil, nil
	}
	switch first := parts[0].(type) {
	case *Polyline:
		out := NewPolyline(nil, first.Date)
		for _, part := range parts {
			if err := out.Append(part); err != nil {
				return nil, err
			}
		}
		return out, nil
	case *TemporalPolyline:
		out := NewTemporalPolyline(nil, first.Date)
		for _, part := range parts {
			if err := out.Append(part); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported geometry %T", first)
	}
}

// Equal reports whether a and b are the same variant with identical points.
func Equal(a, b Geometry) bool {
	switch av := a.(type) {
	case *Polyline:
		bv, ok := b.(*Polyline)
		if !ok || len(av.Points) != len(bv.Points) {
			return false
		}
		for i := range av.Points {
			if av.Points[i] != bv.Points[i] {
				return false
			}
		}
		return true
	case *TemporalPolyline:
		bv, ok := b.(*TemporalPolyline)
		if !ok || len(av.Points) != len(bv.Points) {
			return false
		}
		for i := range av.Points {
			if av.Points[i] != bv.Points[i] {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

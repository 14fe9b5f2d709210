package geometry

import (
	"fmt"
	"time"
)

// TemporalPolyline is an ordered sequence of time-annotated points.
// Points are expected in growth order, so elapsed time is non-decreasing
// along the sequence.
type TemporalPolyline struct {
	Points []TimedPoint
	Date   time.Time
}

// NewTemporalPolyline returns a TemporalPolyline owning points.
func NewTemporalPolyline(points []TimedPoint, date time.Time) *TemporalPolyline {
	return &TemporalPolyline{Points: points, Date: date}
}

func (p *TemporalPolyline) sealed() {}

func (p *TemporalPolyline) Kind() Kind { return KindSpatioTemporal }

func (p *TemporalPolyline) CaptureDate() time.Time { return p.Date }

func (p *TemporalPolyline) Len() int { return len(p.Points) }

func (p *TemporalPolyline) Scale(factor float64) {
	for i := range p.Points {
		p.Points[i].X *= factor
		p.Points[i].Y *= factor
	}
}

func (p *TemporalPolyline) TotalLength() float64 {
	total := 0.0
	for i := 1; i < len(p.Points); i++ {
		total += p.Points[i-1].Distance(p.Points[i].Point)
	}
	return total
}

// LengthUntil sums segments while the segment end point has Time <= t.
// It stops at the first point observed after t.
func (p *TemporalPolyline) LengthUntil(t float64) float64 {
	total := 0.0
	for i := 1; i < len(p.Points); i++ {
		if p.Points[i].Time > t {
			break
		}
		total += p.Points[i-1].Distance(p.Points[i].Point)
	}
	return total
}

func (p *TemporalPolyline) Transform(tr Transform) {
	for i := range p.Points {
		apply(tr, &p.Points[i].Point)
	}
}

// TransformBeforeTime applies tr to the prefix of points with Time <= t.
func (p *TemporalPolyline) TransformBeforeTime(tr Transform, t float64) {
	for i := range p.Points {
		if p.Points[i].Time > t {
			break
		}
		apply(tr, &p.Points[i].Point)
	}
}

// MaxTime returns the largest elapsed time among the points, or 0 when empty.
func (p *TemporalPolyline) MaxTime() float64 {
	maxT := 0.0
	for i, pt := range p.Points {
		if i == 0 || pt.Time > maxT {
			maxT = pt.Time
		}
	}
	return maxT
}

// Append adds a TimedPoint, a []TimedPoint, an "x,y,t" literal, or the
// points of another *TemporalPolyline.
func (p *TemporalPolyline) Append(v interface{}) error {
	switch x := v.(type) {
	case TimedPoint:
		p.Points = append(p.Points, x)
	case []TimedPoint:
		p.Points = append(p.Points, x...)
	case *TemporalPolyline:
		p.Points = append(p.Points, x.Points...)
	case string:
		pt, err := ParseTimedPoint(x)
		if err != nil {
			return err
		}
		p.Points = append(p.Points, pt)
	default:
		return fmt.Errorf("cannot append %T to a spatio-temporal polyline", v)
	}
	return nil
}

package geometry

import (
	"fmt"
	"time"
)

// Polyline is an ordered sequence of plain points.
type Polyline struct {
	Points []Point
	Date   time.Time
}

// NewPolyline returns a Polyline owning points.
func NewPolyline(points []Point, date time.Time) *Polyline {
	return &Polyline{Points: points, Date: date}
}

func (p *Polyline) sealed() {}

func (p *Polyline) Kind() Kind { return KindSpatial }

func (p *Polyline) CaptureDate() time.Time { return p.Date }

func (p *Polyline) Len() int { return len(p.Points) }

func (p *Polyline) Scale(factor float64) {
	for i := range p.Points {
		p.Points[i].X *= factor
		p.Points[i].Y *= factor
	}
}

func (p *Polyline) TotalLength() float64 {
	total := 0.0
	for i := 1; i < len(p.Points); i++ {
		total += p.Points[i-1].Distance(p.Points[i])
	}
	return total
}

// LengthUntil equals TotalLength: a plain polyline has no time axis.
func (p *Polyline) LengthUntil(float64) float64 {
	return p.TotalLength()
}

func (p *Polyline) Transform(tr Transform) {
	for i := range p.Points {
		apply(tr, &p.Points[i])
	}
}

// TransformBeforeTime equals Transform: a plain polyline has no time axis.
func (p *Polyline) TransformBeforeTime(tr Transform, _ float64) {
	p.Transform(tr)
}

// Append adds a Point, a []Point, or the points of another *Polyline.
func (p *Polyline) Append(v interface{}) error {
	switch x := v.(type) {
	case Point:
		p.Points = append(p.Points, x)
	case []Point:
		p.Points = append(p.Points, x...)
	case *Polyline:
		p.Points = append(p.Points, x.Points...)
	case string:
		pt, err := ParsePoint(x)
		if err != nil {
			return err
		}
		p.Points = append(p.Points, pt)
	default:
		return fmt.Errorf("cannot append %T to a spatial polyline", v)
	}
	return nil
}

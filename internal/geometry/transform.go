package geometry

// Transform maps a point to a new location. Implementations are supplied
// by registration tooling; this package only applies them. The third input
// coordinate is always 0 for 2D geometry.
type Transform interface {
	TransformPoint(x, y, z float64) (float64, float64)
}

// TransformFunc adapts a plain function to Transform.
type TransformFunc func(x, y, z float64) (float64, float64)

// TransformPoint calls f.
func (f TransformFunc) TransformPoint(x, y, z float64) (float64, float64) {
	return f(x, y, z)
}

func apply(t Transform, p *Point) {
	p.X, p.Y = t.TransformPoint(p.X, p.Y, 0)
}

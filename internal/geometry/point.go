package geometry

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Point is a 2D image-space coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// TimedPoint is a Point observed at an elapsed time, with the
// kinematics recorded by time-lapse tracking.
type TimedPoint struct {
	Point
	Time      float64 `json:"t" yaml:"t"`
	TimeHours float64 `json:"th" yaml:"th"`
	Diameter  float64 `json:"diameter" yaml:"diameter"`
	VX        float64 `json:"vx" yaml:"vx"`
	VY        float64 `json:"vy" yaml:"vy"`
}

// bracketed matches "(x, y)" or "[x, y, t]" style literals.
var bracketed = regexp.MustCompile(`^[\[(]\s*(.*?)\s*[\])]$`)

// splitNumbers splits a comma-separated literal, optionally wrapped in
// brackets or parentheses, into exactly want floats.
func splitNumbers(s string, want int) ([]float64, error) {
	s = strings.TrimSpace(s)
	if m := bracketed.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d comma-separated values, got %d in %q", want, len(parts), s)
	}
	out := make([]float64, want)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", strings.TrimSpace(part), err)
		}
		out[i] = v
	}
	return out, nil
}

// ParsePoint parses "x,y", "(x, y)" or "[x, y]".
func ParsePoint(s string) (Point, error) {
	v, err := splitNumbers(s, 2)
	if err != nil {
		return Point{}, err
	}
	return Point{X: v[0], Y: v[1]}, nil
}

// ParseTimedPoint parses "x,y,t" (optionally bracketed). The single time
// value is used for both elapsed time and elapsed hours.
func ParseTimedPoint(s string) (TimedPoint, error) {
	v, err := splitNumbers(s, 3)
	if err != nil {
		return TimedPoint{}, err
	}
	return TimedPoint{Point: Point{X: v[0], Y: v[1]}, Time: v[2], TimeHours: v[2]}, nil
}

package extract

import (
	"time"

	"github.com/beevik/etree"

	"github.com/vvka-141/rootmodel/internal/document"
	"github.com/vvka-141/rootmodel/internal/geometry"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// Strategy reads the geometry owned by one root element.
type Strategy interface {
	// Kind is the geometry variant produced.
	Kind() geometry.Kind

	// ParsePolyline converts one <polyline> into a geometry value. Invalid
	// points are dropped and reported through report. The result may be empty.
	ParsePolyline(polyline *etree.Element, date time.Time, report func(field, format string, args ...interface{})) geometry.Geometry
}

// StrategyFor returns the strategy matching a run mode.
func StrategyFor(mode rootmodel.Mode) Strategy {
	if mode == rootmodel.ModeTemporal {
		return TemporalStrategy{}
	}
	return SpatialStrategy{}
}

// SpatialStrategy reads points with x and y attributes.
type SpatialStrategy struct{}

func (SpatialStrategy) Kind() geometry.Kind { return geometry.KindSpatial }

func (SpatialStrategy) ParsePolyline(polyline *etree.Element, date time.Time, report func(string, string, ...interface{})) geometry.Geometry {
	var points []geometry.Point
	for _, pt := range document.Descendants(polyline, "point") {
		x, okX := parseNumber(document.Attr(pt, "x"))
		y, okY := parseNumber(document.Attr(pt, "y"))
		if !okX || !okY {
			report("point", "invalid point coordinates x=%q y=%q", document.Attr(pt, "x"), document.Attr(pt, "y"))
			continue
		}
		points = append(points, geometry.Point{X: x, Y: y})
	}
	return geometry.NewPolyline(points, date)
}

// temporalAttrs are the attributes every time-annotated point must carry.
var temporalAttrs = []string{"coord_t", "coord_th", "coord_x", "coord_y", "diameter", "vx", "vy"}

// TemporalStrategy reads time-annotated points.
type TemporalStrategy struct{}

func (TemporalStrategy) Kind() geometry.Kind { return geometry.KindSpatioTemporal }

func (TemporalStrategy) ParsePolyline(polyline *etree.Element, date time.Time, report func(string, string, ...interface{})) geometry.Geometry {
	var points []geometry.TimedPoint
	for _, pt := range document.Descendants(polyline, "point") {
		var values [7]float64
		valid := true
		for i, attr := range temporalAttrs {
			v, ok := parseNumber(document.Attr(pt, attr))
			if !ok {
				report(attr, "invalid point attribute %s=%q", attr, document.Attr(pt, attr))
				valid = false
				break
			}
			values[i] = v
		}
		if !valid {
			continue
		}
		points = append(points, geometry.TimedPoint{
			Time:      values[0],
			TimeHours: values[1],
			Point:     geometry.Point{X: values[2], Y: values[3]},
			Diameter:  values[4],
			VX:        values[5],
			VY:        values[6],
		})
	}
	return geometry.NewTemporalPolyline(points, date)
}

package extract

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rootmodel/internal/document"
	"github.com/vvka-141/rootmodel/internal/geometry"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

var captured = time.Date(2018, 5, 13, 0, 0, 0, 0, time.UTC)

const twoScenes = `<rsml xmlns:po="http://www.plantontology.org/xml-dtd/po.dtd">
  <metadata>
    <version>1</version>
    <unit>cm</unit>
    <resolution>300</resolution>
    <observation-hours>2.5, 1.0</observation-hours>
    <property-definitions>
      <property-definition><label>length</label><type>float</type></property-definition>
    </property-definitions>
  </metadata>
  <scene>
    <plant ID="p1" label="col0">
      <root ID="R1" label="primary" po:accession="PO:0009005">
        <properties><length>7</length><angle>n/a</angle></properties>
        <geometry><polyline>
          <point x="0" y="0"/><point x="3" y="0"/><point x="3" y="4"/>
        </polyline></geometry>
        <functions>
          <function name="diameter" domain="polyline"><sample>0.5</sample><sample>x</sample><sample>0.4</sample></function>
          <function name="empty"><sample>bad</sample></function>
        </functions>
        <annotations>
          <annotation name="note"><value>kinked</value><software>RSA</software></annotation>
        </annotations>
        <root ID="R1.1" label="lateral">
          <geometry><polyline><point x="3" y="0"/><point x="a" y="2"/><point x="5" y="0"/></polyline></geometry>
          <root ID="R1.1.1"><geometry><polyline><point x="4" y="0"/><point x="4" y="1"/></polyline></geometry></root>
        </root>
        <root ID="R1.2"><geometry><polyline><point x="bad" y="0"/></polyline></geometry>
          <root ID="R1.2.1"><geometry><polyline><point x="1" y="1"/></polyline></geometry></root>
        </root>
      </root>
    </plant>
  </scene>
  <scene>
    <plant ID="p2">
      <root ID="R1"><geometry><polyline><point x="0" y="0"/><point x="3" y="0"/><point x="3" y="4"/></polyline></geometry></root>
    </plant>
  </scene>
</rsml>`

func extract(t *testing.T, xml string, strategy Strategy) (*Extraction, *rootmodel.Diagnostics, error) {
	t.Helper()
	doc, err := document.Parse("/data/plate.rsml", []byte(xml))
	require.NoError(t, err)
	var diags rootmodel.Diagnostics
	out, err := NewEngine(strategy).Extract(doc, captured, &diags)
	return out, &diags, err
}

func TestExtract_Hierarchy(t *testing.T) {
	out, diags, err := extract(t, twoScenes, SpatialStrategy{})
	require.NoError(t, err)

	require.Len(t, out.Scenes, 2)
	require.Len(t, out.Scenes[0].Plants, 1)
	plant := out.Scenes[0].Plants[0]
	assert.Equal(t, "p1", plant.ID)
	assert.Equal(t, "col0", plant.Label)

	require.Len(t, plant.Roots, 1)
	r1 := plant.Roots[0]
	assert.Equal(t, "R1", r1.ID)
	assert.Equal(t, "PO:0009005", r1.Accession)
	assert.Equal(t, 1, r1.Order)
	require.Len(t, r1.Children, 2)

	lateral := r1.Children[0]
	assert.Equal(t, 2, lateral.Order)
	require.Len(t, lateral.Children, 1)
	assert.Equal(t, 3, lateral.Children[0].Order)

	skipped := r1.Children[1]
	assert.Equal(t, "R1.2", skipped.ID)
	assert.False(t, skipped.HasGeometry())
	assert.Empty(t, skipped.Children, "children of a geometry-less root are not parsed")

	var flatIDs []string
	for _, r := range out.Flat {
		flatIDs = append(flatIDs, r.ID)
	}
	assert.Equal(t, []string{"R1.1.1", "R1.1", "R1", "R1"}, flatIDs)

	assert.Equal(t, 1, diags.Count(rootmodel.ErrNoValidRoot))
}

func TestExtract_TotalLengthOfFirstOrderRoot(t *testing.T) {
	out, _, err := extract(t, twoScenes, SpatialStrategy{})
	require.NoError(t, err)

	for _, scene := range out.Scenes {
		r1 := scene.Plants[0].Roots[0]
		g, err := geometry.Join(r1.Polylines...)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, g.TotalLength(), 1e-9)
		assert.Equal(t, captured, g.CaptureDate())
	}
}

func TestExtract_InvalidPointDropped(t *testing.T) {
	out, diags, err := extract(t, twoScenes, SpatialStrategy{})
	require.NoError(t, err)

	lateral := out.Scenes[0].Plants[0].Roots[0].Children[0]
	require.Len(t, lateral.Polylines, 1)
	pl := lateral.Polylines[0].(*geometry.Polyline)
	assert.Equal(t, []geometry.Point{{X: 3, Y: 0}, {X: 5, Y: 0}}, pl.Points)

	var pointDiag *rootmodel.Diagnostic
	for _, d := range diags.Items() {
		if d.RootID == "R1.1" && errors.Is(d, rootmodel.ErrInvalidNumericField) {
			d := d
			pointDiag = &d
		}
	}
	require.NotNil(t, pointDiag)
	assert.Equal(t, "/data/plate.rsml", pointDiag.File)
}

func TestExtract_PropertiesFunctionsAnnotations(t *testing.T) {
	out, diags, err := extract(t, twoScenes, SpatialStrategy{})
	require.NoError(t, err)
	r1 := out.Scenes[0].Plants[0].Roots[0]

	assert.Equal(t, map[string]float64{"length": 7}, r1.Properties)

	want := []RawFunction{{Name: "diameter", Domain: "polyline", Samples: []float64{0.5, 0.4}}}
	if diff := cmp.Diff(want, r1.Functions); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}

	wantAnn := []RawAnnotation{{Name: "note", Values: map[string]string{"value": "kinked", "software": "RSA"}}}
	if diff := cmp.Diff(wantAnn, r1.Annotations, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}

	lateral := r1.Children[0]
	assert.Nil(t, lateral.Properties, "nested root does not inherit parent properties")
	assert.Empty(t, lateral.Functions)

	fields := map[string]bool{}
	for _, d := range diags.Items() {
		if d.RootID == "R1" {
			fields[d.Field] = true
		}
	}
	assert.True(t, fields["angle"])
	assert.True(t, fields["function:diameter"])
	assert.True(t, fields["function:empty"])
}

func TestExtract_Metadata(t *testing.T) {
	out, _, err := extract(t, twoScenes, SpatialStrategy{})
	require.NoError(t, err)

	md := out.Metadata
	assert.True(t, md.Present)
	assert.Equal(t, "1", md.Version)
	assert.Equal(t, "cm", md.Unit)
	assert.Equal(t, "300", md.Resolution)
	assert.Equal(t, []float64{0, 1.0, 2.5}, md.ObservationHours)
	assert.Equal(t, []RawPropertyDefinition{{Label: "length", Type: "float", Unit: rootmodel.UnknownValue}}, md.PropertyDefinitions)
}

func TestExtractMetadata_Defaults(t *testing.T) {
	doc, err := document.Parse("a.rsml", []byte(`<rsml><metadata><image><unit>px</unit><captured>x</captured></image></metadata></rsml>`))
	require.NoError(t, err)

	md := ExtractMetadata(doc, nil)
	assert.Equal(t, "-1", md.Version)
	assert.Equal(t, "-1", md.Resolution)
	assert.Equal(t, "", md.Unit, "unit nested under image is not picked up")
	assert.Nil(t, md.ObservationHours)
	assert.Equal(t, map[string]string{"unit": "px", "captured": "x"}, md.Image)
}

func TestParseObservationHours(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []float64
		invalid []string
	}{
		{name: "sorted with zero prepended", raw: "4, x, 1.5,, 3", want: []float64{0, 1.5, 3, 4}, invalid: []string{"x"}},
		{name: "NaN rejected", raw: "NaN, 1.0", want: []float64{0, 1}, invalid: []string{"NaN"}},
		{name: "infinities rejected", raw: "Inf, +Inf, -Inf, 2", want: []float64{0, 2}, invalid: []string{"Inf", "+Inf", "-Inf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var invalid []string
			got := parseObservationHours(tt.raw, func(e string) { invalid = append(invalid, e) })
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.invalid, invalid)
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{in: " 2.5 ", want: 2.5, ok: true},
		{in: "-1", want: -1, ok: true},
		{in: "1e3", want: 1000, ok: true},
		{in: "abc"},
		{in: ""},
		{in: "NaN"},
		{in: "nan"},
		{in: "Inf"},
		{in: "+Inf"},
		{in: "-Infinity"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_NonFinitePointDropped(t *testing.T) {
	const xml = `<rsml><scene><plant><root ID="R1"><geometry><polyline>
  <point x="0" y="0"/><point x="NaN" y="1"/><point x="2" y="Inf"/><point x="3" y="4"/>
</polyline></geometry>
<functions><function name="diameter"><sample>NaN</sample><sample>0.3</sample></function></functions>
<properties><length>+Inf</length><width>2</width></properties>
</root></plant></scene></rsml>`

	out, diags, err := extract(t, xml, SpatialStrategy{})
	require.NoError(t, err)

	r1 := out.Scenes[0].Plants[0].Roots[0]
	pl := r1.Polylines[0].(*geometry.Polyline)
	assert.Equal(t, []geometry.Point{{X: 0, Y: 0}, {X: 3, Y: 4}}, pl.Points)
	assert.InDelta(t, 5.0, pl.TotalLength(), 1e-9)
	assert.Equal(t, map[string]float64{"width": 2}, r1.Properties)
	require.Len(t, r1.Functions, 1)
	assert.Equal(t, []float64{0.3}, r1.Functions[0].Samples)
	assert.Equal(t, 4, diags.Count(rootmodel.ErrInvalidNumericField))
}

func TestExtract_RejectsEmptyDocuments(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		kind error
	}{
		{name: "no scene", xml: `<rsml><metadata/></rsml>`, kind: rootmodel.ErrMissingScene},
		{name: "no plant", xml: `<rsml><scene/></rsml>`, kind: rootmodel.ErrNoValidRoot},
		{name: "only invalid points", xml: `<rsml><scene><plant><root ID="r"><geometry><polyline><point x="a" y="b"/></polyline></geometry></root></plant></scene></rsml>`, kind: rootmodel.ErrNoValidRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := extract(t, tt.xml, SpatialStrategy{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestTemporalStrategy(t *testing.T) {
	xml := `<rsml><scene><plant><root ID="t1"><geometry><polyline>
  <point coord_t="0" coord_th="0" coord_x="0" coord_y="0" diameter="1" vx="0" vy="0"/>
  <point coord_t="1" coord_th="12" coord_x="0" coord_y="2" diameter="1" vx="0" vy="2"/>
  <point coord_t="2" coord_th="24" coord_x="0" coord_y="5" diameter="oops" vx="0" vy="3"/>
  <point x="1" y="1"/>
</polyline></geometry></root></plant></scene></rsml>`

	out, diags, err := extract(t, xml, TemporalStrategy{})
	require.NoError(t, err)

	r := out.Scenes[0].Plants[0].Roots[0]
	require.Len(t, r.Polylines, 1)
	tp, ok := r.Polylines[0].(*geometry.TemporalPolyline)
	require.True(t, ok)
	require.Len(t, tp.Points, 2)
	assert.Equal(t, 12.0, tp.Points[1].TimeHours)
	assert.Equal(t, 2.0, tp.Points[1].VY)
	assert.Equal(t, 2, diags.Count(rootmodel.ErrInvalidNumericField))
}

func TestStrategyFor(t *testing.T) {
	assert.Equal(t, geometry.KindSpatial, StrategyFor(rootmodel.ModeSnapshot).Kind())
	assert.Equal(t, geometry.KindSpatioTemporal, StrategyFor(rootmodel.ModeTemporal).Kind())
}

func TestExtract_RepeatedFunctionNameKeepsLast(t *testing.T) {
	const xml = `<rsml><scene><plant><root ID="R1">
<geometry><polyline><point x="0" y="0"/><point x="1" y="0"/></polyline></geometry>
<functions>
  <function name="diameter"><sample>1</sample></function>
  <function name="width"><sample>5</sample></function>
  <function name="diameter"><sample>2</sample></function>
</functions>
</root></plant></scene></rsml>`

	out, diags, err := extract(t, xml, SpatialStrategy{})
	require.NoError(t, err)

	want := []RawFunction{
		{Name: "diameter", Samples: []float64{2}},
		{Name: "width", Samples: []float64{5}},
	}
	if diff := cmp.Diff(want, out.Scenes[0].Plants[0].Roots[0].Functions); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, diags.Count(rootmodel.ErrDuplicateFunction))
}

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rootmodel/internal/geometry"
	"github.com/vvka-141/rootmodel/internal/model"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

var day1 = time.Date(2018, 5, 13, 0, 0, 0, 0, time.UTC)

// sampleModel has one entry with a primary root R1 (two properties,
// one function) carrying lateral R1.1, and a temporal entry a day later.
func sampleModel() *model.RootModel {
	m := model.New()

	scene := model.NewScene(day1)
	plant := model.NewPlant("p1", "plant one")
	r1 := model.NewRoot("R1", "primary", "Col-0", 1, geometry.NewPolyline([]geometry.Point{{X: 0, Y: 0}, {X: 0, Y: 3}, {X: 4, Y: 3}}, day1))
	r1.Properties = map[string]float64{"length": 7, "angle": 0.5}
	r1.Functions = []model.Function{{Name: "diameter", Samples: []float64{1.5, 1.25}}}
	lateral := model.NewRoot("R1.1", "lateral", "Col-0", 2, geometry.NewPolyline([]geometry.Point{{X: 0, Y: 1}, {X: 2, Y: 1}}, day1))
	plant.AddRoot(r1)
	r1.AddChild(lateral)
	plant.Index(r1)
	plant.Index(lateral)
	scene.AddPlant(plant)

	md := model.NewMetadata()
	md.FileKey = "plate-1"
	md.Unit = "cm"
	md.Resolution = 300
	m.Put(&model.Entry{Date: day1, Scene: scene, Metadata: md, Roots: []*model.Root{r1, lateral}})

	day2 := day1.Add(24 * time.Hour)
	scene2 := model.NewScene(day2)
	plant2 := model.NewPlant("p1", "")
	timed := model.NewRoot("R1", "", "", 1, geometry.NewTemporalPolyline([]geometry.TimedPoint{
		{Point: geometry.Point{X: 0, Y: 0}, Time: 1, TimeHours: 24, Diameter: 0.3},
		{Point: geometry.Point{X: 0, Y: 5}, Time: 2, TimeHours: 48, Diameter: 0.2},
	}, day2))
	plant2.AddRoot(timed)
	plant2.Index(timed)
	scene2.AddPlant(plant2)
	m.Put(&model.Entry{Date: day2, Scene: scene2, Metadata: model.NewMetadata(), Roots: []*model.Root{timed}})

	return m
}

func TestFlatten(t *testing.T) {
	rows := Flatten(sampleModel())

	require.Len(t, rows.Entries, 2)
	assert.Equal(t, int64(1), rows.Entries[0].EntryID)
	assert.Equal(t, day1, rows.Entries[0].CaptureDate)
	assert.Equal(t, "cm", rows.Entries[0].Unit)

	require.Len(t, rows.Roots, 3)
	assert.Nil(t, rows.Roots[0].ParentKey)
	require.NotNil(t, rows.Roots[1].ParentKey)
	assert.Equal(t, rows.Roots[0].RootKey, *rows.Roots[1].ParentKey)
	assert.Equal(t, "p1", rows.Roots[0].PlantID)
	assert.Equal(t, "spatial", rows.Roots[0].Geometry)
	assert.InDelta(t, 7.0, rows.Roots[0].Length, 1e-9)
	assert.Equal(t, "spatio-temporal", rows.Roots[2].Geometry)
	assert.Equal(t, int64(2), rows.Roots[2].EntryID)

	assert.Len(t, rows.Points, 3+2+2)
	last := rows.Points[len(rows.Points)-1]
	require.NotNil(t, last.TH)
	assert.Equal(t, 48.0, *last.TH)
	assert.Nil(t, rows.Points[0].T)

	require.Len(t, rows.Properties, 2)
	assert.Equal(t, "angle", rows.Properties[0].Name, "properties sorted by name")
	assert.Len(t, rows.Functions, 2)
	assert.Equal(t, 1, rows.Functions[1].Seq)
}

func TestFlatten_Nil(t *testing.T) {
	rows := Flatten(nil)
	assert.Empty(t, rows.Entries)
	assert.Empty(t, rows.Roots)
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestSQLiteExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "roots.db")
	exp, err := NewSQLiteExporter(path)
	require.NoError(t, err)
	defer exp.Close()

	ctx := context.Background()
	_, err = ExportModel(ctx, exp, sampleModel())
	require.NoError(t, err)

	// second export replaces rather than appends
	_, err = ExportModel(ctx, exp, sampleModel())
	require.NoError(t, err)

	db := exp.DB()
	assert.Equal(t, 2, count(t, db, "entries"))
	assert.Equal(t, 3, count(t, db, "roots"))
	assert.Equal(t, 7, count(t, db, "points"))
	assert.Equal(t, 2, count(t, db, "properties"))
	assert.Equal(t, 2, count(t, db, "functions"))

	var parent string
	require.NoError(t, db.QueryRow(
		`SELECT p.root_id FROM roots c JOIN roots p ON c.parent_key = p.root_key WHERE c.root_id = 'R1.1'`).Scan(&parent))
	assert.Equal(t, "R1", parent)

	var nullTimes int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM points WHERE t IS NULL`).Scan(&nullTimes))
	assert.Equal(t, 5, nullTimes)

	var captured string
	require.NoError(t, db.QueryRow(`SELECT capture_date FROM entries WHERE entry_id = 1`).Scan(&captured))
	assert.Equal(t, "2018-05-13T00:00:00Z", captured)
}

func TestSQLiteExporter_EmptyPath(t *testing.T) {
	_, err := NewSQLiteExporter("")
	assert.Error(t, err)
}

type failingExporter struct{}

func (failingExporter) Export(context.Context, *Rows) error { return assert.AnError }
func (failingExporter) Close() error                        { return nil }

func TestExportModel_WrapsFailure(t *testing.T) {
	_, err := ExportModel(context.Background(), failingExporter{}, sampleModel())
	assert.ErrorIs(t, err, rootmodel.ErrExportFailed)
}

func TestSQLiteExporter_RepeatedFunctionName(t *testing.T) {
	m := sampleModel()
	r1 := m.Entries()[0].Roots[0]
	r1.Functions = append(r1.Functions, model.Function{Name: "diameter", Samples: []float64{2}})

	rows := Flatten(m)
	require.Len(t, rows.Functions, 1)
	assert.Equal(t, 2.0, rows.Functions[0].Value, "last function of a repeated name is kept")

	exp, err := NewSQLiteExporter(filepath.Join(t.TempDir(), "roots.db"))
	require.NoError(t, err)
	defer exp.Close()

	_, err = ExportModel(context.Background(), exp, m)
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, exp.DB(), "functions"))
}

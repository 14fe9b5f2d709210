package assembler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vvka-141/rootmodel/internal/dates"
	"github.com/vvka-141/rootmodel/internal/document"
	"github.com/vvka-141/rootmodel/internal/files/filesystem"
	"github.com/vvka-141/rootmodel/internal/geometry"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2018, 5, d, 0, 0, 0, 0, time.UTC)
}

func spatialDoc(unit, resolution string, rootIDs ...string) string {
	roots := ""
	for i, id := range rootIDs {
		roots += fmt.Sprintf(`<root ID="%s"><geometry><polyline><point x="%d" y="0"/><point x="%d" y="1"/></polyline></geometry></root>`, id, i, i)
	}
	return fmt.Sprintf(`<rsml><metadata><unit>%s</unit><resolution>%s</resolution><observation-hours>2.5, 1.0</observation-hours></metadata>
<scene><plant ID="p">%s</plant></scene></rsml>`, unit, resolution, roots)
}

const temporalDoc = `<rsml><metadata><unit>cm</unit><resolution>300</resolution></metadata>
<scene><plant><root ID="t"><geometry><polyline>
  <point coord_t="0" coord_th="0" coord_x="0" coord_y="0" diameter="1" vx="0" vy="0"/>
  <point coord_t="1" coord_th="12" coord_x="0" coord_y="3" diameter="1" vx="0" vy="3"/>
  <point coord_t="2" coord_th="24" coord_x="4" coord_y="3" diameter="1" vx="4" vy="0"/>
</polyline></geometry></root></plant></scene></rsml>`

func newAssembler(files map[string]string) *Assembler {
	mfs := filesystem.NewMemoryFileSystem("/data")
	for name, content := range files {
		mfs.AddFile(name, content)
	}
	return New(document.NewLoaderWithFS(mfs), dates.NewResolver(dates.FixedClock{T: fixedNow}), nil)
}

func TestAssemble_NoInput(t *testing.T) {
	_, err := newAssembler(nil).Assemble(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, rootmodel.ErrNoInput)
}

func TestAssemble_Snapshot(t *testing.T) {
	asm := newAssembler(map[string]string{
		"15_05_2018_a.rsml": spatialDoc("cm", "300", "A1", "A2"),
		"13_05_2018_b.rsml": spatialDoc("mm", "300", "B1"),
	})

	res, err := asm.Assemble(context.Background(),
		[]string{"/data/15_05_2018_a.rsml", "/data/13_05_2018_b.rsml"},
		Options{Mode: rootmodel.ModeSnapshot})
	require.NoError(t, err)

	require.Equal(t, 1, res.Model.Len())
	entry := res.Model.Entries()[0]
	assert.Equal(t, day(13), entry.Date, "snapshot keyed by earliest capture date")
	assert.Len(t, entry.Roots, 3)
	assert.Len(t, entry.Scene.Plants(), 2)
	assert.Equal(t, []time.Time{day(13), day(15)}, entry.Metadata.CaptureDates())
	assert.Equal(t, "cm", entry.Metadata.Unit, "first file's unit kept")
	assert.Equal(t, []float64{0, 1, 2.5}, entry.Metadata.ObservationHours)

	var mismatches int
	for _, d := range res.Diagnostics {
		if errors.Is(d, rootmodel.ErrMetadataMismatch) {
			mismatches++
			assert.Equal(t, "unit", d.Field)
		}
	}
	assert.Equal(t, 1, mismatches)

	_, isSpatial := entry.Roots[0].Geometry().(*geometry.Polyline)
	assert.True(t, isSpatial)
	assert.Equal(t, 2, res.Loaded())
}

func TestAssemble_Temporal(t *testing.T) {
	asm := newAssembler(map[string]string{
		"14_05_2018.rsml":  temporalDoc,
		"13_05_2018.rsml":  temporalDoc,
		"16_05_2018.rsml":  temporalDoc,
		"13_05_2018b.rsml": temporalDoc,
	})

	res, err := asm.Assemble(context.Background(), []string{
		"/data/14_05_2018.rsml",
		"/data/13_05_2018.rsml",
		"/data/16_05_2018.rsml",
		"/data/13_05_2018b.rsml",
	}, Options{Mode: rootmodel.ModeTemporal})
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(13), day(14), day(16)}, res.Model.Dates())
	assert.Equal(t, StatusReplaced, res.Files[1].Status)
	assert.Equal(t, StatusLoaded, res.Files[3].Status)
	assert.Equal(t, []time.Time{day(13), day(14), day(16)}, res.Aggregate.CaptureDates())

	var dup int
	for _, d := range res.Diagnostics {
		if errors.Is(d, rootmodel.ErrDuplicateCaptureDate) {
			dup++
			assert.Equal(t, "/data/13_05_2018b.rsml", d.File)
		}
	}
	assert.Equal(t, 1, dup)

	entry, ok := res.Model.Entry(day(14))
	require.True(t, ok)
	require.Len(t, entry.Roots, 1)
	g, ok := entry.Roots[0].Geometry().(*geometry.TemporalPolyline)
	require.True(t, ok)
	assert.InDelta(t, 3.0, g.LengthUntil(1), 1e-9)
	assert.InDelta(t, 7.0, g.TotalLength(), 1e-9)
	assert.Equal(t, day(14), g.CaptureDate())
}

func TestAssemble_TemporalDatesOutsideNanosecondRange(t *testing.T) {
	asm := newAssembler(map[string]string{
		"01_01_1600.rsml":  temporalDoc,
		"01_01_2300.rsml":  temporalDoc,
		"01_01_1600b.rsml": temporalDoc,
	})

	res, err := asm.Assemble(context.Background(), []string{
		"/data/01_01_1600.rsml",
		"/data/01_01_2300.rsml",
		"/data/01_01_1600b.rsml",
	}, Options{Mode: rootmodel.ModeTemporal})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Model.Len())
	assert.Equal(t, StatusReplaced, res.Files[0].Status)
	assert.Equal(t, StatusLoaded, res.Files[1].Status)
	assert.Equal(t, StatusLoaded, res.Files[2].Status)
}

func TestDateKey(t *testing.T) {
	early := time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NotEqual(t, dateKey(early), dateKey(late))

	paris := time.FixedZone("CET", 3600)
	assert.Equal(t, dateKey(early), dateKey(early.In(paris)))
}

func TestAssemble_LenientSkipsBadFiles(t *testing.T) {
	asm := newAssembler(map[string]string{
		"13_05_2018.rsml": spatialDoc("cm", "300", "R1"),
		"broken.rsml":     "<rsml><scene>",
		"noscene.rsml":    "<rsml><metadata/></rsml>",
		"noroots.rsml":    `<rsml><scene><plant><root ID="x"/></plant></scene></rsml>`,
	})
	paths := []string{"/data/missing.rsml", "/data/broken.rsml", "/data/13_05_2018.rsml", "/data/noscene.rsml", "/data/noroots.rsml"}

	res, err := asm.Assemble(context.Background(), paths, Options{})
	require.NoError(t, err)
	require.Len(t, res.Files, 5)

	want := []struct {
		status Status
		kind   error
	}{
		{StatusSkipped, rootmodel.ErrNotFound},
		{StatusSkipped, rootmodel.ErrMalformedDocument},
		{StatusLoaded, nil},
		{StatusSkipped, rootmodel.ErrMissingScene},
		{StatusSkipped, rootmodel.ErrNoValidRoot},
	}
	for i, w := range want {
		assert.Equal(t, paths[i], res.Files[i].Path)
		assert.Equal(t, w.status, res.Files[i].Status, paths[i])
		if w.kind != nil {
			assert.ErrorIs(t, res.Files[i].Err, w.kind, paths[i])
		}
	}
	assert.Equal(t, 4, res.Skipped())
	assert.Equal(t, 1, res.Model.Len())
}

func TestAssemble_StrictAbortsOnFatal(t *testing.T) {
	asm := newAssembler(map[string]string{
		"13_05_2018.rsml": spatialDoc("cm", "300", "R1"),
		"noscene.rsml":    "<rsml/>",
	})

	_, err := asm.Assemble(context.Background(), []string{"/data/13_05_2018.rsml", "/data/missing.rsml"}, Options{Strict: true})
	assert.ErrorIs(t, err, rootmodel.ErrNotFound)

	res, err := asm.Assemble(context.Background(), []string{"/data/noscene.rsml", "/data/13_05_2018.rsml"}, Options{Strict: true})
	require.NoError(t, err, "semantically empty files never abort")
	assert.Equal(t, 1, res.Skipped())
}

func TestAssemble_NoUsableFiles(t *testing.T) {
	asm := newAssembler(map[string]string{"noscene.rsml": "<rsml/>"})

	res, err := asm.Assemble(context.Background(), []string{"/data/noscene.rsml"}, Options{})
	assert.ErrorIs(t, err, rootmodel.ErrNoUsableFiles)
	require.NotNil(t, res)
	assert.Zero(t, res.Model.Len())
}

func TestAssemble_DateFallbackUsesClock(t *testing.T) {
	asm := newAssembler(map[string]string{"plate.rsml": spatialDoc("cm", "300", "R1")})

	res, err := asm.Assemble(context.Background(), []string{"/data/plate.rsml"}, Options{Mode: rootmodel.ModeTemporal})
	require.NoError(t, err)
	assert.True(t, res.Files[0].DateFallback)
	assert.Equal(t, []time.Time{fixedNow}, res.Model.Dates())
}

func TestAssemble_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newAssembler(nil).Assemble(ctx, []string{"/data/a.rsml"}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rootmodel/internal/assembler"
	"github.com/vvka-141/rootmodel/internal/model"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

func sampleResult() *assembler.Result {
	return &assembler.Result{
		Model: model.New(),
		Files: []assembler.FileOutcome{
			{Path: "a.rsml", Status: assembler.StatusLoaded},
			{Path: "b.rsml", Status: assembler.StatusLoaded},
			{Path: "c.rsml", Status: assembler.StatusSkipped},
		},
		Diagnostics: []rootmodel.Diagnostic{
			{Kind: rootmodel.ErrInvalidNumericField},
			{Kind: rootmodel.ErrInvalidNumericField},
			{Kind: rootmodel.ErrDateUnresolved},
		},
	}
}

func TestRecorder_Observe(t *testing.T) {
	rec := NewRecorder()
	rec.Observe(sampleResult(), 250*time.Millisecond, time.Unix(1700000000, 0))

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.files.WithLabelValues("loaded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.files.WithLabelValues("skipped")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.diagnostics.WithLabelValues("invalid_numeric_field")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.diagnostics.WithLabelValues("capture_date_unresolved")))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.roots))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(rec.lastRun))
}

func TestRecorder_ObserveNilResult(t *testing.T) {
	rec := NewRecorder()
	rec.Observe(nil, time.Second, time.Unix(10, 0))

	assert.Equal(t, 1, testutil.CollectAndCount(rec.duration))
	assert.Equal(t, 0, testutil.CollectAndCount(rec.files))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	rec := NewRecorder()
	rec.Observe(sampleResult(), time.Second, time.Unix(10, 0))

	path := filepath.Join(t.TempDir(), "rootmodel.prom")
	require.NoError(t, rec.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `rootmodel_files_total{status="loaded"} 2`)
	assert.Contains(t, string(data), "rootmodel_run_duration_seconds_count 1")
}

func TestRecorder_WriteTextfileBadDir(t *testing.T) {
	err := NewRecorder().WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "no_scene_in_document", KindLabel(rootmodel.ErrMissingScene))
	assert.Equal(t, "unknown", KindLabel(nil))
}

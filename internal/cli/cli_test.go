package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rootmodel/internal/store"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

const plateRSML = `<rsml><metadata><unit>cm</unit><resolution>300</resolution><software>smartroot</software></metadata>
<scene><plant ID="p1"><root ID="R1"><geometry><polyline>
  <point x="0" y="0"/><point x="0" y="3"/>
</polyline></geometry>
  <root ID="R1.1"><geometry><polyline><point x="0" y="1"/><point x="2" y="1"/></polyline></geometry></root>
</root></plant></scene></rsml>`

const timedRSML = `<rsml><metadata><unit>cm</unit></metadata>
<scene><plant><root ID="t"><geometry><polyline>
  <point coord_t="0" coord_th="0" coord_x="0" coord_y="0" diameter="1" vx="0" vy="0"/>
  <point coord_t="1" coord_th="12" coord_x="0" coord_y="3" diameter="1" vx="0" vy="3"/>
</polyline></geometry></root></plant></scene></rsml>`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(rootmodel.EnvPrefix+"POSTGRES_DSN", "")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "rootmodel dev (unknown, unknown) "))
}

func TestLoad_RequiresArgs(t *testing.T) {
	_, _, err := execute(t, "load")
	require.Error(t, err)
	assert.Equal(t, rootmodel.ExitUsageError, rootmodel.ExitCodeForError(err))
}

func TestLoad_Summary(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"13_05_2018_plate.rsml": plateRSML,
		"broken.rsml":           "<rsml><scene>",
		"notes.txt":             "ignored",
	})

	out, stderr, err := execute(t, "load", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "RSML snapshot load: 2 files, 1 loaded, 1 skipped")
	assert.Contains(t, out, "2018-05-13  1 plants  2 roots")
	assert.Contains(t, stderr, "[WARN] skipping")
}

func TestLoad_JSONTemporal(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"13_05_2018_a.rsml": timedRSML,
		"14_05_2018_b.rsml": timedRSML,
	})

	out, _, err := execute(t, "load", "--temporal", "--output", "json", dir)
	require.NoError(t, err)

	var decoded struct {
		Mode    string `json:"mode"`
		Entries []struct {
			Date string `json:"date"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "temporal", decoded.Mode)
	require.Len(t, decoded.Entries, 2)
	assert.True(t, strings.HasPrefix(decoded.Entries[0].Date, "2018-05-13"))
}

func TestLoad_AllSkipped(t *testing.T) {
	dir := writeFiles(t, map[string]string{"broken.rsml": "<rsml><scene>"})

	out, _, err := execute(t, "load", dir)
	require.ErrorIs(t, err, rootmodel.ErrNoUsableFiles)
	assert.Equal(t, rootmodel.ExitNoUsableFiles, rootmodel.ExitCodeForError(err))
	assert.Contains(t, out, "1 skipped", "report is still written")
}

func TestLoad_StrictMalformed(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"13_05_2018_plate.rsml": plateRSML,
		"broken.rsml":           "<rsml><scene>",
	})

	_, _, err := execute(t, "load", "--strict", dir)
	require.ErrorIs(t, err, rootmodel.ErrMalformedDocument)
	assert.Equal(t, rootmodel.ExitMalformedDocument, rootmodel.ExitCodeForError(err))
}

func TestLoad_StrictMissing(t *testing.T) {
	_, _, err := execute(t, "load", "--strict", filepath.Join(t.TempDir(), "absent.rsml"))
	require.ErrorIs(t, err, rootmodel.ErrNotFound)
}

func TestLoad_MetricsFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"13_05_2018_plate.rsml": plateRSML})
	metricsPath := filepath.Join(t.TempDir(), "rootmodel.prom")

	_, _, err := execute(t, "load", "--metrics-file", metricsPath, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `rootmodel_files_total{status="loaded"} 1`)
	assert.Contains(t, string(data), "rootmodel_roots 2")
}

func TestLoad_ConfigFile(t *testing.T) {
	// each mode skips the file written for the other one
	dir := writeFiles(t, map[string]string{
		"13_05_2018_plate.rsml": plateRSML,
		"14_05_2018_timed.rsml": timedRSML,
	})
	cfgPath := filepath.Join(t.TempDir(), "rootmodel.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: yaml\ntemporal: true\n"), 0o644))

	out, _, err := execute(t, "load", "--config", cfgPath, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "mode: temporal")

	out, _, err = execute(t, "load", "--config", cfgPath, "--output", "summary", "--temporal=false", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "RSML snapshot load")
}

func TestLoad_ConfigMode(t *testing.T) {
	dir := writeFiles(t, map[string]string{"14_05_2018_timed.rsml": timedRSML})
	cfgPath := filepath.Join(t.TempDir(), "rootmodel.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: yaml\nmode: temporal\n"), 0o644))

	out, _, err := execute(t, "load", "--config", cfgPath, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "mode: temporal")
}

func TestLoad_InvalidConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{"13_05_2018_plate.rsml": plateRSML})

	_, _, err := execute(t, "load", "--log-format", "xml", dir)
	require.ErrorIs(t, err, rootmodel.ErrInvalidConfig)

	_, _, err = execute(t, "load", "--config", filepath.Join(dir, "missing.yaml"), dir)
	require.ErrorIs(t, err, rootmodel.ErrInvalidConfig)

	_, _, err = execute(t, "load", "--output", "xml", dir)
	require.ErrorIs(t, err, rootmodel.ErrInvalidConfig)
}

func TestDates(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"13_05_2018_plate.rsml": plateRSML,
		"undated.rsml":          plateRSML,
	})

	out, _, err := execute(t, "dates", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2018-05-13T00:00:00Z")
	assert.Contains(t, out, `from "13_05_2018"`)
	assert.Contains(t, out, "fallback")
}

func TestExport_SQLite(t *testing.T) {
	dir := writeFiles(t, map[string]string{"13_05_2018_plate.rsml": plateRSML})
	dbPath := filepath.Join(t.TempDir(), "roots.db")

	out, _, err := execute(t, "export", "--sqlite", dbPath, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 1 files (0 skipped) to 1 store(s)")

	exp, err := store.NewSQLiteExporter(dbPath)
	require.NoError(t, err)
	defer exp.Close()

	var roots int
	require.NoError(t, exp.DB().QueryRow(`SELECT COUNT(*) FROM roots`).Scan(&roots))
	assert.Equal(t, 2, roots)
}

func TestExport_NeedsTarget(t *testing.T) {
	dir := writeFiles(t, map[string]string{"13_05_2018_plate.rsml": plateRSML})

	_, _, err := execute(t, "export", dir)
	require.ErrorIs(t, err, rootmodel.ErrInvalidConfig)
}

// Package metrics records the counters of an ingestion run and writes them
// in the Prometheus text format, for the node-exporter textfile collector.
package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vvka-141/rootmodel/internal/assembler"
)

// Recorder owns a private registry so repeated runs in one process never
// collide on the default registerer.
type Recorder struct {
	registry *prometheus.Registry

	files       *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	roots       prometheus.Gauge
	entries     prometheus.Gauge
	duration    prometheus.Histogram
	lastRun     prometheus.Gauge
}

// NewRecorder creates a recorder with all run metrics registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		files: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rootmodel_files_total",
			Help: "Input files by outcome status",
		}, []string{"status"}),
		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rootmodel_diagnostics_total",
			Help: "Skip-and-continue diagnostics by kind",
		}, []string{"kind"}),
		roots: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rootmodel_roots",
			Help: "Roots retained in the assembled model",
		}),
		entries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rootmodel_entries",
			Help: "Dated entries in the assembled model",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rootmodel_run_duration_seconds",
			Help:    "Wall time of an assembly run",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rootmodel_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Observe records the outcome of one assembly run. A nil result records
// only the duration.
func (r *Recorder) Observe(result *assembler.Result, elapsed time.Duration, finished time.Time) {
	r.duration.Observe(elapsed.Seconds())
	r.lastRun.Set(float64(finished.Unix()))
	if result == nil {
		return
	}

	for _, f := range result.Files {
		r.files.WithLabelValues(string(f.Status)).Inc()
	}
	for _, d := range result.Diagnostics {
		r.diagnostics.WithLabelValues(KindLabel(d.Kind)).Inc()
	}
	if result.Model != nil {
		r.roots.Set(float64(result.Model.RootCount()))
		r.entries.Set(float64(result.Model.Len()))
	}
}

// WriteTextfile writes every metric to path. The file is written to a
// temporary name first and renamed into place.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

// KindLabel turns a sentinel error into a label value:
// "no scene in document" becomes "no_scene_in_document".
func KindLabel(kind error) string {
	if kind == nil {
		return "unknown"
	}
	return strings.ReplaceAll(strings.ToLower(kind.Error()), " ", "_")
}

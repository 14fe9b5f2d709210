package metadata

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/rootmodel/internal/dates"
	"github.com/vvka-141/rootmodel/internal/extract"
	"github.com/vvka-141/rootmodel/internal/model"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// Aggregator builds Metadata values. The resolver supplies date layouts
// and the clock used for "today".
type Aggregator struct {
	resolver *dates.Resolver
}

// NewAggregator creates an aggregator.
func NewAggregator(resolver *dates.Resolver) *Aggregator {
	if resolver == nil {
		resolver = dates.NewResolver(nil)
	}
	return &Aggregator{resolver: resolver}
}

// Build converts raw metadata of the file at path. captureDate is added
// to the capture date set.
func (a *Aggregator) Build(path string, raw extract.RawMetadata, captureDate time.Time, diags *rootmodel.Diagnostics) *model.Metadata {
	md := model.NewMetadata()
	md.Version = a.number(path, "version", raw.Version, diags)
	md.Resolution = a.number(path, "resolution", raw.Resolution, diags)
	md.Unit = raw.Unit
	md.Software = raw.Software
	md.User = raw.User
	md.ModifyDate = a.modifyDate(path, raw.LastModified, diags)
	md.ObservationHours = raw.ObservationHours
	for _, def := range raw.PropertyDefinitions {
		md.PropertyDefinitions = append(md.PropertyDefinitions, model.PropertyDefinition{
			Label: def.Label,
			Type:  def.Type,
			Unit:  def.Unit,
		})
	}
	for k, v := range raw.Image {
		md.ImageInfo[k] = v
	}

	md.FileKey = raw.FileKey
	if md.FileKey == "" {
		md.FileKey = GenerateFallbackKey(path).String()
	}

	md.AddCaptureDate(captureDate)
	return md
}

// Merge folds other into agg, reporting mismatches against file.
func (a *Aggregator) Merge(agg, other *model.Metadata, file string, diags *rootmodel.Diagnostics) {
	agg.Merge(other, file, diags)
}

func (a *Aggregator) number(path, field, raw string, diags *rootmodel.Diagnostics) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		if diags != nil {
			diags.Addf(rootmodel.ErrInvalidNumericField, path, "", field, "invalid %s %q", field, raw)
		}
		return rootmodel.UnsetNumber
	}
	return v
}

func (a *Aggregator) modifyDate(path, raw string, diags *rootmodel.Diagnostics) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "today") {
		return a.resolver.Now()
	}
	if t, ok := a.resolver.Parse(raw); ok {
		return t
	}
	if diags != nil {
		diags.Addf(rootmodel.ErrDateUnresolved, path, "", "last-modified", "unrecognized date %q, using current time", raw)
	}
	return a.resolver.Now()
}

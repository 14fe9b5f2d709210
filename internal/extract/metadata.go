package extract

import (
	"sort"
	"strings"

	"github.com/vvka-141/rootmodel/internal/document"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// ExtractMetadata reads the first <metadata> element of doc. Single-valued
// fields come from direct children only. Missing version and resolution
// default to "-1"; property definition fields default to "Unknown".
func ExtractMetadata(doc *document.Document, diags *rootmodel.Diagnostics) RawMetadata {
	md := RawMetadata{Version: "-1", Resolution: "-1"}

	el := doc.Root()
	if el.Tag != "metadata" {
		found := document.Descendants(el, "metadata")
		if len(found) == 0 {
			if diags != nil {
				diags.Addf(rootmodel.ErrMissingMetadata, doc.Path, "", "metadata", "document has no <metadata> element")
			}
			return md
		}
		el = found[0]
	}
	md.Present = true

	text := func(tag, fallback string) string {
		if v, ok := document.DirectChildText(el, tag); ok {
			return v
		}
		return fallback
	}
	md.Version = text("version", "-1")
	md.Unit = text("unit", "")
	md.Resolution = text("resolution", "-1")
	md.LastModified = text("last-modified", "")
	md.Software = text("software", "")
	md.User = text("user", "")
	md.FileKey = text("file-key", "")

	if raw, ok := document.DirectChildText(el, "observation-hours"); ok {
		md.ObservationHours = parseObservationHours(raw, func(entry string) {
			if diags != nil {
				diags.Addf(rootmodel.ErrInvalidNumericField, doc.Path, "", "observation-hours", "invalid hour %q", entry)
			}
		})
	}

	if defs := document.DirectChild(el, "property-definitions"); defs != nil {
		for _, def := range document.Descendants(defs, "property-definition") {
			field := func(tag string) string {
				if v, ok := document.DirectChildText(def, tag); ok {
					return v
				}
				return rootmodel.UnknownValue
			}
			md.PropertyDefinitions = append(md.PropertyDefinitions, RawPropertyDefinition{
				Label: field("label"),
				Type:  field("type"),
				Unit:  field("unit"),
			})
		}
	}

	if image := document.DirectChild(el, "image"); image != nil {
		md.Image = make(map[string]string)
		for _, child := range image.ChildElements() {
			md.Image[child.Tag] = strings.TrimSpace(document.TextContent(child))
		}
	}
	return md
}

// parseObservationHours splits a comma-separated list, skips entries that
// do not parse, prepends 0 and sorts ascending.
func parseObservationHours(raw string, invalid func(entry string)) []float64 {
	hours := []float64{0}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		v, ok := parseNumber(entry)
		if !ok {
			invalid(entry)
			continue
		}
		hours = append(hours, v)
	}
	sort.Float64s(hours)
	return hours
}

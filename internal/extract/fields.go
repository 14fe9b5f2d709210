package extract

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/vvka-141/rootmodel/internal/document"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// parseProperties reads the first owned <properties> block. Each element
// child becomes name → number; non-numeric values are skipped.
func parseProperties(r *run, rootID string, el *etree.Element) map[string]float64 {
	blocks := document.Owned(el, "properties")
	if len(blocks) == 0 {
		return nil
	}

	props := make(map[string]float64)
	for _, prop := range blocks[0].ChildElements() {
		name := qualifiedTag(prop)
		raw := document.TextContent(prop)
		if v, ok := parseNumber(raw); ok {
			props[name] = v
			continue
		}
		if attr := prop.SelectAttr("value"); attr != nil {
			if v, ok := parseNumber(attr.Value); ok {
				props[name] = v
				continue
			}
			raw = attr.Value
		}
		r.warn(rootmodel.ErrInvalidNumericField, rootID, name, "invalid property value %q", strings.TrimSpace(raw))
	}
	if len(props) == 0 {
		return nil
	}
	return props
}

// parseFunctions reads owned <function name=...> elements. Functions whose
// samples all fail to parse are omitted. A repeated name replaces the
// earlier function in place.
func parseFunctions(r *run, rootID string, el *etree.Element) []RawFunction {
	var out []RawFunction
	seen := make(map[string]int)
	for _, fnEl := range document.Owned(el, "function") {
		name := document.Attr(fnEl, "name")
		var samples []float64
		for _, sample := range document.Descendants(fnEl, "sample") {
			v, ok := parseNumber(document.TextContent(sample))
			if !ok {
				r.warn(rootmodel.ErrInvalidNumericField, rootID, "function:"+name,
					"invalid sample value %q", strings.TrimSpace(document.TextContent(sample)))
				continue
			}
			samples = append(samples, v)
		}
		if len(samples) == 0 {
			continue
		}
		fn := RawFunction{Name: name, Domain: document.Attr(fnEl, "domain"), Samples: samples}
		if i, dup := seen[name]; dup {
			r.warn(rootmodel.ErrDuplicateFunction, rootID, "function:"+name,
				"function %q declared more than once, keeping the last", name)
			out[i] = fn
			continue
		}
		seen[name] = len(out)
		out = append(out, fn)
	}
	return out
}

// parseAnnotations reads owned <annotation name=...> elements into
// child-name → text maps.
func parseAnnotations(el *etree.Element) []RawAnnotation {
	var out []RawAnnotation
	for _, annEl := range document.Owned(el, "annotation") {
		ann := RawAnnotation{Name: document.Attr(annEl, "name"), Values: make(map[string]string)}
		for _, child := range annEl.ChildElements() {
			ann.Values[qualifiedTag(child)] = document.TextContent(child)
		}
		if ann.Name == "" && len(ann.Values) == 0 {
			continue
		}
		out = append(out, ann)
	}
	return out
}

func qualifiedTag(el *etree.Element) string {
	if el.Space != "" {
		return el.Space + ":" + el.Tag
	}
	return el.Tag
}

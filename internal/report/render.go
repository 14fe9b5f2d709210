// Package report renders an assembled root model for humans (summary) or
// tools (json, yaml).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format selects the renderer.
type Format string

const (
	FormatSummary Format = "summary"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
)

// ParseFormat accepts summary, json or yaml (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSummary, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Write renders r to w. color only affects the summary format.
func Write(w io.Writer, format Format, r *Report, color bool) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeSummary(w, r, painter{color: color})
	}
}

func writeSummary(w io.Writer, r *Report, p painter) error {
	var b strings.Builder

	loaded, skipped := 0, 0
	for _, f := range r.Files {
		switch f.Status {
		case "loaded":
			loaded++
		case "skipped":
			skipped++
		}
	}
	fmt.Fprintf(&b, "%s\n", p.paint(titleStyle, fmt.Sprintf("RSML %s load: %d files, %d loaded, %d skipped",
		r.Mode, len(r.Files), loaded, skipped)))

	for _, f := range r.Files {
		switch f.Status {
		case "loaded":
			date := formatDate(f.CaptureDate)
			if f.DateFallback {
				date += p.paint(warningStyle, " (fallback)")
			}
			fmt.Fprintf(&b, "  %s %s  %s  %d roots\n", p.paint(successStyle, symbolCheck), f.Path, date, f.Roots)
		case "replaced":
			fmt.Fprintf(&b, "  %s %s  %s  replaced by a later file\n", p.paint(warningStyle, symbolReplace), f.Path, formatDate(f.CaptureDate))
		default:
			fmt.Fprintf(&b, "  %s %s  %s\n", p.paint(errorStyle, symbolCross), f.Path, p.paint(errorStyle, f.Error))
		}
	}

	if len(r.Entries) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.paint(headingStyle, "Entries"))
		for _, e := range r.Entries {
			roots := 0
			for _, plant := range e.Plants {
				for _, root := range plant.Roots {
					roots += countRoots(root)
				}
			}
			line := fmt.Sprintf("  %s %s  %d plants  %d roots", symbolBullet, formatDate(e.Date), len(e.Plants), roots)
			if e.Metadata != nil {
				line += p.paint(mutedStyle, fmt.Sprintf("  unit %s  resolution %g", e.Metadata.Unit, e.Metadata.Resolution))
			}
			b.WriteString(line + "\n")
		}
	}

	if len(r.Diagnostics) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.paint(headingStyle, fmt.Sprintf("Diagnostics (%d)", len(r.Diagnostics))))
		for _, d := range r.Diagnostics {
			where := d.File
			if d.RootID != "" {
				where += " root " + d.RootID
			}
			if d.Field != "" {
				where += " field " + d.Field
			}
			fmt.Fprintf(&b, "  %s %s: %s\n", p.paint(warningStyle, d.Kind), where, d.Message)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func countRoots(r Root) int {
	n := 1
	for _, c := range r.Children {
		n += countRoots(c)
	}
	return n
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

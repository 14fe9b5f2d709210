package rootmodel

import (
	"fmt"
	"strings"
)

// Mode selects how input files are assembled and which geometry
// extraction strategy is used. It is always an explicit caller input.
type Mode int

const (
	// ModeSnapshot merges every file into one scene keyed by the earliest capture date,
	// reading plain (x, y) points.
	ModeSnapshot Mode = iota
	// ModeTemporal keeps one entry per file keyed by its capture date,
	// reading time-annotated points.
	ModeTemporal
)

func (m Mode) String() string {
	switch m {
	case ModeSnapshot:
		return "snapshot"
	case ModeTemporal:
		return "temporal"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "snapshot" or "temporal" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "snapshot", "":
		return ModeSnapshot, nil
	case "temporal":
		return ModeTemporal, nil
	default:
		return ModeSnapshot, fmt.Errorf("%w: unknown mode %q (expected snapshot or temporal)", ErrInvalidConfig, s)
	}
}

// ModeFromFlag maps the boolean "temporal" switch onto a Mode.
func ModeFromFlag(temporal bool) Mode {
	if temporal {
		return ModeTemporal
	}
	return ModeSnapshot
}

package dates

import (
	"strings"
	"time"
)

// Layouts is the priority list tried by ParseDate. The first layout that
// consumes the whole string wins. Date-only layouts yield midnight.
var Layouts = []string{
	"02_01_2006_15_04_05",
	"02_01_2006",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04",
	"01-02-2006 15:04:05",
	"02/01/2006",
	"20060102150405",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000000000",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02",
	"2006_01_02",
}

// ParseDate tries each layout in order and reports whether any matched.
// Results are in UTC with no zone conversion.
func ParseDate(text string, layouts []string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Midnight truncates t to the start of its day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

package source

import (
	"strings"
	"time"
)

// dateLayouts are tried in order; bank exports and spreadsheets are not
// consistent about date formatting.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a date cell leniently against the known export layouts.
// The result is truncated to date precision in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

package util

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Month-first wins over day-first for
// ambiguous slash dates, matching how most CSV exports are written.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"1/2/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"20060102",
}

// ParseDate parses a calendar date or timestamp cell. Returns (t, true) if any
// supported layout matched; unparseable or empty input yields (zero, false).
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDateDefault parses a date or returns def if empty/invalid.
func ParseDateDefault(s string, def time.Time) time.Time {
	if t, ok := ParseDate(s); ok {
		return t
	}
	return def
}

// FormatDate renders the calendar part of t.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

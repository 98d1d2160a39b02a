package service

import (
	"strings"
	"time"
)

// UnknownMonth is the monthly bucket for bills whose due date cannot be read.
const UnknownMonth = "Unknown"

// dueDateLayouts are tried in order. Dates without a zone are read as UTC.
var dueDateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// parseDueDate reads a user-entered due date. ok is false when no layout fits.
func parseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// monthKey returns the "YYYY-MM" bucket of a due date, or UnknownMonth.
func monthKey(dueDate string) string {
	t, ok := parseDueDate(dueDate)
	if !ok {
		return UnknownMonth
	}
	return t.Format("2006-01")
}

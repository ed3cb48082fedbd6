package core

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// ParseTimestamp parses the date and date-time forms found in the source
// data. Values without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CoerceTimestamp converts v to a time.Time cell, or nil when it cannot be
// interpreted as one.
func CoerceTimestamp(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x
	case string:
		if t, ok := ParseTimestamp(x); ok {
			return t
		}
	}
	return nil
}

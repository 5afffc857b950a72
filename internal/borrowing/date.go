package borrowing

import (
	"strings"
	"time"
)

// dueLayouts are tried in order. Zoneless layouts are read as UTC.
var dueLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-1-2",
}

// ParseDue parses a due date in one of the ISO encodings the service emits.
// When that fails, runs of whitespace are collapsed into "-" and the parse
// is retried, so "2024 05 01" and "2024 5 1" read as "2024-05-01". The second result is
// false when neither attempt succeeds.
func ParseDue(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	if t, ok := parseISO(value); ok {
		return t, true
	}
	normalized := strings.Join(strings.Fields(value), "-")
	if normalized == value {
		return time.Time{}, false
	}
	return parseISO(normalized)
}

func parseISO(value string) (time.Time, bool) {
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

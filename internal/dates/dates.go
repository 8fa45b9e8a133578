// Package dates normalizes the date formats seen in county record feeds
// into ISO-8601.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// Layouts observed across the assessment feed and the Seminole API, most
// specific first. The vendor emits e.g. "6/1/2007 2:58:08 PM".
var layouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006-01-02",
	"2006/01/02",
}

const isoLayout = "2006-01-02T15:04:05"

// ParseTime parses a date string in any known layout.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	// "Z" suffixes parse under the zone-aware ISO layouts.
	candidate := strings.TrimSuffix(s, "Z")
	for _, layout := range layouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// Parse normalizes a date string to ISO-8601 without a zone designator,
// e.g. "6/1/2007 2:58:08 PM" -> "2007-06-01T14:58:08". Returns an error for
// unrecognized formats; callers decide whether that is a skip or a failure.
func Parse(s string) (string, error) {
	t, err := ParseTime(s)
	if err != nil {
		return "", err
	}
	return t.Format(isoLayout), nil
}

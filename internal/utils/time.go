package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDateHM   = "2006-01-02 15:04"
)

// ParseDeparture accepts "YYYY-MM-DD", "YYYY-MM-DD HH:MM[:SS]" or RFC3339.
// dateOnly reports whether only a calendar day was given.
func ParseDeparture(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, fmt.Errorf("departure is empty")
	}
	if t, err := time.ParseInLocation(layoutDate, s, time.Local); err == nil {
		return t, true, nil
	}
	normalized := strings.Replace(s, "T", " ", 1)
	for _, layout := range []string{layoutDateTime, layoutDateHM} {
		if t, err := time.ParseInLocation(layout, normalized, time.Local); err == nil {
			return t, false, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(time.Local), false, nil
	}
	return time.Time{}, false, fmt.Errorf("unrecognized departure format: %q", s)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}

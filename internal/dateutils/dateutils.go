// Package dateutils provides the timestamp parsing and lookback arithmetic
// used by the message sources and the scan coordinator.
package dateutils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Common timestamp layouts accepted from message exports.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutFullT    = "2006-01-02T15:04:05"
	DateLayoutEuropean = "02.01.2006 15:04"
	DateLayoutIndian   = "02/01/2006 15:04:05"
)

// CommonFormats is the ordered list of layouts tried by ParseTimestamp.
var CommonFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	DateLayoutFull,
	DateLayoutFullT,
	DateLayoutIndian,
	DateLayoutEuropean,
	DateLayoutISO,
}

// ParseTimestamp parses s as epoch milliseconds when it is all digits,
// otherwise as one of CommonFormats. Layouts without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("unable to parse timestamp: empty value")
	}

	if isDigits(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("unable to parse timestamp %q: %w", s, err)
		}
		return time.UnixMilli(ms).UTC(), nil
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", s)
}

// ToMillis returns t as epoch milliseconds, or 0 for the zero time.
func ToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromMillis is the inverse of ToMillis.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// MonthsBefore returns t minus the given number of calendar months.
func MonthsBefore(t time.Time, months int) time.Time {
	return t.AddDate(0, -months, 0)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

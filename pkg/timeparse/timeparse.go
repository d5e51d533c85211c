// Package timeparse normalizes external timestamp representations into
// UTC instants. Inputs without an offset are treated as UTC, never as
// local time, so every stored and compared instant lives on one axis.
package timeparse

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Layouts without a zone designator. time.Parse interprets these as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse converts an ISO-8601 string into a UTC instant. Offsets are
// honored and converted; a missing offset means UTC.
func Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrInvalidTimestamp)
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}

// DayRangeUTC returns the half-open UTC calendar day [midnight, midnight+24h)
// containing the given date. The input may be a bare date or any parseable
// timestamp; only its UTC date component matters.
func DayRangeUTC(value string) (time.Time, time.Time, error) {
	t, err := Parse(value)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return dayStart, dayStart.Add(24 * time.Hour), nil
}

// Format renders an instant the way the service always emits timestamps:
// RFC 3339 with an explicit UTC offset.
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

package parser

import (
	"strings"
	"time"
)

// Layouts carrying an explicit UTC offset. Fractional seconds are accepted by
// time.Parse even though the layouts do not spell them out.
var offsetLayouts = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05-0700",
	"2006-01-02T15:04-07:00",
	"2006-01-02 15:04-07:00",
}

// Layouts without an offset; these are wall-clock times in the caller's zone.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseToUTC parses ISO-8601-like timestamps and returns the instant in UTC.
// Supported forms:
// - "2024-03-01T10:00:00Z" (trailing Z means offset zero)
// - "2024-03-01T10:00:00.250+02:00" (explicit offset, converted directly)
// - "2024-03-01 10:00:00" (no offset, interpreted as local wall-clock time)
// - "2024-03-01" (midnight local time)
//
// The second return value is false when the text cannot be parsed. Callers
// treat that as "timestamp unknown" rather than as an error.
func ParseToUTC(text string) (time.Time, bool) {
	return ParseToUTCIn(text, time.Local)
}

// ParseToUTCIn is ParseToUTC with an explicit zone for offset-less input.
func ParseToUTCIn(text string, loc *time.Location) (time.Time, bool) {
	value := strings.TrimSpace(text)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	if strings.HasSuffix(value, "Z") || strings.HasSuffix(value, "z") {
		value = value[:len(value)-1] + "+00:00"
	}

	for _, layout := range offsetLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), true
		}
	}

	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts.UTC(), true
		}
	}

	return time.Time{}, false
}

// ParseToUTCPtr is ParseToUTC returning nil for unknown timestamps, which is
// how optional timestamps are stored.
func ParseToUTCPtr(text string) *time.Time {
	ts, ok := ParseToUTC(text)
	if !ok {
		return nil
	}
	return &ts
}

// EndOfDay moves a date-only bound to the last instant of that day so an
// inclusive "to" filter covers the whole day. Values carrying a time of day
// are returned unchanged.
func EndOfDay(text string, loc *time.Location) (time.Time, bool) {
	value := strings.TrimSpace(text)
	if loc == nil {
		loc = time.Local
	}
	if day, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond).UTC(), true
	}
	return ParseToUTCIn(value, loc)
}

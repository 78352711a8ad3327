package view

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// TimePlaceholder is shown wherever a timestamp cannot be parsed.
const TimePlaceholder = "--:--"

// UnknownDate is shown for history entries without a usable timestamp.
const UnknownDate = "Unknown date"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTimestamp accepts RFC 3339 and the naive ISO forms the engine emits.
// Naive timestamps are read as local time.
func parseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTime renders ts as local "HH:MM", or the placeholder when ts is malformed.
func FormatTime(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		return TimePlaceholder
	}
	return t.Local().Format("15:04")
}

func formatClockSeconds(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		return TimePlaceholder
	}
	return t.Local().Format("15:04:05")
}

func formatDate(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		return UnknownDate
	}
	return t.Local().Format("Jan 2, 2006")
}

// fixed2 rounds half away from zero to two decimals.
func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// plain prints v with the shortest representation that round-trips.
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

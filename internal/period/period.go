package period

import (
	"fmt"
	"time"
)

// Window is a half-open time range [Start, End). Aggregation queries use
// half-open windows so that records on a boundary are counted exactly once.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayOf normalizes t to the first instant of its calendar day in UTC.
// Bucket lookups must compare against this boundary, never against a
// wall-clock timestamp.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthOf normalizes t to the first instant of its calendar month in UTC.
func MonthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Day returns the window covering the calendar day containing t.
func Day(t time.Time) Window {
	start := DayOf(t)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// Month returns the window covering the calendar month containing t.
func Month(t time.Time) Window {
	start := MonthOf(t)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// ParseMonth parses a "YYYY-MM" string into the first instant of that month.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", s, err)
	}
	return t.UTC(), nil
}

// FormatMonth renders the month bucket of t as "YYYY-MM".
func FormatMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}

package period_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecotrack/internal/period"
)

func TestDayOf(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "midday UTC",
			input:    time.Date(2024, 6, 15, 13, 45, 12, 0, time.UTC),
			expected: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "already at boundary",
			input:    time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "non-UTC input normalized through UTC",
			input:    time.Date(2024, 6, 15, 3, 0, 0, 0, jst),
			expected: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, period.DayOf(tt.input).Equal(tt.expected))
		})
	}
}

func TestMonthOf(t *testing.T) {
	got := period.MonthOf(time.Date(2024, 6, 15, 13, 45, 12, 0, time.UTC))
	assert.True(t, got.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestWindowHalfOpen(t *testing.T) {
	w := period.Day(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))

	assert.True(t, w.Contains(w.Start), "start boundary is included")
	assert.True(t, w.Contains(time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(w.End), "end boundary is excluded")
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
}

func TestMonthWindow(t *testing.T) {
	w := period.Month(time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC))

	assert.True(t, w.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.End.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))

	// February of a leap year spans 29 days.
	feb := period.Month(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	assert.True(t, feb.End.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseMonth(t *testing.T) {
	parsed, err := period.ParseMonth("2024-06")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	for _, invalid := range []string{"", "2024", "2024-13", "June 2024", "2024-06-15"} {
		_, err := period.ParseMonth(invalid)
		assert.Error(t, err, "input %q", invalid)
	}
}

func TestFormatMonth(t *testing.T) {
	assert.Equal(t, "2024-06", period.FormatMonth(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)))
}

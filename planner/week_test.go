package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-01", "2024-01-01"}, // Monday
		{"2024-01-03", "2024-01-01"},
		{"2024-01-07", "2024-01-01"}, // Sunday belongs to the previous Monday
		{"2024-01-08", "2024-01-08"},
		{"2024-03-01", "2024-02-26"}, // leap year
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(WeekStart(date(t, tt.in))))
		})
	}
}

func TestWeekStart_KeepsLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC-10", -10*60*60)
	// Late Sunday evening locally is already Monday in UTC.
	sunday := time.Date(2024, 1, 7, 22, 0, 0, 0, loc)

	assert.Equal(t, "2024-01-01", FormatDate(WeekStart(sunday)))
}

func TestWeekDates(t *testing.T) {
	assert.Equal(t, []string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-05", "2024-01-06", "2024-01-07",
	}, WeekDates(date(t, "2024-01-01")))

	dates := WeekDates(date(t, "2024-12-30"))
	assert.Equal(t, "2025-01-05", dates[6], "week crosses the year boundary")
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2024-1-1", "01/02/2024", "2024-02-30", "tomorrow"} {
		_, err := ParseDate(s)
		assert.ErrorIs(t, err, ErrInvalidDate, s)
	}
}

func TestParseWeek(t *testing.T) {
	base := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC) // Wednesday

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "", want: "2024-01-08"},
		{input: "this", want: "2024-01-08"},
		{input: "Current", want: "2024-01-08"},
		{input: "next", want: "2024-01-15"},
		{input: "prev", want: "2024-01-01"},
		{input: "previous", want: "2024-01-01"},
		{input: "last", want: "2024-01-01"},
		{input: "+2w", want: "2024-01-22"},
		{input: "-1w", want: "2024-01-01"},
		{input: "+0w", want: "2024-01-08"},
		{input: "2024-02-14", want: "2024-02-12"},
		{input: "2w", wantErr: true},
		{input: "+1d", wantErr: true},
		{input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeek(tt.input, base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatDate(got))
		})
	}
}

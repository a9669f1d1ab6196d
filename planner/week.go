package planner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for meal plan keys.
const DateLayout = time.DateOnly

// weekOffsetPattern matches relative week strings like "+1w", "-2w".
var weekOffsetPattern = regexp.MustCompile(`^([+-])(\d+)w$`)

// ParseDate parses an ISO calendar date (YYYY-MM-DD) as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CalendarDate drops the clock and zone of t, keeping its local calendar day
// as a UTC midnight so that day arithmetic never crosses a DST change.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday of the week containing t.
// Sunday belongs to the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	d := CalendarDate(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}

// WeekDates returns the seven consecutive dates starting at weekStart.
func WeekDates(weekStart time.Time) []string {
	start := CalendarDate(weekStart)
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = FormatDate(start.AddDate(0, 0, i))
	}
	return dates
}

// ParseWeek resolves a week selector to the Monday it names.
//
// Supported forms, relative to base:
//   - "" / "this" / "current": the week containing base
//   - "next" / "prev" / "previous" / "last": one week either side
//   - "+Nw" / "-Nw": N weeks either side
//   - "YYYY-MM-DD": the week containing that date
func ParseWeek(s string, base time.Time) (time.Time, error) {
	current := WeekStart(base)

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "this", "current":
		return current, nil
	case "next":
		return current.AddDate(0, 0, 7), nil
	case "prev", "previous", "last":
		return current.AddDate(0, 0, -7), nil
	}

	if matches := weekOffsetPattern.FindStringSubmatch(strings.TrimSpace(s)); matches != nil {
		num, err := strconv.Atoi(matches[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number in week offset: %s", matches[2])
		}
		if matches[1] == "-" {
			num = -num
		}
		return current.AddDate(0, 0, 7*num), nil
	}

	date, err := ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week: %s (expected this, next, prev, +Nw, -Nw or YYYY-MM-DD)", s)
	}
	return WeekStart(date), nil
}

package recur

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateOf truncates a timestamp to its calendar date, normalized to UTC
// midnight. All occurrence keys and rule evaluation use this form.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WeekdayIndex maps a date to the 0–6 weekday convention used by task
// definitions, where 0 is Monday and 6 is Sunday.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekBounds returns the Monday and Sunday of the week containing date.
func WeekBounds(date time.Time) (time.Time, time.Time) {
	d := DateOf(date)
	start := d.AddDate(0, 0, -WeekdayIndex(d))
	return start, start.AddDate(0, 0, 6)
}

// MonthBounds returns the first and last day of the month containing date.
func MonthBounds(date time.Time) (time.Time, time.Time) {
	year, month, _ := date.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// DaysInMonth reports the number of days in the month containing date.
func DaysInMonth(date time.Time) int {
	_, last := MonthBounds(date)
	return last.Day()
}

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an HH:MM string.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes returns the offset from midnight in minutes.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func clockFromMinutes(m int) Clock {
	return Clock{Hour: m / 60, Minute: m % 60}
}

// parseIntSet parses a comma-separated list of integers, keeping only
// values within [min, max]. Malformed or out-of-range entries are skipped;
// the UI is allowed to leave junk behind.
func parseIntSet(raw string, min, max int) map[int]bool {
	set := make(map[int]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < min || n > max {
			continue
		}
		set[n] = true
	}
	return set
}

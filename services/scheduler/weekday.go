package scheduler

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var weekdayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekdayName returns the lower-case weekday name used by availability rules.
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// WeekdayOf returns the rule weekday for a calendar date.
func WeekdayOf(date time.Time) string {
	return WeekdayName(date.Weekday())
}

// ValidWeekday reports whether s names a weekday.
func ValidWeekday(s string) bool {
	s = strings.ToLower(s)
	for _, name := range weekdayNames {
		if name == s {
			return true
		}
	}
	return false
}

// ParseDate reads a "YYYY-MM-DD" calendar date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// DayBounds returns [startOfDay, startOfDay+24h) for date in loc.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour)
}

package pkg

import (
	"time"
)

// DayUTC truncates t to the start of its UTC day.
func DayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TodayUTC is the start of the current UTC day.
func TodayUTC() time.Time {
	return DayUTC(time.Now())
}

// DaysBetween counts whole UTC days from a to b; negative when b is
// before a.
func DaysBetween(a, b time.Time) int {
	return int(DayUTC(b).Sub(DayUTC(a)) / (24 * time.Hour))
}

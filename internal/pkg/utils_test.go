package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)

	// 03:30 on Jan 2 in UTC+7 is still Jan 1 in UTC
	in := time.Date(2026, 1, 2, 3, 30, 0, 0, loc)
	out := DayUTC(in)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), out)
	assert.Equal(t, time.UTC, out.Location())
}

func TestDayUTCIdempotent(t *testing.T) {
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, day, DayUTC(day))
	assert.Equal(t, day, DayUTC(DayUTC(day.Add(23*time.Hour+59*time.Minute))))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 8, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2026, 8, 4, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, -3, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

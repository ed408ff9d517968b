package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2024, 1, 31, 23, 30, 0, 0, loc)

	assert.Equal(t, "2024-01-31", DateKey(ts))
	assert.Equal(t, "2024-01-31", DateKey(TruncateDay(ts)))
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), TruncateDay(ts))
}

func TestDaysInRange(t *testing.T) {
	start := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)

	days := DaysInRange(start, end)
	require.Len(t, days, 5)
	assert.Equal(t, "2024-02-27", DateKey(days[0]))
	assert.Equal(t, "2024-02-29", DateKey(days[2]))
	assert.Equal(t, "2024-03-02", DateKey(days[4]))

	assert.Nil(t, DaysInRange(end, start))
	assert.Len(t, DaysInRange(start, start), 1)
}

func TestResolvePeriod(t *testing.T) {
	// Wednesday
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		period     string
		start, end string
	}{
		{PeriodToday, "2024-03-13", "2024-03-13"},
		{"", "2024-03-13", "2024-03-13"},
		{PeriodYesterday, "2024-03-12", "2024-03-12"},
		{PeriodWeek, "2024-03-11", "2024-03-13"},
		{PeriodMonth, "2024-03-01", "2024-03-13"},
		{PeriodLastMonth, "2024-02-01", "2024-02-29"},
	}
	for _, c := range cases {
		t.Run(c.period, func(t *testing.T) {
			start, end, err := ResolvePeriod(c.period, now)
			require.NoError(t, err)
			assert.Equal(t, c.start, DateKey(start))
			assert.Equal(t, c.end, DateKey(end))
		})
	}

	_, _, err := ResolvePeriod("fortnight", now)
	assert.Error(t, err)
}

func TestResolvePeriod_WeekOnSunday(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 8, 0, 0, 0, time.UTC)
	start, end, err := ResolvePeriod(PeriodWeek, sunday)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", DateKey(start))
	assert.Equal(t, "2024-03-17", DateKey(end))
}

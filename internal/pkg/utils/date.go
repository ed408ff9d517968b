package utils

import (
	"fmt"
	"time"
)

// DateLayout is the normalized calendar-day format used for lookups and cache keys.
const DateLayout = "2006-01-02"

// DateKey normalizes t to its calendar-day key in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a YYYY-MM-DD key into a UTC midnight.
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(DateLayout, key)
}

// TruncateDay drops the time-of-day, keeping the calendar day as seen in t's location.
// The result is midnight UTC so that days compare and serialize consistently.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInRange returns every calendar day from start to end inclusive.
// An inverted range yields nil.
func DaysInRange(start, end time.Time) []time.Time {
	start, end = TruncateDay(start), TruncateDay(end)
	if end.Before(start) {
		return nil
	}

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Period names accepted by ResolvePeriod.
const (
	PeriodToday     = "today"
	PeriodYesterday = "yesterday"
	PeriodWeek      = "week"
	PeriodMonth     = "month"
	PeriodLastMonth = "last_month"
)

// ResolvePeriod converts a named period into an inclusive day range relative to now.
// Weeks start on Monday.
func ResolvePeriod(period string, now time.Time) (time.Time, time.Time, error) {
	today := TruncateDay(now)

	switch period {
	case "", PeriodToday:
		return today, today, nil
	case PeriodYesterday:
		y := today.AddDate(0, 0, -1)
		return y, y, nil
	case PeriodWeek:
		offset := (int(today.Weekday()) + 6) % 7
		return today.AddDate(0, 0, -offset), today, nil
	case PeriodMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC), today, nil
	case PeriodLastMonth:
		firstOfThisMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		lastOfLastMonth := firstOfThisMonth.AddDate(0, 0, -1)
		return time.Date(lastOfLastMonth.Year(), lastOfLastMonth.Month(), 1, 0, 0, 0, 0, time.UTC), lastOfLastMonth, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown period %q", period)
	}
}

// Package timewindow computes rolling calendar-day windows.
//
// All day boundaries are UTC. Chart labels and count bucketing both go
// through this package so the i-th label always names the same calendar
// day as the i-th bucket.
package timewindow

import "time"

// DayKeyFormat is the canonical YYYY-MM-DD key for one UTC calendar day.
const DayKeyFormat = "2006-01-02"

// Days returns the n most recent UTC calendar days as day keys, oldest
// first, ending at the day containing now. n <= 0 yields an empty slice.
func Days(n int, now time.Time) []string {
	if n <= 0 {
		return nil
	}
	today := truncateDay(now)
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, today.AddDate(0, 0, -i).Format(DayKeyFormat))
	}
	return keys
}

// Start returns UTC midnight of the oldest day in an n-day window ending
// at the day containing now. It is the inclusive lower bound for queries
// feeding the window.
func Start(n int, now time.Time) time.Time {
	if n <= 0 {
		return truncateDay(now)
	}
	return truncateDay(now).AddDate(0, 0, -(n - 1))
}

// Key returns the day key of the UTC calendar day containing ts.
func Key(ts time.Time) string {
	return ts.UTC().Format(DayKeyFormat)
}

func truncateDay(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

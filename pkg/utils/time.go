package utils

import "time"

// Clock returns the current time. Tests swap it for a fixed instant.
type Clock func() time.Time

// SystemClock is the wall clock
func SystemClock() time.Time {
	return time.Now().UTC()
}

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// FormatDate renders a calendar date the way file headers show it
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Package timeutil provides timezone utilities for the campus timezone
// (IST, UTC+5:30). Bulletin dates and transcript timestamps are displayed in
// campus time regardless of where the hub runs.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// CampusTZ is the campus timezone (IST, UTC+5:30, no DST).
var CampusTZ = time.FixedZone("Asia/Kolkata", 5*60*60+30*60)

// Now returns the current time in campus timezone.
func Now() time.Time {
	return time.Now().In(CampusTZ)
}

// ToCampus converts a time to campus timezone.
func ToCampus(t time.Time) time.Time {
	return t.In(CampusTZ)
}

// FormatClock formats a time as a short clock string for transcript display.
func FormatClock(t time.Time) string {
	return ToCampus(t).Format("15:04")
}

// FormatDate formats a time as a date string for bulletin display.
func FormatDate(t time.Time) string {
	return ToCampus(t).Format("02 Jan 2006")
}

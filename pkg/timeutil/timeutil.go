// Package timeutil provides campus-timezone date utilities. Submission windows
// and score deadlines are defined at date granularity in the institution's
// local time, so every comparison here works on dates, never on instants.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// CampusTZ is the institution's timezone. Loaded from the tz database when
// available so DST transitions are honored; falls back to CET otherwise.
var CampusTZ = loadCampusTZ()

func loadCampusTZ() *time.Location {
	loc, err := time.LoadLocation("Europe/Brussels")
	if err != nil {
		return time.FixedZone("CET", 1*60*60)
	}
	return loc
}

// Now returns the current time in campus timezone.
func Now() time.Time {
	return time.Now().In(CampusTZ)
}

// Today returns the current campus date at midnight.
func Today() time.Time {
	return DateOf(Now())
}

// ToCampus converts a time to campus timezone.
func ToCampus(t time.Time) time.Time {
	return t.In(CampusTZ)
}

// Date creates a campus-timezone date at midnight.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, CampusTZ)
}

// DateOf truncates a time to its campus date at midnight.
func DateOf(t time.Time) time.Time {
	c := ToCampus(t)
	return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, CampusTZ)
}

// SameDate reports whether a and b fall on the same campus date.
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// DateBefore reports whether a falls on a strictly earlier campus date than b.
func DateBefore(a, b time.Time) bool {
	return DateOf(a).Before(DateOf(b))
}

// DateAfter reports whether a falls on a strictly later campus date than b.
func DateAfter(a, b time.Time) bool {
	return DateOf(a).After(DateOf(b))
}

// DateWithin reports whether t falls on a campus date inside [start, end],
// both bounds inclusive.
func DateWithin(t, start, end time.Time) bool {
	return !DateBefore(t, start) && !DateAfter(t, end)
}

// AddDays returns the campus date n days after t (n may be negative).
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// FormatDate formats a time as a campus date (DD/MM/YYYY), the form used on
// official score sheets.
func FormatDate(t time.Time) string {
	c := ToCampus(t)
	return fmt.Sprintf("%02d/%02d/%d", c.Day(), int(c.Month()), c.Year())
}

// FormatDateISO formats a time as an ISO campus date (YYYY-MM-DD).
func FormatDateISO(t time.Time) string {
	return ToCampus(t).Format("2006-01-02")
}

// ParseDateISO parses an ISO date (YYYY-MM-DD) into a campus-timezone midnight.
func ParseDateISO(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, CampusTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: invalid date %q: %w", s, err)
	}
	return t, nil
}

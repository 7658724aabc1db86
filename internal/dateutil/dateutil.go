// Package dateutil provides arithmetic over timezone-less calendar dates.
//
// All dates in the data files are plain YYYY-MM-DD strings. Every function
// here parses and formats in UTC so that a run near midnight can never shift
// a date by one day depending on the host timezone.
package dateutil

import "time"

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// Parse converts a YYYY-MM-DD string into a UTC midnight instant.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}

// Format renders t as a YYYY-MM-DD string using t's own calendar fields.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the calendar date of now, evaluated in UTC.
func Today(now time.Time) string {
	return Format(now.UTC())
}

// AddDays shifts a date by n calendar days. An empty input stays empty and a
// malformed input is returned unchanged; entity date fields are optional and
// the scheduler must not invent dates for them.
func AddDays(s string, n int) string {
	if s == "" {
		return s
	}
	t, err := Parse(s)
	if err != nil {
		return s
	}
	return Format(t.AddDate(0, 0, n))
}

// AddMonths shifts a date by n calendar months, clamping to the last valid
// day of the target month (Jan 31 + 1 month is the last day of February, not
// a rollover into March).
func AddMonths(s string, n int) string {
	if s == "" {
		return s
	}
	t, err := Parse(s)
	if err != nil {
		return s
	}
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := DaysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return Format(time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC))
}

// AddYears shifts a date by n years with the same clamping rule as AddMonths
// (Feb 29 in a non-leap target year becomes Feb 28).
func AddYears(s string, n int) string {
	if s == "" {
		return s
	}
	t, err := Parse(s)
	if err != nil {
		return s
	}
	y, m, d := t.Date()
	if last := DaysIn(y+n, m); d > last {
		d = last
	}
	return Format(time.Date(y+n, m, d, 0, 0, 0, 0, time.UTC))
}

// DaysIn reports the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween returns the number of calendar days from one date to another.
// The result is negative when to precedes from. Either date being empty or
// malformed yields zero.
func DaysBetween(from, to string) int {
	a, err := Parse(from)
	if err != nil {
		return 0
	}
	b, err := Parse(to)
	if err != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

// HorizonEnd computes the materialization horizon for a maintenance run: the
// last calendar day of the month two months after now's month.
func HorizonEnd(now time.Time) string {
	y, m, _ := now.UTC().Date()
	return Format(time.Date(y, m+3, 0, 0, 0, 0, 0, time.UTC))
}

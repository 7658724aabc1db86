// Package recurrence expands recurring templates into concrete dated
// instances: a rule resolver computing the next occurrence for a frequency
// tag, and a materializer that walks occurrences up to a rolling horizon.
package recurrence

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/plancal/plancal/internal/dateutil"
	"github.com/plancal/plancal/models"
)

// Next computes the occurrence date following date for the given frequency
// and options. An unknown or empty frequency returns date unchanged; callers
// iterating on Next must treat an unchanged result as a stop condition.
func Next(date string, freq models.Frequency, options []string) string {
	switch freq {
	case models.FreqDaily:
		return dateutil.AddDays(date, 1)
	case models.FreqWeekly:
		return nextWeekly(date, options)
	case models.FreqMonthly:
		return nextMonthly(date, options)
	case models.FreqYearly:
		return dateutil.AddYears(date, 1)
	default:
		return date
	}
}

// nextWeekly advances to the next selected weekday. With no usable weekday
// options the series repeats on the anchor's weekday every 7 days.
func nextWeekly(date string, options []string) string {
	days := make([]int, 0, len(options))
	for _, name := range options {
		if i, ok := models.WeekdayIndex(strings.TrimSpace(name)); ok {
			days = append(days, i)
		}
	}
	if len(days) == 0 {
		return dateutil.AddDays(date, 7)
	}
	sort.Ints(days)

	t, err := dateutil.Parse(date)
	if err != nil {
		return date
	}
	cur := int(t.Weekday())
	for _, d := range days {
		if d > cur {
			return dateutil.AddDays(date, d-cur)
		}
	}
	// Wrap into the following week's earliest selected weekday.
	return dateutil.AddDays(date, (7-cur)+days[0])
}

// nextMonthly advances one calendar month. A numeric option pins the
// day-of-month (clamped to the target month's length); the 말일 sentinel pins
// the last day of the month.
func nextMonthly(date string, options []string) string {
	opt := ""
	if len(options) > 0 {
		opt = strings.TrimSpace(options[0])
	}
	t, err := dateutil.Parse(date)
	if err != nil {
		return date
	}
	if opt == "" || opt == strconv.Itoa(t.Day()) {
		return dateutil.AddMonths(date, 1)
	}

	y, m, _ := t.Date()
	next := time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)
	last := dateutil.DaysIn(next.Year(), next.Month())

	var day int
	if opt == models.MonthlyLastDay {
		day = last
	} else {
		n, err := strconv.Atoi(opt)
		if err != nil || n < 1 {
			return dateutil.AddMonths(date, 1)
		}
		day = min(n, last)
	}
	return dateutil.Format(time.Date(next.Year(), next.Month(), day, 0, 0, 0, 0, time.UTC))
}

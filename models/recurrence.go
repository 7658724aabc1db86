package models

// Frequency is the recurrence tag carried by a template entity. The values
// are the labels the web client writes into the data files, so they are part
// of the wire format and must not be translated.
type Frequency string

const (
	FreqNone    Frequency = ""
	FreqDaily   Frequency = "매일"
	FreqWeekly  Frequency = "매주"
	FreqMonthly Frequency = "매월"
	FreqYearly  Frequency = "매년"
)

// MonthlyLastDay is the monthly-frequency option selecting the last day of
// each month regardless of its length.
const MonthlyLastDay = "말일"

// weekdayNames maps weekday index (0=Sunday..6=Saturday) to the single-character
// labels used by the weekly frequency option.
var weekdayNames = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// WeekdayIndex resolves a weekly option label to its weekday number,
// 0=Sunday through 6=Saturday. Unknown labels report ok=false and are
// skipped by the rule resolver.
func WeekdayIndex(name string) (int, bool) {
	for i, n := range weekdayNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// WeekdayName returns the weekly option label for a weekday number.
func WeekdayName(i int) string {
	return weekdayNames[((i%7)+7)%7]
}

// Rule bundles the recurrence-control fields of a template. Child instances
// never carry a rule; these fields live solely on the template.
type Rule struct {
	Frequency     Frequency
	Options       []string
	ExcludedDates []string
	EndDate       string
}

// Schedulable is the shared shape of Project and Todo as the recurrence
// engine sees them: an id, an optional parent template reference, the anchor
// date that recurrence advances, the recurrence rule, and a constructor for
// materialized children. Keeping the contract generic collapses the two
// near-identical per-entity recurrence paths into one materializer.
type Schedulable[T any] interface {
	// EntityID is the opaque unique identifier.
	EntityID() string
	// TemplateID is the parent template's id for a child instance, empty
	// for templates and plain entities.
	TemplateID() string
	// Anchor is the date field recurrence advances, as YYYY-MM-DD.
	Anchor() string
	// Recurrence returns the template's recurrence rule. Zero-valued for
	// children and plain entities.
	Recurrence() Rule
	// Spawn builds a child instance anchored on the given date. offsetDays
	// is the day distance from the template's anchor; every other
	// date-valued field is shifted by it. The child carries no recurrence
	// fields and has its completion state reset.
	Spawn(id, anchor string, offsetDays int) T
	// WithExcludedDate returns a copy with the date added to the
	// recurrence exclusion set (deduplicated).
	WithExcludedDate(date string) T
	// WithRecurrenceEnd returns a copy with the recurrence end date capped
	// to the given inclusive cutoff.
	WithRecurrenceEnd(date string) T
}

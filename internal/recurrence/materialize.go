package recurrence

import (
	"github.com/plancal/plancal/internal/dateutil"
	"github.com/plancal/plancal/models"
)

// Materialize expands a template into child instances from its anchor date
// up to horizonEnd (inclusive), or the template's recurrence end date when
// that comes first. existing is the full collection the template lives in;
// occurrences whose anchor is already taken by a sibling, or listed in the
// template's exclusion set, are skipped. newID supplies ids for the created
// children.
//
// The cursor advances to the candidate date even when the candidate is
// skipped, so a permanently excluded date can never stall the walk. YYYY-MM-DD
// strings order lexicographically, which keeps all bounds checks plain string
// comparisons.
func Materialize[T models.Schedulable[T]](tmpl T, existing []T, horizonEnd string, newID func() string) []T {
	rule := tmpl.Recurrence()
	if rule.Frequency == models.FreqNone {
		return nil
	}

	taken := make(map[string]bool)
	for _, e := range existing {
		if e.TemplateID() == tmpl.EntityID() {
			taken[e.Anchor()] = true
		}
	}
	excluded := make(map[string]bool, len(rule.ExcludedDates))
	for _, d := range rule.ExcludedDates {
		excluded[d] = true
	}

	anchor := tmpl.Anchor()
	cursor := anchor
	var out []T
	for {
		next := Next(cursor, rule.Frequency, rule.Options)
		if next == cursor {
			// Identity rule (unknown frequency or unparsable date);
			// nothing will ever advance.
			break
		}
		if next > horizonEnd {
			break
		}
		if rule.EndDate != "" && next > rule.EndDate {
			break
		}
		if !taken[next] && !excluded[next] {
			offset := dateutil.DaysBetween(anchor, next)
			out = append(out, tmpl.Spawn(newID(), next, offset))
			taken[next] = true
		}
		cursor = next
	}
	return out
}

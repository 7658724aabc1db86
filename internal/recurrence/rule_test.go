package recurrence

import (
	"testing"

	"github.com/plancal/plancal/models"
)

func TestNextDaily(t *testing.T) {
	if got := Next("2024-11-04", models.FreqDaily, nil); got != "2024-11-05" {
		t.Errorf("daily = %q, want 2024-11-05", got)
	}
}

func TestNextWeeklyNoOptions(t *testing.T) {
	if got := Next("2024-11-04", models.FreqWeekly, nil); got != "2024-11-11" {
		t.Errorf("weekly = %q, want 2024-11-11", got)
	}
	// Unrecognized labels degrade to the plain 7-day step.
	if got := Next("2024-11-04", models.FreqWeekly, []string{"mon"}); got != "2024-11-11" {
		t.Errorf("weekly with junk options = %q, want 2024-11-11", got)
	}
}

func TestNextWeeklyDaySet(t *testing.T) {
	// 2024-11-04 is a Monday; 수=Wednesday, 금=Friday.
	first := Next("2024-11-04", models.FreqWeekly, []string{"수", "금"})
	if first != "2024-11-06" {
		t.Fatalf("first occurrence = %q, want 2024-11-06", first)
	}
	second := Next(first, models.FreqWeekly, []string{"수", "금"})
	if second != "2024-11-08" {
		t.Fatalf("second occurrence = %q, want 2024-11-08", second)
	}
	// From Friday the set wraps to next week's Wednesday.
	third := Next(second, models.FreqWeekly, []string{"수", "금"})
	if third != "2024-11-13" {
		t.Fatalf("wrapped occurrence = %q, want 2024-11-13", third)
	}
}

func TestNextWeeklyWrapToSunday(t *testing.T) {
	// 2024-11-06 is a Wednesday; 일=Sunday wraps into the next week.
	if got := Next("2024-11-06", models.FreqWeekly, []string{"일"}); got != "2024-11-10" {
		t.Errorf("wrap to Sunday = %q, want 2024-11-10", got)
	}
}

func TestNextMonthlyDefaultClamps(t *testing.T) {
	if got := Next("2024-01-31", models.FreqMonthly, nil); got != "2024-02-29" {
		t.Errorf("monthly clamp = %q, want 2024-02-29", got)
	}
	if got := Next("2023-01-31", models.FreqMonthly, nil); got != "2023-02-28" {
		t.Errorf("monthly clamp = %q, want 2023-02-28", got)
	}
}

func TestNextMonthlyNumericOption(t *testing.T) {
	// Pin to day 31, clamped in short months.
	if got := Next("2024-01-31", models.FreqMonthly, []string{"31"}); got != "2024-02-29" {
		t.Errorf("monthly 31 = %q, want 2024-02-29", got)
	}
	if got := Next("2024-02-29", models.FreqMonthly, []string{"31"}); got != "2024-03-31" {
		t.Errorf("monthly 31 = %q, want 2024-03-31", got)
	}
	// Option equal to the current day behaves like the plain month step.
	if got := Next("2024-11-15", models.FreqMonthly, []string{"15"}); got != "2024-12-15" {
		t.Errorf("monthly 15 = %q, want 2024-12-15", got)
	}
	// Option earlier than the current day still lands in the next month.
	if got := Next("2024-11-20", models.FreqMonthly, []string{"5"}); got != "2024-12-05" {
		t.Errorf("monthly 5 = %q, want 2024-12-05", got)
	}
}

func TestNextMonthlyLastDay(t *testing.T) {
	got := Next("2024-01-31", models.FreqMonthly, []string{models.MonthlyLastDay})
	if got != "2024-02-29" {
		t.Fatalf("말일 = %q, want 2024-02-29", got)
	}
	got = Next(got, models.FreqMonthly, []string{models.MonthlyLastDay})
	if got != "2024-03-31" {
		t.Fatalf("말일 = %q, want 2024-03-31", got)
	}
}

func TestNextYearlyClamps(t *testing.T) {
	if got := Next("2024-02-29", models.FreqYearly, nil); got != "2025-02-28" {
		t.Errorf("yearly = %q, want 2025-02-28", got)
	}
}

func TestNextUnknownFrequencyIsIdentity(t *testing.T) {
	if got := Next("2024-11-04", models.FreqNone, nil); got != "2024-11-04" {
		t.Errorf("none = %q, want input unchanged", got)
	}
	if got := Next("2024-11-04", models.Frequency("격주"), nil); got != "2024-11-04" {
		t.Errorf("unknown = %q, want input unchanged", got)
	}
}

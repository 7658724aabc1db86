package models

import (
	"slices"
	"time"

	"github.com/plancal/plancal/internal/dateutil"
)

// Todo is one entry of the todos collection. Todos have no archive; aged
// finished todos are deleted outright by the maintenance run.
type Todo struct {
	ID                      string     `json:"id" validate:"required,uuid4"`
	Title                   string     `json:"title" validate:"required,min=1,max=255"`
	Importance              int        `json:"importance" validate:"min=0,max=5"`
	Content                 string     `json:"content,omitempty"`
	Deadline                string     `json:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Date                    string     `json:"date" validate:"required,datetime=2006-01-02"`
	Category                string     `json:"category,omitempty"`
	IsFinished              bool       `json:"isFinished"`
	FinishedAt              *time.Time `json:"finishedAt,omitempty"`
	Frequency               Frequency  `json:"frequency,omitempty" validate:"omitempty,oneof=매일 매주 매월 매년"`
	FrequencyOption         []string   `json:"frequencyOption,omitempty"`
	RecurrenceExcludedDates []string   `json:"recurrenceExcludedDates,omitempty" validate:"omitempty,dive,datetime=2006-01-02"`
	RecurrenceEndDate       string     `json:"recurrenceEndDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ParentID                string     `json:"parentId,omitempty" validate:"omitempty,uuid4"`
	NotificationEnabled     bool       `json:"notificationEnabled,omitempty"`
}

// IsTemplate reports whether the todo is a recurrence template.
func (t Todo) IsTemplate() bool {
	return t.Frequency != FreqNone && t.ParentID == ""
}

// EntityID implements Schedulable.
func (t Todo) EntityID() string { return t.ID }

// TemplateID implements Schedulable.
func (t Todo) TemplateID() string { return t.ParentID }

// Anchor implements Schedulable. Recurrence advances the scheduled date.
func (t Todo) Anchor() string { return t.Date }

// Recurrence implements Schedulable.
func (t Todo) Recurrence() Rule {
	return Rule{
		Frequency:     t.Frequency,
		Options:       t.FrequencyOption,
		ExcludedDates: t.RecurrenceExcludedDates,
		EndDate:       t.RecurrenceEndDate,
	}
}

// Spawn implements Schedulable.
func (t Todo) Spawn(id, anchor string, offsetDays int) Todo {
	child := t
	child.ID = id
	child.ParentID = t.ID
	child.Frequency = FreqNone
	child.FrequencyOption = nil
	child.RecurrenceExcludedDates = nil
	child.RecurrenceEndDate = ""
	child.Date = anchor
	child.Deadline = dateutil.AddDays(t.Deadline, offsetDays)
	child.IsFinished = false
	child.FinishedAt = nil
	return child
}

// WithExcludedDate implements Schedulable.
func (t Todo) WithExcludedDate(date string) Todo {
	if !slices.Contains(t.RecurrenceExcludedDates, date) {
		t.RecurrenceExcludedDates = append(slices.Clone(t.RecurrenceExcludedDates), date)
	}
	return t
}

// WithRecurrenceEnd implements Schedulable.
func (t Todo) WithRecurrenceEnd(date string) Todo {
	t.RecurrenceEndDate = date
	return t
}

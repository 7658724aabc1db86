package models

import (
	"slices"
	"time"

	"github.com/plancal/plancal/internal/dateutil"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectFinished ProjectStatus = "finished"
)

// Project is one entry of the projects collection. JSON field names match
// the web client's wire format; dates are YYYY-MM-DD strings and finishedAt
// is an ISO-8601 timestamp.
type Project struct {
	ID                      string        `json:"id" validate:"required,uuid4"`
	ProjectNumber           string        `json:"projectNumber,omitempty"`
	Title                   string        `json:"title" validate:"required,min=1,max=255"`
	WebAppPeriodStart       string        `json:"webAppPeriodStart" validate:"required,datetime=2006-01-02"`
	WebAppPeriodEnd         string        `json:"webAppPeriodEnd,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FieldWorkPeriodStart    string        `json:"fieldWorkPeriodStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FieldWorkPeriodEnd      string        `json:"fieldWorkPeriodEnd,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate                 string        `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Remarks                 string        `json:"remarks,omitempty"`
	Team                    string        `json:"team,omitempty"`
	IsWebAppFinished        bool          `json:"isWebAppFinished"`
	IsFieldWorkStarted      bool          `json:"isFieldWorkStarted"`
	Status                  ProjectStatus `json:"status" validate:"required,oneof=active finished"`
	FinishedAt              *time.Time    `json:"finishedAt,omitempty"`
	Frequency               Frequency     `json:"frequency,omitempty" validate:"omitempty,oneof=매일 매주 매월 매년"`
	FrequencyOption         []string      `json:"frequencyOption,omitempty"`
	RecurrenceExcludedDates []string      `json:"recurrenceExcludedDates,omitempty" validate:"omitempty,dive,datetime=2006-01-02"`
	RecurrenceEndDate       string        `json:"recurrenceEndDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ParentID                string        `json:"parentId,omitempty" validate:"omitempty,uuid4"`
	NotificationEnabled     bool          `json:"notificationEnabled,omitempty"`
}

// IsTemplate reports whether the project is a recurrence template: it
// carries a frequency and is not itself a materialized child.
func (p Project) IsTemplate() bool {
	return p.Frequency != FreqNone && p.ParentID == ""
}

// EntityID implements Schedulable.
func (p Project) EntityID() string { return p.ID }

// TemplateID implements Schedulable.
func (p Project) TemplateID() string { return p.ParentID }

// Anchor implements Schedulable. Recurrence advances the web-app period
// start date.
func (p Project) Anchor() string { return p.WebAppPeriodStart }

// Recurrence implements Schedulable.
func (p Project) Recurrence() Rule {
	return Rule{
		Frequency:     p.Frequency,
		Options:       p.FrequencyOption,
		ExcludedDates: p.RecurrenceExcludedDates,
		EndDate:       p.RecurrenceEndDate,
	}
}

// Spawn implements Schedulable. The child copies the template, shifts every
// date field by offsetDays, drops the recurrence-control fields, and resets
// all completion state to a fresh active project.
func (p Project) Spawn(id, anchor string, offsetDays int) Project {
	child := p
	child.ID = id
	child.ParentID = p.ID
	child.Frequency = FreqNone
	child.FrequencyOption = nil
	child.RecurrenceExcludedDates = nil
	child.RecurrenceEndDate = ""
	child.WebAppPeriodStart = anchor
	child.WebAppPeriodEnd = dateutil.AddDays(p.WebAppPeriodEnd, offsetDays)
	child.FieldWorkPeriodStart = dateutil.AddDays(p.FieldWorkPeriodStart, offsetDays)
	child.FieldWorkPeriodEnd = dateutil.AddDays(p.FieldWorkPeriodEnd, offsetDays)
	child.EndDate = dateutil.AddDays(p.EndDate, offsetDays)
	child.IsWebAppFinished = false
	child.IsFieldWorkStarted = false
	child.Status = ProjectActive
	child.FinishedAt = nil
	return child
}

// WithExcludedDate implements Schedulable.
func (p Project) WithExcludedDate(date string) Project {
	if !slices.Contains(p.RecurrenceExcludedDates, date) {
		p.RecurrenceExcludedDates = append(slices.Clone(p.RecurrenceExcludedDates), date)
	}
	return p
}

// WithRecurrenceEnd implements Schedulable.
func (p Project) WithRecurrenceEnd(date string) Project {
	p.RecurrenceEndDate = date
	return p
}

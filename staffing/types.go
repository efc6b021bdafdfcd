/*
Package staffing holds the planning domain model and the engine facade.

PURPOSE:
  Ties the generic engine layers (calendar, availability, allocation,
  placement) to the concrete domain: companies own projects, projects own
  work-package trees, employees are assigned to projects at a percentage
  of their time, sub-divided across work packages.

OWNERSHIP:
  - AbsenceIntervals belong to their Employee and die with it.
  - Distribution shares belong to their Assignment and die with it.
  - Holidays are installation-wide and referenced, never owned.

SEE ALSO:
  - engine.go: the facade the API, calendar views and exporters call
  - workpackage.go: effective-range resolution over the package tree
*/
package staffing

import (
	"time"

	"github.com/novarix/planning-engine/availability"
	"github.com/novarix/planning-engine/calendar"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is a planned person: contract figures for the daily rate plus
// the absence intervals that block calendar days.
type Employee struct {
	ID       string
	Name     string
	Position string

	WeeklyHours      float64
	LeaveEntitlement int  // annual leave days
	ObservesHolidays bool // whether the global holiday calendar applies

	AnnualCompensation float64
	AnnualOnCosts      float64 // employer-side on-costs

	// Absences keeps insertion order; the first matching interval wins as
	// the displayed block reason.
	Absences []AbsenceInterval
}

// AbsenceKind is the user-facing classification of an absence.
type AbsenceKind string

const (
	AbsenceVacation AbsenceKind = "vacation"
	AbsenceSick     AbsenceKind = "sick"
)

// AbsenceInterval blocks whole calendar days, inclusive on both ends.
// Immutable once created except for deletion.
type AbsenceInterval struct {
	ID         string
	EmployeeID string
	Kind       AbsenceKind
	From       calendar.Date
	To         calendar.Date
	Note       string
}

// Span returns the interval as a range.
func (a AbsenceInterval) Span() calendar.Range {
	return calendar.NewRange(a.From, a.To)
}

// Profile converts the employee into the availability package's input
// shape.
func (e *Employee) Profile() availability.Profile {
	if e == nil {
		return availability.Profile{}
	}
	p := availability.Profile{ObservesHolidays: e.ObservesHolidays}
	for _, a := range e.Absences {
		kind := availability.BlockVacation
		if a.Kind == AbsenceSick {
			kind = availability.BlockSick
		}
		p.Absences = append(p.Absences, availability.Absence{Kind: kind, Span: a.Span()})
	}
	return p
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// Holiday is a stored holiday record. Only employees with ObservesHolidays
// actually observe it.
type Holiday struct {
	ID   string
	Date calendar.Date
	Name string
}

// HolidaySet converts stored records into the calendar lookup type.
func HolidaySet(holidays []Holiday) *calendar.HolidaySet {
	entries := make([]calendar.Holiday, 0, len(holidays))
	for _, h := range holidays {
		entries = append(entries, calendar.Holiday{Date: h.Date, Name: h.Name})
	}
	return calendar.NewHolidaySet(entries)
}

// =============================================================================
// COMPANIES / PROJECTS / WORK PACKAGES
// =============================================================================

// Company is the top-level container (the Über-Projekt of the planning UI).
type Company struct {
	ID          string
	Name        string
	Description string
	CompanyType string // e.g. "kmu", "konzern"
}

// Project belongs to a company and owns a forest of work packages.
type Project struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Status      string
	Start       calendar.Date // optional; zero = open
	End         calendar.Date // optional; zero = open
	Budget      float64
}

// Span returns the project's own date range.
func (p Project) Span() calendar.Range {
	return calendar.NewRange(p.Start, p.End)
}

// Document is a file attached to a project (offers, contracts, reports).
// Data holds the raw content; listings carry the metadata only. Documents
// die with their project.
type Document struct {
	ID          string
	ProjectID   string
	Name        string
	ContentType string
	Size        int64
	UploadedAt  time.Time
	Data        []byte
}

// WorkPackage is one node of a project's package tree. ParentID is empty
// for top-level packages. Start/End are optional; the effective range
// falls back to the nearest ancestor, then the project.
type WorkPackage struct {
	ID          string
	ProjectID   string
	ParentID    string
	Name        string
	Description string
	Status      string
	Start       calendar.Date
	End         calendar.Date
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// DistributionShare attributes part of an assignment to one work package.
// Percent is a fraction of the assignment's own percentage. Shares need
// not sum to 100; the remainder is unattributed project-level time.
type DistributionShare struct {
	WorkPackageID string
	Percent       float64
}

// Assignment links an employee to a project for an engagement window at a
// percentage (1–100) of the employee's time.
type Assignment struct {
	ID         string
	EmployeeID string
	ProjectID  string
	Percent    float64
	From       calendar.Date
	To         calendar.Date

	Distribution []DistributionShare
}

// Window returns the engagement window as a range.
func (a Assignment) Window() calendar.Range {
	return calendar.NewRange(a.From, a.To)
}

// DistributionSum returns the sum of all share percentages.
func (a Assignment) DistributionSum() float64 {
	sum := 0.0
	for _, s := range a.Distribution {
		sum += s.Percent
	}
	return sum
}

// Share returns the distribution entry for a work package, if present.
func (a Assignment) Share(workPackageID string) (DistributionShare, bool) {
	for _, s := range a.Distribution {
		if s.WorkPackageID == workPackageID {
			return s, true
		}
	}
	return DistributionShare{}, false
}

/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DATES:
  All dates travel as "2006-01-02" strings. Optional dates are omitted or
  empty; calendar.Date round-trips "" as the zero date.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - server.go: Router setup and middleware
*/
package api

import (
	"time"

	"github.com/novarix/planning-engine/allocation"
	"github.com/novarix/planning-engine/availability"
	"github.com/novarix/planning-engine/calendar"
	"github.com/novarix/planning-engine/placement"
	"github.com/novarix/planning-engine/staffing"
	"github.com/novarix/planning-engine/store"
)

// =============================================================================
// EMPLOYEES + ABSENCES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Position           string       `json:"position,omitempty"`
	WeeklyHours        float64      `json:"weekly_hours"`
	LeaveEntitlement   int          `json:"leave_entitlement"`
	ObservesHolidays   bool         `json:"observes_holidays"`
	AnnualCompensation float64      `json:"annual_compensation"`
	AnnualOnCosts      float64      `json:"annual_on_costs"`
	Absences           []AbsenceDTO `json:"absences,omitempty"`
}

// SaveEmployeeRequest creates or updates an employee. Absences are managed
// through their own endpoints and ignored here.
type SaveEmployeeRequest struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Position           string  `json:"position"`
	WeeklyHours        float64 `json:"weekly_hours"`
	LeaveEntitlement   int     `json:"leave_entitlement"`
	ObservesHolidays   bool    `json:"observes_holidays"`
	AnnualCompensation float64 `json:"annual_compensation"`
	AnnualOnCosts      float64 `json:"annual_on_costs"`
}

// AbsenceDTO represents one absence interval.
type AbsenceDTO struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	From string `json:"from"`
	To   string `json:"to"`
	Note string `json:"note,omitempty"`
}

// AddAbsenceRequest adds an absence interval to an employee.
type AddAbsenceRequest struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	From string `json:"from"`
	To   string `json:"to"`
	Note string `json:"note,omitempty"`
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a holiday in API responses.
type HolidayDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

// SaveHolidayRequest creates or updates a holiday.
type SaveHolidayRequest struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

// =============================================================================
// COMPANIES / PROJECTS / WORK PACKAGES
// =============================================================================

// CompanyDTO represents a company.
type CompanyDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CompanyType string `json:"company_type"`
}

// SaveCompanyRequest creates or updates a company.
type SaveCompanyRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CompanyType string `json:"company_type"`
}

// ProjectDTO represents a project.
type ProjectDTO struct {
	ID          string  `json:"id"`
	CompanyID   string  `json:"company_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status"`
	Start       string  `json:"start,omitempty"`
	End         string  `json:"end,omitempty"`
	Budget      float64 `json:"budget"`
}

// SaveProjectRequest creates or updates a project.
type SaveProjectRequest struct {
	ID          string  `json:"id"`
	CompanyID   string  `json:"company_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Budget      float64 `json:"budget"`
}

// WorkPackageDTO represents one node of a project's package tree.
type WorkPackageDTO struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	ParentID    string `json:"parent_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
}

// SaveWorkPackageRequest creates or updates a work package.
type SaveWorkPackageRequest struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	ParentID    string `json:"parent_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// DistributionShareDTO attributes part of an assignment to a work package.
type DistributionShareDTO struct {
	WorkPackageID string  `json:"work_package_id"`
	Percent       float64 `json:"percent"`
}

// AssignmentDTO represents an assignment with its distribution.
type AssignmentDTO struct {
	ID           string                 `json:"id"`
	EmployeeID   string                 `json:"employee_id"`
	ProjectID    string                 `json:"project_id"`
	Percent      float64                `json:"percent"`
	From         string                 `json:"from"`
	To           string                 `json:"to"`
	Distribution []DistributionShareDTO `json:"distribution"`
}

// SaveAssignmentRequest creates or updates an assignment; the distribution
// replaces the stored one wholesale.
type SaveAssignmentRequest struct {
	ID           string                 `json:"id"`
	EmployeeID   string                 `json:"employee_id"`
	ProjectID    string                 `json:"project_id"`
	Percent      float64                `json:"percent"`
	From         string                 `json:"from"`
	To           string                 `json:"to"`
	Distribution []DistributionShareDTO `json:"distribution"`
}

// SaveAssignmentResponse echoes the saved assignment. Warning is set when
// the distribution sums past 100 percent; the write still succeeds.
type SaveAssignmentResponse struct {
	Assignment AssignmentDTO `json:"assignment"`
	Warning    string        `json:"warning,omitempty"`
}

// =============================================================================
// ENGINE RESULTS
// =============================================================================

// AvailabilityDTO is the day breakdown for an employee over a range.
type AvailabilityDTO struct {
	EmployeeID   string `json:"employee_id"`
	From         string `json:"from"`
	To           string `json:"to"`
	BusinessDays int    `json:"business_days"`
	Blocked      int    `json:"blocked"`
	Available    int    `json:"available"`
}

// ShareResultDTO is the day and cost attribution for one work package.
type ShareResultDTO struct {
	WorkPackageID string  `json:"work_package_id"`
	Percent       float64 `json:"percent"`
	Days          string  `json:"days"`
	Cost          string  `json:"cost"`
}

// AllocationDTO is the full allocation breakdown for an assignment.
// Decimal figures travel as strings to preserve precision.
type AllocationDTO struct {
	AssignmentID   string           `json:"assignment_id"`
	BusinessDays   int              `json:"business_days"`
	Blocked        int              `json:"blocked"`
	Available      int              `json:"available"`
	TotalDays      string           `json:"total_days"`
	DailyRate      string           `json:"daily_rate"`
	ProjectCost    string           `json:"project_cost"`
	PerWorkPackage []ShareResultDTO `json:"per_work_package"`
}

// ScheduleDTO is the concrete day placement for one work package share.
type ScheduleDTO struct {
	AssignmentID  string         `json:"assignment_id"`
	WorkPackageID string         `json:"work_package_id"`
	WorkedDates   []ScheduledDay `json:"worked_dates"`
	TotalHours    int            `json:"total_hours"`
}

// ScheduledDay is one placed calendar day.
type ScheduledDay struct {
	Date  string `json:"date"`
	Hours int    `json:"hours"`
}

// =============================================================================
// DOCUMENTS + TRASH
// =============================================================================

// DocumentDTO is document metadata; content travels via the download
// endpoint, never inline.
type DocumentDTO struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	UploadedAt  string `json:"uploaded_at"`
}

// TrashEntryDTO is one removed record waiting for restore or purge.
type TrashEntryDTO struct {
	ID         string `json:"id"`
	RecordType string `json:"record_type"`
	RecordID   string `json:"record_id"`
	DeletedAt  string `json:"deleted_at"`
}

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is the credential payload for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed bearer token.
type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e staffing.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:                 e.ID,
		Name:               e.Name,
		Position:           e.Position,
		WeeklyHours:        e.WeeklyHours,
		LeaveEntitlement:   e.LeaveEntitlement,
		ObservesHolidays:   e.ObservesHolidays,
		AnnualCompensation: e.AnnualCompensation,
		AnnualOnCosts:      e.AnnualOnCosts,
	}
	for _, a := range e.Absences {
		dto.Absences = append(dto.Absences, AbsenceDTO{
			ID:   a.ID,
			Kind: string(a.Kind),
			From: a.From.String(),
			To:   a.To.String(),
			Note: a.Note,
		})
	}
	return dto
}

func toHolidayDTO(h staffing.Holiday) HolidayDTO {
	return HolidayDTO{ID: h.ID, Date: h.Date.String(), Name: h.Name}
}

func toCompanyDTO(c staffing.Company) CompanyDTO {
	return CompanyDTO{ID: c.ID, Name: c.Name, Description: c.Description, CompanyType: c.CompanyType}
}

func toProjectDTO(p staffing.Project) ProjectDTO {
	return ProjectDTO{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Start:       dateString(p.Start),
		End:         dateString(p.End),
		Budget:      p.Budget,
	}
}

func toWorkPackageDTO(wp staffing.WorkPackage) WorkPackageDTO {
	return WorkPackageDTO{
		ID:          wp.ID,
		ProjectID:   wp.ProjectID,
		ParentID:    wp.ParentID,
		Name:        wp.Name,
		Description: wp.Description,
		Status:      wp.Status,
		Start:       dateString(wp.Start),
		End:         dateString(wp.End),
	}
}

func toAssignmentDTO(a staffing.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		ProjectID:    a.ProjectID,
		Percent:      a.Percent,
		From:         a.From.String(),
		To:           a.To.String(),
		Distribution: []DistributionShareDTO{},
	}
	for _, s := range a.Distribution {
		dto.Distribution = append(dto.Distribution, DistributionShareDTO{
			WorkPackageID: s.WorkPackageID,
			Percent:       s.Percent,
		})
	}
	return dto
}

func toAvailabilityDTO(employeeID string, span calendar.Range, av availability.Availability) AvailabilityDTO {
	return AvailabilityDTO{
		EmployeeID:   employeeID,
		From:         span.Start.String(),
		To:           span.End.String(),
		BusinessDays: av.BusinessDays,
		Blocked:      av.Blocked,
		Available:    av.Available,
	}
}

func toAllocationDTO(assignmentID string, res allocation.Result) AllocationDTO {
	dto := AllocationDTO{
		AssignmentID:   assignmentID,
		BusinessDays:   res.BusinessDays,
		Blocked:        res.Blocked,
		Available:      res.Available,
		TotalDays:      res.TotalDays.String(),
		DailyRate:      res.DailyRate.Round(2).String(),
		ProjectCost:    res.ProjectCost.String(),
		PerWorkPackage: []ShareResultDTO{},
	}
	for _, s := range res.PerWorkPackage {
		dto.PerWorkPackage = append(dto.PerWorkPackage, ShareResultDTO{
			WorkPackageID: s.WorkPackageID,
			Percent:       s.Percent,
			Days:          s.Days.Round(2).String(),
			Cost:          s.Cost.String(),
		})
	}
	return dto
}

func toScheduleDTO(assignmentID, workPackageID string, sched placement.Schedule) ScheduleDTO {
	dto := ScheduleDTO{
		AssignmentID:  assignmentID,
		WorkPackageID: workPackageID,
		WorkedDates:   []ScheduledDay{},
		TotalHours:    sched.TotalHours(),
	}
	for _, d := range sched.WorkedDates {
		dto.WorkedDates = append(dto.WorkedDates, ScheduledDay{
			Date:  d.String(),
			Hours: sched.Hours[d],
		})
	}
	return dto
}

func dateString(d calendar.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func toDocumentDTO(d staffing.Document) DocumentDTO {
	return DocumentDTO{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		ContentType: d.ContentType,
		Size:        d.Size,
		UploadedAt:  d.UploadedAt.UTC().Format(time.RFC3339),
	}
}

func toTrashEntryDTO(t store.TrashEntry) TrashEntryDTO {
	return TrashEntryDTO{
		ID:         t.ID,
		RecordType: t.RecordType,
		RecordID:   t.RecordID,
		DeletedAt:  t.DeletedAt.UTC().Format(time.RFC3339),
	}
}

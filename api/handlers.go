/*
handlers.go - HTTP API handlers for the planning engine

PURPOSE:
  Exposes the planning data and the engine computations via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  staffing engine and the store.

ENDPOINTS:
  Employees:
    GET    /api/v1/employees                   List all employees
    POST   /api/v1/employees                   Create/update employee
    GET    /api/v1/employees/{id}              Get employee with absences
    DELETE /api/v1/employees/{id}              Delete employee
    POST   /api/v1/employees/{id}/absences     Add absence interval
    GET    /api/v1/employees/{id}/assignments  Assignments of an employee
    GET    /api/v1/employees/{id}/availability Day breakdown (?from&to)
    DELETE /api/v1/absences/{id}               Delete absence interval

  Hierarchy:
    GET/POST       /api/v1/companies            DELETE /api/v1/companies/{id}
    GET/POST       /api/v1/projects (?company_id)
    GET/DELETE     /api/v1/projects/{id}
    GET            /api/v1/projects/{id}/work-packages
    GET            /api/v1/projects/{id}/assignments
    POST           /api/v1/work-packages        DELETE /api/v1/work-packages/{id}

  Assignments + engine:
    POST   /api/v1/assignments                       Upsert (warning on >100% distribution)
    GET    /api/v1/assignments/{id}                  Get assignment
    DELETE /api/v1/assignments/{id}                  Delete assignment
    GET    /api/v1/assignments/{id}/allocation       Day/cost breakdown
    GET    /api/v1/assignments/{id}/schedule/{workPackageID}  Placed days

  Documents (documents.go):
    POST   /api/v1/projects/{id}/documents  Upload (multipart "file")
    GET    /api/v1/projects/{id}/documents  List metadata
    GET    /api/v1/documents/{id}           Download
    DELETE /api/v1/documents/{id}           Delete

  Trash (trash.go):
    GET    /api/v1/trash                    List removed records
    POST   /api/v1/trash/{id}/restore       Put a record back
    DELETE /api/v1/trash/{id}               Purge a snapshot

  Misc:
    GET/POST /api/v1/holidays     DELETE /api/v1/holidays/{id}
    POST     /api/v1/demo/seed    Load the demo dataset

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Duplicate ID
  - 422: Cross-ownership reference (foreign work package / parent)
  - 500: Internal errors

ENGINE LIFECYCLE:
  The engine is rebuilt per request from the stored holiday list.
  Construction is one map build; caching it would only add invalidation
  bugs when holidays change.

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: Login handler and bearer middleware
  - seed.go: Demo dataset loader
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/novarix/planning-engine/calendar"
	"github.com/novarix/planning-engine/staffing"
	"github.com/novarix/planning-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store store.Store
	Log   *logrus.Logger

	// JWTSecret signs login tokens. Empty disables authentication (dev
	// and test mode).
	JWTSecret string
}

// NewHandler creates a new handler with the given store.
func NewHandler(st store.Store, log *logrus.Logger, jwtSecret string) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{Store: st, Log: log, JWTSecret: jwtSecret}
}

// engine builds a planning engine from the stored holiday calendar.
func (h *Handler) engine(r *http.Request) (*staffing.Engine, error) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		return nil, err
	}
	return staffing.NewEngine(staffing.HolidaySet(holidays)), nil
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees with their absences.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee with absences.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeStoreError(w, "employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// SaveEmployee creates or updates an employee.
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if req.WeeklyHours < 0 || req.LeaveEntitlement < 0 {
		writeError(w, http.StatusBadRequest, "weekly_hours and leave_entitlement must not be negative", nil)
		return
	}

	emp := staffing.Employee{
		ID:                 req.ID,
		Name:               req.Name,
		Position:           req.Position,
		WeeklyHours:        req.WeeklyHours,
		LeaveEntitlement:   req.LeaveEntitlement,
		ObservesHolidays:   req.ObservesHolidays,
		AnnualCompensation: req.AnnualCompensation,
		AnnualOnCosts:      req.AnnualOnCosts,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeStoreError(w, "employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// DeleteEmployee moves an employee to the trash and removes it; absences
// and assignments cascade.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.trashRecord(r.Context(), store.TrashEmployee, id); err != nil {
		writeStoreError(w, "employee", err)
		return
	}
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		writeStoreError(w, "employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddAbsence adds one absence interval to an employee.
func (h *Handler) AddAbsence(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var req AddAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	kind := staffing.AbsenceKind(req.Kind)
	if kind != staffing.AbsenceVacation && kind != staffing.AbsenceSick {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown absence kind %q", req.Kind), nil)
		return
	}
	from, err := calendar.ParseDate(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := calendar.ParseDate(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not be before from", nil)
		return
	}

	a := staffing.AbsenceInterval{
		ID:         req.ID,
		EmployeeID: employeeID,
		Kind:       kind,
		From:       from,
		To:         to,
		Note:       req.Note,
	}
	if err := h.Store.AddAbsence(r.Context(), a); err != nil {
		writeStoreError(w, "absence", err)
		return
	}
	writeJSON(w, http.StatusCreated, AbsenceDTO{
		ID: a.ID, Kind: string(a.Kind), From: a.From.String(), To: a.To.String(), Note: a.Note,
	})
}

// DeleteAbsence removes one absence interval.
func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAbsence(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "absence", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAvailability returns the business/blocked/available day counts for an
// employee over ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	from, err := calendar.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := calendar.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeStoreError(w, "employee", err)
		return
	}
	engine, err := h.engine(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load holidays", err)
		return
	}

	span := calendar.NewRange(from, to)
	writeJSON(w, http.StatusOK, toAvailabilityDTO(id, span, engine.Availability(&emp, span)))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all holidays ordered by date.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}
	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = toHolidayDTO(hol)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveHoliday creates or updates a holiday.
func (h *Handler) SaveHoliday(w http.ResponseWriter, r *http.Request) {
	var req SaveHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	day, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	hol := staffing.Holiday{ID: req.ID, Date: day, Name: req.Name}
	if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
		writeStoreError(w, "holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayDTO(hol))
}

// DeleteHoliday removes one holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COMPANY HANDLERS
// =============================================================================

// ListCompanies returns all companies.
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Store.ListCompanies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list companies", err)
		return
	}
	dtos := make([]CompanyDTO, len(companies))
	for i, c := range companies {
		dtos[i] = toCompanyDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCompany returns a single company.
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "company", err)
		return
	}
	writeJSON(w, http.StatusOK, toCompanyDTO(c))
}

// SaveCompany creates or updates a company.
func (h *Handler) SaveCompany(w http.ResponseWriter, r *http.Request) {
	var req SaveCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if req.CompanyType == "" {
		req.CompanyType = "kmu"
	}

	c := staffing.Company{ID: req.ID, Name: req.Name, Description: req.Description, CompanyType: req.CompanyType}
	if err := h.Store.SaveCompany(r.Context(), c); err != nil {
		writeStoreError(w, "company", err)
		return
	}
	writeJSON(w, http.StatusOK, toCompanyDTO(c))
}

// DeleteCompany moves a company to the trash and removes it together with
// everything it owns. Only the company record itself is restorable.
func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.trashRecord(r.Context(), store.TrashCompany, id); err != nil {
		writeStoreError(w, "company", err)
		return
	}
	if err := h.Store.DeleteCompany(r.Context(), id); err != nil {
		writeStoreError(w, "company", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns projects, optionally scoped to ?company_id=.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context(), r.URL.Query().Get("company_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProject returns a single project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "project", err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(p))
}

// SaveProject creates or updates a project.
func (h *Handler) SaveProject(w http.ResponseWriter, r *http.Request) {
	var req SaveProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" || req.CompanyID == "" {
		writeError(w, http.StatusBadRequest, "id, name and company_id are required", nil)
		return
	}
	start, err := parseOptionalDate(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date", err)
		return
	}
	end, err := parseOptionalDate(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date", err)
		return
	}
	if req.Status == "" {
		req.Status = "aktiv"
	}

	p := staffing.Project{
		ID:          req.ID,
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Start:       start,
		End:         end,
		Budget:      req.Budget,
	}
	if err := h.Store.SaveProject(r.Context(), p); err != nil {
		writeStoreError(w, "project", err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(p))
}

// DeleteProject moves a project to the trash and removes it with its work
// packages, assignments and documents. Only the project record itself is
// restorable.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.trashRecord(r.Context(), store.TrashProject, id); err != nil {
		writeStoreError(w, "project", err)
		return
	}
	if err := h.Store.DeleteProject(r.Context(), id); err != nil {
		writeStoreError(w, "project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// WORK PACKAGE HANDLERS
// =============================================================================

// ListWorkPackages returns the work packages of a project.
func (h *Handler) ListWorkPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.Store.ListWorkPackages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list work packages", err)
		return
	}
	dtos := make([]WorkPackageDTO, len(packages))
	for i, wp := range packages {
		dtos[i] = toWorkPackageDTO(wp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetWorkPackage returns a single work package.
func (h *Handler) GetWorkPackage(w http.ResponseWriter, r *http.Request) {
	wp, err := h.Store.GetWorkPackage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "work package", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkPackageDTO(wp))
}

// SaveWorkPackage creates or updates a work package.
func (h *Handler) SaveWorkPackage(w http.ResponseWriter, r *http.Request) {
	var req SaveWorkPackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" || req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "id, name and project_id are required", nil)
		return
	}
	start, err := parseOptionalDate(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date", err)
		return
	}
	end, err := parseOptionalDate(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date", err)
		return
	}
	if req.Status == "" {
		req.Status = "offen"
	}

	wp := staffing.WorkPackage{
		ID:          req.ID,
		ProjectID:   req.ProjectID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Start:       start,
		End:         end,
	}
	if err := h.Store.SaveWorkPackage(r.Context(), wp); err != nil {
		writeStoreError(w, "work package", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkPackageDTO(wp))
}

// DeleteWorkPackage moves a work package to the trash and removes it;
// distribution shares pointing at it are stripped.
func (h *Handler) DeleteWorkPackage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.trashRecord(r.Context(), store.TrashWorkPackage, id); err != nil {
		writeStoreError(w, "work package", err)
		return
	}
	if err := h.Store.DeleteWorkPackage(r.Context(), id); err != nil {
		writeStoreError(w, "work package", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ASSIGNMENT HANDLERS
// =============================================================================

// ListProjectAssignments returns the assignments of a project.
func (h *Handler) ListProjectAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.Store.ListAssignments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}
	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListEmployeeAssignments returns the assignments of an employee.
func (h *Handler) ListEmployeeAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.Store.ListAssignmentsByEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}
	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAssignment returns a single assignment with its distribution.
func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := h.Store.GetAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(a))
}

// SaveAssignment creates or updates an assignment; the distribution
// replaces the stored one wholesale. A distribution summing past 100 is
// stored as-is and flagged in the response warning.
func (h *Handler) SaveAssignment(w http.ResponseWriter, r *http.Request) {
	var req SaveAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.EmployeeID == "" || req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "id, employee_id and project_id are required", nil)
		return
	}
	if req.Percent <= 0 || req.Percent > 100 {
		writeError(w, http.StatusBadRequest, "percent must be in (0, 100]", nil)
		return
	}
	from, err := calendar.ParseDate(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := calendar.ParseDate(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not be before from", nil)
		return
	}

	a := staffing.Assignment{
		ID:         req.ID,
		EmployeeID: req.EmployeeID,
		ProjectID:  req.ProjectID,
		Percent:    req.Percent,
		From:       from,
		To:         to,
	}
	seen := map[string]bool{}
	for _, s := range req.Distribution {
		if s.WorkPackageID == "" {
			writeError(w, http.StatusBadRequest, "distribution entries need a work_package_id", nil)
			return
		}
		if s.Percent < 0 {
			writeError(w, http.StatusBadRequest, "distribution percentages must not be negative", nil)
			return
		}
		if seen[s.WorkPackageID] {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("duplicate distribution entry for %s", s.WorkPackageID), nil)
			return
		}
		seen[s.WorkPackageID] = true
		a.Distribution = append(a.Distribution, staffing.DistributionShare{
			WorkPackageID: s.WorkPackageID,
			Percent:       s.Percent,
		})
	}

	if err := h.Store.SaveAssignment(r.Context(), a); err != nil {
		writeStoreError(w, "assignment", err)
		return
	}

	resp := SaveAssignmentResponse{Assignment: toAssignmentDTO(a)}
	if sum := a.DistributionSum(); sum > 100 {
		resp.Warning = fmt.Sprintf("distribution sums to %.1f%%, exceeding 100%%", sum)
		h.Log.WithFields(logrus.Fields{
			"assignment": a.ID,
			"sum":        sum,
		}).Warn("overfull work package distribution saved")
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteAssignment moves an assignment to the trash and removes it with
// its distribution.
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.trashRecord(r.Context(), store.TrashAssignment, id); err != nil {
		writeStoreError(w, "assignment", err)
		return
	}
	if err := h.Store.DeleteAssignment(r.Context(), id); err != nil {
		writeStoreError(w, "assignment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ENGINE HANDLERS
// =============================================================================

// GetAllocation returns the day and cost breakdown for an assignment.
func (h *Handler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	a, err := h.Store.GetAssignment(r.Context(), id)
	if err != nil {
		writeStoreError(w, "assignment", err)
		return
	}
	emp, err := h.Store.GetEmployee(r.Context(), a.EmployeeID)
	if err != nil {
		writeStoreError(w, "employee", err)
		return
	}
	engine, err := h.engine(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load holidays", err)
		return
	}

	writeJSON(w, http.StatusOK, toAllocationDTO(id, engine.Allocate(&emp, a)))
}

// GetSchedule returns the placed calendar days for one work package share
// of an assignment.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	workPackageID := chi.URLParam(r, "workPackageID")

	a, err := h.Store.GetAssignment(r.Context(), id)
	if err != nil {
		writeStoreError(w, "assignment", err)
		return
	}
	emp, err := h.Store.GetEmployee(r.Context(), a.EmployeeID)
	if err != nil {
		writeStoreError(w, "employee", err)
		return
	}
	project, err := h.Store.GetProject(r.Context(), a.ProjectID)
	if err != nil {
		writeStoreError(w, "project", err)
		return
	}
	packages, err := h.Store.ListWorkPackages(r.Context(), a.ProjectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list work packages", err)
		return
	}
	engine, err := h.engine(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load holidays", err)
		return
	}

	tree := staffing.NewPackageTree(project, packages)
	sched := engine.Schedule(&emp, a, tree, workPackageID)
	writeJSON(w, http.StatusOK, toScheduleDTO(id, workPackageID, sched))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps store sentinels onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, record string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s not found", record), nil)
	case errors.Is(err, store.ErrDuplicateID):
		writeError(w, http.StatusConflict, fmt.Sprintf("%s id already exists", record), nil)
	case errors.Is(err, store.ErrForeignRecord):
		writeError(w, http.StatusUnprocessableEntity, "referenced record belongs to another project", nil)
	default:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to store %s", record), err)
	}
}

func parseOptionalDate(s string) (calendar.Date, error) {
	if s == "" {
		return calendar.Date{}, nil
	}
	return calendar.ParseDate(s)
}

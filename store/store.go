/*
Package store defines the persistence interface for planning records.

PURPOSE:
  The engine itself is pure — callers load records and pass them in. This
  package is where the records live between calls: employees with their
  absence intervals, the company/project/work-package hierarchy,
  assignments with their distributions, holidays, and API users.

IMPLEMENTATIONS:
  - Memory (memory.go): in-memory, for tests and demos
  - store/sqlite: production SQLite on database/sql

CASCADES:
  Deleting an employee removes its absences AND its assignments; deleting
  an assignment removes its distribution; deleting a work package removes
  the distribution shares that reference it; deleting a project removes
  its work packages, assignments and documents; deleting a company removes
  its projects. Both implementations must agree on these rules observably.
  Holidays are installation-wide and never cascade.

TRASH:
  Removed records can be parked as trash entries (a typed JSON snapshot)
  for later restore or purge. Trash entries are plain rows: they never
  cascade and are never restored implicitly. The API layer decides what
  goes into the trash; the store only keeps the entries.
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/novarix/planning-engine/staffing"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when creating a record whose ID exists.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrForeignRecord is returned when a reference crosses an ownership
	// boundary, e.g. a distribution share pointing at another project's
	// work package.
	ErrForeignRecord = errors.New("referenced record belongs to another owner")
)

// IsNotFound reports whether err means a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// =============================================================================
// USERS - API authentication records
// =============================================================================

// User is an API login. PasswordHash is a bcrypt hash, never the password.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
}

// =============================================================================
// TRASH - Snapshots of removed records
// =============================================================================

// Record types a trash entry can hold.
const (
	TrashEmployee    = "employee"
	TrashCompany     = "company"
	TrashProject     = "project"
	TrashWorkPackage = "work_package"
	TrashAssignment  = "assignment"
)

// TrashEntry is one removed record, kept as a JSON snapshot of the domain
// type named by RecordType. Deleting the same record again overwrites the
// older entry. Children removed by a cascade are NOT captured; restoring a
// container brings back the container only.
type TrashEntry struct {
	ID         string
	RecordType string
	RecordID   string
	Payload    []byte
	DeletedAt  time.Time
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store persists all planning records. Save operations are upserts keyed
// by ID; Get operations return ErrNotFound for missing records.
type Store interface {
	// Employees. GetEmployee returns the record with its absence
	// intervals loaded, in creation order.
	SaveEmployee(ctx context.Context, e staffing.Employee) error
	GetEmployee(ctx context.Context, id string) (staffing.Employee, error)
	ListEmployees(ctx context.Context) ([]staffing.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error

	// Absence intervals are immutable: add and delete only.
	AddAbsence(ctx context.Context, a staffing.AbsenceInterval) error
	DeleteAbsence(ctx context.Context, id string) error

	// Holidays (installation-wide).
	SaveHoliday(ctx context.Context, h staffing.Holiday) error
	ListHolidays(ctx context.Context) ([]staffing.Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error

	// Companies.
	SaveCompany(ctx context.Context, c staffing.Company) error
	GetCompany(ctx context.Context, id string) (staffing.Company, error)
	ListCompanies(ctx context.Context) ([]staffing.Company, error)
	DeleteCompany(ctx context.Context, id string) error

	// Projects.
	SaveProject(ctx context.Context, p staffing.Project) error
	GetProject(ctx context.Context, id string) (staffing.Project, error)
	ListProjects(ctx context.Context, companyID string) ([]staffing.Project, error)
	DeleteProject(ctx context.Context, id string) error

	// Work packages.
	SaveWorkPackage(ctx context.Context, wp staffing.WorkPackage) error
	GetWorkPackage(ctx context.Context, id string) (staffing.WorkPackage, error)
	ListWorkPackages(ctx context.Context, projectID string) ([]staffing.WorkPackage, error)
	DeleteWorkPackage(ctx context.Context, id string) error

	// Assignments. Save replaces the distribution wholesale; every share
	// must reference a work package of the assignment's project.
	SaveAssignment(ctx context.Context, a staffing.Assignment) error
	GetAssignment(ctx context.Context, id string) (staffing.Assignment, error)
	ListAssignments(ctx context.Context, projectID string) ([]staffing.Assignment, error)
	ListAssignmentsByEmployee(ctx context.Context, employeeID string) ([]staffing.Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error

	// Documents (project-owned). ListDocuments returns metadata only;
	// GetDocument loads the content.
	SaveDocument(ctx context.Context, d staffing.Document) error
	GetDocument(ctx context.Context, id string) (staffing.Document, error)
	ListDocuments(ctx context.Context, projectID string) ([]staffing.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// Trash. Save overwrites by ID; Delete purges for good.
	SaveTrashEntry(ctx context.Context, t TrashEntry) error
	GetTrashEntry(ctx context.Context, id string) (TrashEntry, error)
	ListTrash(ctx context.Context) ([]TrashEntry, error)
	DeleteTrashEntry(ctx context.Context, id string) error

	// Users.
	SaveUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

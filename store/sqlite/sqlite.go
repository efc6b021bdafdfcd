/*
Package sqlite provides the SQLite-backed implementation of store.Store.

PURPOSE:
  Persists the full planning dataset: employees with absence intervals,
  the company → project → work-package hierarchy, assignments with their
  work-package distributions, project documents, trash snapshots, the
  installation-wide holiday calendar, and API users. In production the
  same patterns apply to PostgreSQL — only minor SQL dialect differences.

SCHEMA NOTES:
  - Dates are stored as "2006-01-02" TEXT; optional dates as ''.
  - Foreign keys are ON; ownership cascades are declared in the schema
    (absences die with their employee, distributions with their
    assignment, work packages and assignments with their project).
  - Distribution shares are a child table replaced wholesale on
    assignment save, inside one database transaction.

WAL MODE:
  Opened with WAL for better read concurrency and crash recovery.

USAGE:
  st, err := sqlite.New("./data/planning.db")   // or ":memory:"
  if err != nil { ... }
  defer st.Close()

SEE ALSO:
  - store/store.go: interface definition and sentinel errors
  - store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/novarix/planning-engine/calendar"
	"github.com/novarix/planning-engine/staffing"
	"github.com/novarix/planning-engine/store"
)

// Store implements store.Store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL DEFAULT '',
		weekly_hours REAL NOT NULL DEFAULT 40,
		leave_entitlement INTEGER NOT NULL DEFAULT 30,
		observes_holidays BOOLEAN NOT NULL DEFAULT TRUE,
		annual_compensation REAL NOT NULL DEFAULT 0,
		annual_on_costs REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS absences (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		seq INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_absences_employee ON absences(employee_id);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date ON holidays(date);

	CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		company_type TEXT NOT NULL DEFAULT 'kmu'
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'aktiv',
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		budget REAL NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_projects_company ON projects(company_id);

	CREATE TABLE IF NOT EXISTS work_packages (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'offen',
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_work_packages_project ON work_packages(project_id);

	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		percent REAL NOT NULL,
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_project ON assignments(project_id);
	CREATE INDEX IF NOT EXISTS idx_assignments_employee ON assignments(employee_id);

	CREATE TABLE IF NOT EXISTS distribution_shares (
		assignment_id TEXT NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
		work_package_id TEXT NOT NULL REFERENCES work_packages(id) ON DELETE CASCADE,
		percent REAL NOT NULL,
		seq INTEGER NOT NULL,
		PRIMARY KEY (assignment_id, work_package_id)
	);

	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		content_type TEXT NOT NULL DEFAULT 'application/octet-stream',
		size INTEGER NOT NULL DEFAULT 0,
		uploaded_at TEXT NOT NULL,
		data BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_project ON documents(project_id);

	CREATE TABLE IF NOT EXISTS trash (
		id TEXT PRIMARY KEY,
		record_type TEXT NOT NULL,
		record_id TEXT NOT NULL,
		payload BLOB NOT NULL,
		deleted_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user'
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DATE HELPERS
// =============================================================================

func dateText(d calendar.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func dateFromText(s string) calendar.Date {
	if s == "" {
		return calendar.Date{}
	}
	d, err := calendar.ParseDate(s)
	if err != nil {
		return calendar.Date{}
	}
	return d
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee upserts an employee record. Absence intervals are managed
// separately via AddAbsence/DeleteAbsence.
func (s *Store) SaveEmployee(ctx context.Context, e staffing.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees
		(id, name, position, weekly_hours, leave_entitlement, observes_holidays,
		 annual_compensation, annual_on_costs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			position = excluded.position,
			weekly_hours = excluded.weekly_hours,
			leave_entitlement = excluded.leave_entitlement,
			observes_holidays = excluded.observes_holidays,
			annual_compensation = excluded.annual_compensation,
			annual_on_costs = excluded.annual_on_costs
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.Name, e.Position, e.WeeklyHours, e.LeaveEntitlement,
		e.ObservesHolidays, e.AnnualCompensation, e.AnnualOnCosts)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee returns the employee with absences loaded in creation order.
func (s *Store) GetEmployee(ctx context.Context, id string) (staffing.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, position, weekly_hours, leave_entitlement,
		       observes_holidays, annual_compensation, annual_on_costs
		FROM employees WHERE id = ?`, id)

	var e staffing.Employee
	err := row.Scan(&e.ID, &e.Name, &e.Position, &e.WeeklyHours,
		&e.LeaveEntitlement, &e.ObservesHolidays, &e.AnnualCompensation, &e.AnnualOnCosts)
	if err == sql.ErrNoRows {
		return staffing.Employee{}, store.ErrNotFound
	}
	if err != nil {
		return staffing.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	e.Absences, err = s.absencesOf(ctx, id)
	if err != nil {
		return staffing.Employee{}, err
	}
	return e, nil
}

// ListEmployees returns all employees with absences loaded, sorted by name.
func (s *Store) ListEmployees(ctx context.Context) ([]staffing.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, position, weekly_hours, leave_entitlement,
		       observes_holidays, annual_compensation, annual_on_costs
		FROM employees ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []staffing.Employee
	for rows.Next() {
		var e staffing.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Position, &e.WeeklyHours,
			&e.LeaveEntitlement, &e.ObservesHolidays, &e.AnnualCompensation, &e.AnnualOnCosts); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range employees {
		employees[i].Absences, err = s.absencesOf(ctx, employees[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return employees, nil
}

// DeleteEmployee removes the employee; absences and assignments cascade.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "employees", id)
}

func (s *Store) absencesOf(ctx context.Context, employeeID string) ([]staffing.AbsenceInterval, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, kind, from_date, to_date, note
		FROM absences WHERE employee_id = ? ORDER BY seq`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load absences: %w", err)
	}
	defer rows.Close()

	var absences []staffing.AbsenceInterval
	for rows.Next() {
		var a staffing.AbsenceInterval
		var kind, from, to string
		if err := rows.Scan(&a.ID, &a.EmployeeID, &kind, &from, &to, &a.Note); err != nil {
			return nil, err
		}
		a.Kind = staffing.AbsenceKind(kind)
		a.From = dateFromText(from)
		a.To = dateFromText(to)
		absences = append(absences, a)
	}
	return absences, rows.Err()
}

// =============================================================================
// ABSENCES
// =============================================================================

// AddAbsence inserts an absence interval. Intervals are immutable; there
// is no update.
func (s *Store) AddAbsence(ctx context.Context, a staffing.AbsenceInterval) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exists, err := s.exists(ctx, "employees", a.EmployeeID); err != nil {
		return err
	} else if !exists {
		return store.ErrNotFound
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO absences (id, employee_id, kind, from_date, to_date, note, seq)
		VALUES (?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM absences))`,
		a.ID, a.EmployeeID, string(a.Kind), dateText(a.From), dateText(a.To), a.Note)
	if err != nil {
		if isUniqueConstraintError(err) {
			return store.ErrDuplicateID
		}
		return fmt.Errorf("failed to add absence: %w", err)
	}
	return nil
}

// DeleteAbsence removes one absence interval.
func (s *Store) DeleteAbsence(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "absences", id)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday upserts a holiday.
func (s *Store) SaveHoliday(ctx context.Context, h staffing.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, name) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET date = excluded.date, name = excluded.name`,
		h.ID, dateText(h.Date), h.Name)
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// ListHolidays returns all holidays ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]staffing.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, date, name FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []staffing.Holiday
	for rows.Next() {
		var h staffing.Holiday
		var date string
		if err := rows.Scan(&h.ID, &date, &h.Name); err != nil {
			return nil, err
		}
		h.Date = dateFromText(date)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// DeleteHoliday removes one holiday.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "holidays", id)
}

// =============================================================================
// COMPANIES
// =============================================================================

func (s *Store) SaveCompany(ctx context.Context, c staffing.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, description, company_type)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			company_type = excluded.company_type`,
		c.ID, c.Name, c.Description, c.CompanyType)
	if err != nil {
		return fmt.Errorf("failed to save company: %w", err)
	}
	return nil
}

func (s *Store) GetCompany(ctx context.Context, id string) (staffing.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c staffing.Company
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, company_type FROM companies WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.CompanyType)
	if err == sql.ErrNoRows {
		return staffing.Company{}, store.ErrNotFound
	}
	if err != nil {
		return staffing.Company{}, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]staffing.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, company_type FROM companies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []staffing.Company
	for rows.Next() {
		var c staffing.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CompanyType); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "companies", id)
}

// =============================================================================
// PROJECTS
// =============================================================================

func (s *Store) SaveProject(ctx context.Context, p staffing.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, company_id, name, description, status, start_date, end_date, budget)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_id = excluded.company_id,
			name = excluded.name,
			description = excluded.description,
			status = excluded.status,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			budget = excluded.budget`,
		p.ID, p.CompanyID, p.Name, p.Description, p.Status,
		dateText(p.Start), dateText(p.End), p.Budget)
	if err != nil {
		if isForeignKeyError(err) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context, id string) (staffing.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p staffing.Project
	var start, end string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, name, description, status, start_date, end_date, budget
		FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.Status, &start, &end, &p.Budget)
	if err == sql.ErrNoRows {
		return staffing.Project{}, store.ErrNotFound
	}
	if err != nil {
		return staffing.Project{}, fmt.Errorf("failed to get project: %w", err)
	}
	p.Start = dateFromText(start)
	p.End = dateFromText(end)
	return p, nil
}

// ListProjects returns the projects of a company, or all projects when
// companyID is empty.
func (s *Store) ListProjects(ctx context.Context, companyID string) ([]staffing.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, company_id, name, description, status, start_date, end_date, budget
	          FROM projects`
	var args []any
	if companyID != "" {
		query += ` WHERE company_id = ?`
		args = append(args, companyID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []staffing.Project
	for rows.Next() {
		var p staffing.Project
		var start, end string
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.Status,
			&start, &end, &p.Budget); err != nil {
			return nil, err
		}
		p.Start = dateFromText(start)
		p.End = dateFromText(end)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "projects", id)
}

// =============================================================================
// WORK PACKAGES
// =============================================================================

func (s *Store) SaveWorkPackage(ctx context.Context, wp staffing.WorkPackage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if wp.ParentID != "" {
		parent, err := s.workPackageByID(ctx, wp.ParentID)
		if err != nil {
			if store.IsNotFound(err) {
				return store.ErrForeignRecord
			}
			return err
		}
		if parent.ProjectID != wp.ProjectID {
			return store.ErrForeignRecord
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO work_packages (id, project_id, parent_id, name, description, status, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			parent_id = excluded.parent_id,
			name = excluded.name,
			description = excluded.description,
			status = excluded.status,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		wp.ID, wp.ProjectID, wp.ParentID, wp.Name, wp.Description, wp.Status,
		dateText(wp.Start), dateText(wp.End))
	if err != nil {
		if isForeignKeyError(err) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to save work package: %w", err)
	}
	return nil
}

func (s *Store) GetWorkPackage(ctx context.Context, id string) (staffing.WorkPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workPackageByID(ctx, id)
}

func (s *Store) workPackageByID(ctx context.Context, id string) (staffing.WorkPackage, error) {
	var wp staffing.WorkPackage
	var start, end string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, parent_id, name, description, status, start_date, end_date
		FROM work_packages WHERE id = ?`, id).
		Scan(&wp.ID, &wp.ProjectID, &wp.ParentID, &wp.Name, &wp.Description,
			&wp.Status, &start, &end)
	if err == sql.ErrNoRows {
		return staffing.WorkPackage{}, store.ErrNotFound
	}
	if err != nil {
		return staffing.WorkPackage{}, fmt.Errorf("failed to get work package: %w", err)
	}
	wp.Start = dateFromText(start)
	wp.End = dateFromText(end)
	return wp, nil
}

func (s *Store) ListWorkPackages(ctx context.Context, projectID string) ([]staffing.WorkPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, parent_id, name, description, status, start_date, end_date
		FROM work_packages WHERE project_id = ? ORDER BY name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work packages: %w", err)
	}
	defer rows.Close()

	var packages []staffing.WorkPackage
	for rows.Next() {
		var wp staffing.WorkPackage
		var start, end string
		if err := rows.Scan(&wp.ID, &wp.ProjectID, &wp.ParentID, &wp.Name,
			&wp.Description, &wp.Status, &start, &end); err != nil {
			return nil, err
		}
		wp.Start = dateFromText(start)
		wp.End = dateFromText(end)
		packages = append(packages, wp)
	}
	return packages, rows.Err()
}

func (s *Store) DeleteWorkPackage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "work_packages", id)
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// SaveAssignment upserts the assignment and replaces its distribution
// wholesale, atomically. Every share must reference a work package of the
// assignment's project.
func (s *Store) SaveAssignment(ctx context.Context, a staffing.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, share := range a.Distribution {
		wp, err := s.workPackageByID(ctx, share.WorkPackageID)
		if err != nil {
			if store.IsNotFound(err) {
				return store.ErrForeignRecord
			}
			return err
		}
		if wp.ProjectID != a.ProjectID {
			return store.ErrForeignRecord
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO assignments (id, employee_id, project_id, percent, from_date, to_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_id = excluded.employee_id,
			project_id = excluded.project_id,
			percent = excluded.percent,
			from_date = excluded.from_date,
			to_date = excluded.to_date`,
		a.ID, a.EmployeeID, a.ProjectID, a.Percent, dateText(a.From), dateText(a.To))
	if err != nil {
		if isForeignKeyError(err) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to save assignment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM distribution_shares WHERE assignment_id = ?`, a.ID); err != nil {
		return fmt.Errorf("failed to clear distribution: %w", err)
	}
	for i, share := range a.Distribution {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO distribution_shares (assignment_id, work_package_id, percent, seq)
			VALUES (?, ?, ?, ?)`,
			a.ID, share.WorkPackageID, share.Percent, i); err != nil {
			return fmt.Errorf("failed to save distribution share: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetAssignment(ctx context.Context, id string) (staffing.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignments, err := s.queryAssignments(ctx,
		`SELECT id, employee_id, project_id, percent, from_date, to_date
		 FROM assignments WHERE id = ?`, id)
	if err != nil {
		return staffing.Assignment{}, err
	}
	if len(assignments) == 0 {
		return staffing.Assignment{}, store.ErrNotFound
	}
	return assignments[0], nil
}

func (s *Store) ListAssignments(ctx context.Context, projectID string) ([]staffing.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryAssignments(ctx,
		`SELECT id, employee_id, project_id, percent, from_date, to_date
		 FROM assignments WHERE project_id = ? ORDER BY id`, projectID)
}

func (s *Store) ListAssignmentsByEmployee(ctx context.Context, employeeID string) ([]staffing.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryAssignments(ctx,
		`SELECT id, employee_id, project_id, percent, from_date, to_date
		 FROM assignments WHERE employee_id = ? ORDER BY id`, employeeID)
}

func (s *Store) queryAssignments(ctx context.Context, query string, args ...any) ([]staffing.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []staffing.Assignment
	for rows.Next() {
		var a staffing.Assignment
		var from, to string
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.ProjectID, &a.Percent, &from, &to); err != nil {
			return nil, err
		}
		a.From = dateFromText(from)
		a.To = dateFromText(to)
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range assignments {
		assignments[i].Distribution, err = s.sharesOf(ctx, assignments[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return assignments, nil
}

func (s *Store) sharesOf(ctx context.Context, assignmentID string) ([]staffing.DistributionShare, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT work_package_id, percent FROM distribution_shares
		WHERE assignment_id = ? ORDER BY seq`, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load distribution: %w", err)
	}
	defer rows.Close()

	var shares []staffing.DistributionShare
	for rows.Next() {
		var share staffing.DistributionShare
		if err := rows.Scan(&share.WorkPackageID, &share.Percent); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

func (s *Store) DeleteAssignment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "assignments", id)
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// SaveDocument upserts a document including its content.
func (s *Store) SaveDocument(ctx context.Context, d staffing.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, project_id, name, content_type, size, uploaded_at, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			name = excluded.name,
			content_type = excluded.content_type,
			size = excluded.size,
			uploaded_at = excluded.uploaded_at,
			data = excluded.data`,
		d.ID, d.ProjectID, d.Name, d.ContentType, d.Size,
		d.UploadedAt.UTC().Format(time.RFC3339), d.Data)
	if err != nil {
		if isForeignKeyError(err) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// GetDocument returns one document with its content loaded.
func (s *Store) GetDocument(ctx context.Context, id string) (staffing.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var d staffing.Document
	var uploaded string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, name, content_type, size, uploaded_at, data
		FROM documents WHERE id = ?`, id).
		Scan(&d.ID, &d.ProjectID, &d.Name, &d.ContentType, &d.Size, &uploaded, &d.Data)
	if err == sql.ErrNoRows {
		return staffing.Document{}, store.ErrNotFound
	}
	if err != nil {
		return staffing.Document{}, fmt.Errorf("failed to get document: %w", err)
	}
	d.UploadedAt, _ = time.Parse(time.RFC3339, uploaded)
	return d, nil
}

// ListDocuments returns the metadata of a project's documents, content
// excluded, sorted by name.
func (s *Store) ListDocuments(ctx context.Context, projectID string) ([]staffing.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, name, content_type, size, uploaded_at
		FROM documents WHERE project_id = ? ORDER BY name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var documents []staffing.Document
	for rows.Next() {
		var d staffing.Document
		var uploaded string
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Name, &d.ContentType, &d.Size, &uploaded); err != nil {
			return nil, err
		}
		d.UploadedAt, _ = time.Parse(time.RFC3339, uploaded)
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

// DeleteDocument removes one document.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "documents", id)
}

// =============================================================================
// TRASH
// =============================================================================

// SaveTrashEntry upserts a trash snapshot.
func (s *Store) SaveTrashEntry(ctx context.Context, t store.TrashEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trash (id, record_type, record_id, payload, deleted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			record_type = excluded.record_type,
			record_id = excluded.record_id,
			payload = excluded.payload,
			deleted_at = excluded.deleted_at`,
		t.ID, t.RecordType, t.RecordID, t.Payload,
		t.DeletedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save trash entry: %w", err)
	}
	return nil
}

// GetTrashEntry returns one trash snapshot.
func (s *Store) GetTrashEntry(ctx context.Context, id string) (store.TrashEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t store.TrashEntry
	var deleted string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, record_type, record_id, payload, deleted_at
		FROM trash WHERE id = ?`, id).
		Scan(&t.ID, &t.RecordType, &t.RecordID, &t.Payload, &deleted)
	if err == sql.ErrNoRows {
		return store.TrashEntry{}, store.ErrNotFound
	}
	if err != nil {
		return store.TrashEntry{}, fmt.Errorf("failed to get trash entry: %w", err)
	}
	t.DeletedAt, _ = time.Parse(time.RFC3339, deleted)
	return t, nil
}

// ListTrash returns all trash entries, newest first.
func (s *Store) ListTrash(ctx context.Context) ([]store.TrashEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_type, record_id, payload, deleted_at
		FROM trash ORDER BY deleted_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trash: %w", err)
	}
	defer rows.Close()

	var entries []store.TrashEntry
	for rows.Next() {
		var t store.TrashEntry
		var deleted string
		if err := rows.Scan(&t.ID, &t.RecordType, &t.RecordID, &t.Payload, &deleted); err != nil {
			return nil, err
		}
		t.DeletedAt, _ = time.Parse(time.RFC3339, deleted)
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

// DeleteTrashEntry purges one snapshot for good.
func (s *Store) DeleteTrashEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteByID(ctx, "trash", id)
}

// =============================================================================
// USERS
// =============================================================================

func (s *Store) SaveUser(ctx context.Context, u store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			password_hash = excluded.password_hash,
			role = excluded.role`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u store.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, role FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role)
	if err == sql.ErrNoRows {
		return store.User{}, store.ErrNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) deleteByID(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) exists(ctx context.Context, table, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", table), id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

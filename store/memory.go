package store

import (
	"context"
	"sort"
	"sync"

	"github.com/novarix/planning-engine/staffing"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an in-memory Store. All methods are safe for concurrent use.
type Memory struct {
	mu sync.RWMutex

	employees    map[string]staffing.Employee
	absences     map[string]staffing.AbsenceInterval
	absenceSeq   int // creation order for stable absence listings
	absenceOrder map[string]int

	holidays     map[string]staffing.Holiday
	companies    map[string]staffing.Company
	projects     map[string]staffing.Project
	workPackages map[string]staffing.WorkPackage
	assignments  map[string]staffing.Assignment
	documents    map[string]staffing.Document
	trash        map[string]TrashEntry
	users        map[string]User // keyed by email
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		employees:    make(map[string]staffing.Employee),
		absences:     make(map[string]staffing.AbsenceInterval),
		absenceOrder: make(map[string]int),
		holidays:     make(map[string]staffing.Holiday),
		companies:    make(map[string]staffing.Company),
		projects:     make(map[string]staffing.Project),
		workPackages: make(map[string]staffing.WorkPackage),
		assignments:  make(map[string]staffing.Assignment),
		documents:    make(map[string]staffing.Document),
		trash:        make(map[string]TrashEntry),
		users:        make(map[string]User),
	}
}

var _ Store = (*Memory)(nil)

// -----------------------------------------------------------------------------
// Employees
// -----------------------------------------------------------------------------

func (m *Memory) SaveEmployee(_ context.Context, e staffing.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.Absences = nil // absences live in their own table
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (staffing.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return staffing.Employee{}, ErrNotFound
	}
	e.Absences = m.absencesOfLocked(id)
	return e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]staffing.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]staffing.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		e.Absences = m.absencesOfLocked(e.ID)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) DeleteEmployee(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[id]; !ok {
		return ErrNotFound
	}
	delete(m.employees, id)
	for aid, a := range m.absences {
		if a.EmployeeID == id {
			delete(m.absences, aid)
			delete(m.absenceOrder, aid)
		}
	}
	// Assignments die with their employee, matching the sqlite cascade.
	for aid, a := range m.assignments {
		if a.EmployeeID == id {
			delete(m.assignments, aid)
		}
	}
	return nil
}

func (m *Memory) absencesOfLocked(employeeID string) []staffing.AbsenceInterval {
	var out []staffing.AbsenceInterval
	for _, a := range m.absences {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return m.absenceOrder[out[i].ID] < m.absenceOrder[out[j].ID]
	})
	return out
}

// -----------------------------------------------------------------------------
// Absences
// -----------------------------------------------------------------------------

func (m *Memory) AddAbsence(_ context.Context, a staffing.AbsenceInterval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[a.EmployeeID]; !ok {
		return ErrNotFound
	}
	if _, ok := m.absences[a.ID]; ok {
		return ErrDuplicateID
	}
	m.absences[a.ID] = a
	m.absenceSeq++
	m.absenceOrder[a.ID] = m.absenceSeq
	return nil
}

func (m *Memory) DeleteAbsence(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.absences[id]; !ok {
		return ErrNotFound
	}
	delete(m.absences, id)
	delete(m.absenceOrder, id)
	return nil
}

// -----------------------------------------------------------------------------
// Holidays
// -----------------------------------------------------------------------------

func (m *Memory) SaveHoliday(_ context.Context, h staffing.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) ListHolidays(_ context.Context) ([]staffing.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]staffing.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[id]; !ok {
		return ErrNotFound
	}
	delete(m.holidays, id)
	return nil
}

// -----------------------------------------------------------------------------
// Companies
// -----------------------------------------------------------------------------

func (m *Memory) SaveCompany(_ context.Context, c staffing.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[c.ID] = c
	return nil
}

func (m *Memory) GetCompany(_ context.Context, id string) (staffing.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.companies[id]
	if !ok {
		return staffing.Company{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) ListCompanies(_ context.Context) ([]staffing.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]staffing.Company, 0, len(m.companies))
	for _, c := range m.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) DeleteCompany(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[id]; !ok {
		return ErrNotFound
	}
	delete(m.companies, id)
	for pid, p := range m.projects {
		if p.CompanyID == id {
			m.deleteProjectLocked(pid)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Projects
// -----------------------------------------------------------------------------

func (m *Memory) SaveProject(_ context.Context, p staffing.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[p.CompanyID]; !ok {
		return ErrNotFound
	}
	m.projects[p.ID] = p
	return nil
}

func (m *Memory) GetProject(_ context.Context, id string) (staffing.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return staffing.Project{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) ListProjects(_ context.Context, companyID string) ([]staffing.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []staffing.Project
	for _, p := range m.projects {
		if companyID == "" || p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) DeleteProject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return ErrNotFound
	}
	m.deleteProjectLocked(id)
	return nil
}

func (m *Memory) deleteProjectLocked(id string) {
	delete(m.projects, id)
	for wid, wp := range m.workPackages {
		if wp.ProjectID == id {
			delete(m.workPackages, wid)
		}
	}
	for aid, a := range m.assignments {
		if a.ProjectID == id {
			delete(m.assignments, aid)
		}
	}
	for did, d := range m.documents {
		if d.ProjectID == id {
			delete(m.documents, did)
		}
	}
}

// -----------------------------------------------------------------------------
// Work packages
// -----------------------------------------------------------------------------

func (m *Memory) SaveWorkPackage(_ context.Context, wp staffing.WorkPackage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[wp.ProjectID]; !ok {
		return ErrNotFound
	}
	if wp.ParentID != "" {
		parent, ok := m.workPackages[wp.ParentID]
		if !ok || parent.ProjectID != wp.ProjectID {
			return ErrForeignRecord
		}
	}
	m.workPackages[wp.ID] = wp
	return nil
}

func (m *Memory) GetWorkPackage(_ context.Context, id string) (staffing.WorkPackage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wp, ok := m.workPackages[id]
	if !ok {
		return staffing.WorkPackage{}, ErrNotFound
	}
	return wp, nil
}

func (m *Memory) ListWorkPackages(_ context.Context, projectID string) ([]staffing.WorkPackage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []staffing.WorkPackage
	for _, wp := range m.workPackages {
		if wp.ProjectID == projectID {
			out = append(out, wp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) DeleteWorkPackage(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workPackages[id]; !ok {
		return ErrNotFound
	}
	delete(m.workPackages, id)
	// Distribution shares referencing the package die with it, matching
	// the sqlite cascade.
	for aid, a := range m.assignments {
		kept := a.Distribution[:0:0]
		for _, s := range a.Distribution {
			if s.WorkPackageID != id {
				kept = append(kept, s)
			}
		}
		if len(kept) != len(a.Distribution) {
			a.Distribution = kept
			m.assignments[aid] = a
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Assignments
// -----------------------------------------------------------------------------

func (m *Memory) SaveAssignment(_ context.Context, a staffing.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[a.EmployeeID]; !ok {
		return ErrNotFound
	}
	if _, ok := m.projects[a.ProjectID]; !ok {
		return ErrNotFound
	}
	for _, s := range a.Distribution {
		wp, ok := m.workPackages[s.WorkPackageID]
		if !ok || wp.ProjectID != a.ProjectID {
			return ErrForeignRecord
		}
	}
	m.assignments[a.ID] = a
	return nil
}

func (m *Memory) GetAssignment(_ context.Context, id string) (staffing.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[id]
	if !ok {
		return staffing.Assignment{}, ErrNotFound
	}
	return a, nil
}

func (m *Memory) ListAssignments(_ context.Context, projectID string) ([]staffing.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []staffing.Assignment
	for _, a := range m.assignments {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListAssignmentsByEmployee(_ context.Context, employeeID string) ([]staffing.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []staffing.Assignment
	for _, a := range m.assignments {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) DeleteAssignment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assignments[id]; !ok {
		return ErrNotFound
	}
	delete(m.assignments, id)
	return nil
}

// -----------------------------------------------------------------------------
// Documents
// -----------------------------------------------------------------------------

func (m *Memory) SaveDocument(_ context.Context, d staffing.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[d.ProjectID]; !ok {
		return ErrNotFound
	}
	m.documents[d.ID] = d
	return nil
}

func (m *Memory) GetDocument(_ context.Context, id string) (staffing.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.documents[id]
	if !ok {
		return staffing.Document{}, ErrNotFound
	}
	return d, nil
}

func (m *Memory) ListDocuments(_ context.Context, projectID string) ([]staffing.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []staffing.Document
	for _, d := range m.documents {
		if d.ProjectID == projectID {
			d.Data = nil // metadata only
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return ErrNotFound
	}
	delete(m.documents, id)
	return nil
}

// -----------------------------------------------------------------------------
// Trash
// -----------------------------------------------------------------------------

func (m *Memory) SaveTrashEntry(_ context.Context, t TrashEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trash[t.ID] = t
	return nil
}

func (m *Memory) GetTrashEntry(_ context.Context, id string) (TrashEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trash[id]
	if !ok {
		return TrashEntry{}, ErrNotFound
	}
	return t, nil
}

func (m *Memory) ListTrash(_ context.Context) ([]TrashEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TrashEntry, 0, len(m.trash))
	for _, t := range m.trash {
		out = append(out, t)
	}
	// Newest first, ID as tiebreaker for a stable listing.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DeletedAt.Equal(out[j].DeletedAt) {
			return out[i].DeletedAt.After(out[j].DeletedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) DeleteTrashEntry(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trash[id]; !ok {
		return ErrNotFound
	}
	delete(m.trash, id)
	return nil
}

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

func (m *Memory) SaveUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Email] = u
	return nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

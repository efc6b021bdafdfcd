package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novarix/planning-engine/calendar"
	"github.com/novarix/planning-engine/staffing"
	"github.com/novarix/planning-engine/store"
	"github.com/novarix/planning-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func date(s string) calendar.Date { return calendar.MustParseDate(s) }

func seedHierarchy(t *testing.T, st *sqlite.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.SaveCompany(ctx, staffing.Company{ID: "up-1", Name: "TechNova", CompanyType: "kmu"}))
	require.NoError(t, st.SaveProject(ctx, staffing.Project{
		ID: "p-1", CompanyID: "up-1", Name: "CloudPilot", Status: "aktiv",
		Start: date("2024-01-01"), End: date("2024-06-30"), Budget: 250000,
	}))
	require.NoError(t, st.SaveWorkPackage(ctx, staffing.WorkPackage{
		ID: "wp-1", ProjectID: "p-1", Name: "Backend",
		Start: date("2024-01-01"), End: date("2024-03-31"),
	}))
}

// =============================================================================
// EMPLOYEES + ABSENCES
// =============================================================================

func TestEmployeeRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	emp := staffing.Employee{
		ID: "ma-1", Name: "Lena Hoffmann", Position: "Senior Entwicklerin",
		WeeklyHours: 40, LeaveEntitlement: 30, ObservesHolidays: true,
		AnnualCompensation: 60000, AnnualOnCosts: 12000,
	}
	require.NoError(t, st.SaveEmployee(ctx, emp))

	got, err := st.GetEmployee(ctx, "ma-1")
	require.NoError(t, err)
	assert.Equal(t, "Lena Hoffmann", got.Name)
	assert.Equal(t, 30, got.LeaveEntitlement)
	assert.True(t, got.ObservesHolidays)
	assert.Empty(t, got.Absences)

	// Upsert keeps the same row.
	emp.Position = "Tech Lead"
	require.NoError(t, st.SaveEmployee(ctx, emp))
	got, err = st.GetEmployee(ctx, "ma-1")
	require.NoError(t, err)
	assert.Equal(t, "Tech Lead", got.Position)

	list, err := st.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetEmployee_NotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetEmployee(context.Background(), "ma-missing")
	assert.True(t, store.IsNotFound(err))
}

func TestAbsences_CreationOrderAndCascade(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.SaveEmployee(ctx, staffing.Employee{ID: "ma-1", Name: "Lena Hoffmann"}))

	require.NoError(t, st.AddAbsence(ctx, staffing.AbsenceInterval{
		ID: "ab-2", EmployeeID: "ma-1", Kind: staffing.AbsenceSick,
		From: date("2024-03-04"), To: date("2024-03-05"),
	}))
	require.NoError(t, st.AddAbsence(ctx, staffing.AbsenceInterval{
		ID: "ab-1", EmployeeID: "ma-1", Kind: staffing.AbsenceVacation,
		From: date("2024-02-12"), To: date("2024-02-16"),
	}))

	got, err := st.GetEmployee(ctx, "ma-1")
	require.NoError(t, err)
	require.Len(t, got.Absences, 2)
	// Creation order, not date order.
	assert.Equal(t, "ab-2", got.Absences[0].ID)
	assert.Equal(t, staffing.AbsenceVacation, got.Absences[1].Kind)

	require.NoError(t, st.DeleteAbsence(ctx, "ab-2"))
	got, err = st.GetEmployee(ctx, "ma-1")
	require.NoError(t, err)
	assert.Len(t, got.Absences, 1)

	// Absences die with their employee.
	require.NoError(t, st.DeleteEmployee(ctx, "ma-1"))
	assert.True(t, store.IsNotFound(st.DeleteAbsence(ctx, "ab-1")))
}

func TestAddAbsence_MissingEmployee(t *testing.T) {
	st := newTestStore(t)

	err := st.AddAbsence(context.Background(), staffing.AbsenceInterval{
		ID: "ab-1", EmployeeID: "ma-missing", Kind: staffing.AbsenceSick,
		From: date("2024-01-02"), To: date("2024-01-02"),
	})
	assert.True(t, store.IsNotFound(err))
}

// =============================================================================
// HIERARCHY + CASCADES
// =============================================================================

func TestHierarchyCascade(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedHierarchy(t, st)
	require.NoError(t, st.SaveEmployee(ctx, staffing.Employee{ID: "ma-1", Name: "Lena Hoffmann"}))
	require.NoError(t, st.SaveAssignment(ctx, staffing.Assignment{
		ID: "zw-1", EmployeeID: "ma-1", ProjectID: "p-1", Percent: 50,
		From: date("2024-01-01"), To: date("2024-03-31"),
		Distribution: []staffing.DistributionShare{
			{WorkPackageID: "wp-1", Percent: 100},
		},
	}))

	// Deleting the company takes projects, work packages and assignments
	// with it.
	require.NoError(t, st.DeleteCompany(ctx, "up-1"))

	_, err := st.GetProject(ctx, "p-1")
	assert.True(t, store.IsNotFound(err))
	_, err = st.GetWorkPackage(ctx, "wp-1")
	assert.True(t, store.IsNotFound(err))
	_, err = st.GetAssignment(ctx, "zw-1")
	assert.True(t, store.IsNotFound(err))

	// The employee survives.
	_, err = st.GetEmployee(ctx, "ma-1")
	assert.NoError(t, err)
}

func TestListProjects_FilterByCompany(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedHierarchy(t, st)
	require.NoError(t, st.SaveCompany(ctx, staffing.Company{ID: "up-2", Name: "Altbau GmbH"}))
	require.NoError(t, st.SaveProject(ctx, staffing.Project{ID: "p-2", CompanyID: "up-2", Name: "Sanierung"}))

	all, err := st.ListProjects(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := st.ListProjects(ctx, "up-1")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "p-1", scoped[0].ID)
}

func TestProjectOptionalDatesRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.SaveCompany(ctx, staffing.Company{ID: "up-1", Name: "TechNova"}))
	require.NoError(t, st.SaveProject(ctx, staffing.Project{ID: "p-open", CompanyID: "up-1", Name: "Laufend"}))

	got, err := st.GetProject(ctx, "p-open")
	require.NoError(t, err)
	assert.True(t, got.Start.IsZero())
	assert.True(t, got.End.IsZero())
}

func TestSaveWorkPackage_ForeignParentRejected(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedHierarchy(t, st)
	require.NoError(t, st.SaveProject(ctx, staffing.Project{ID: "p-2", CompanyID: "up-1", Name: "Zweitprojekt"}))

	// Parent lives in another project.
	err := st.SaveWorkPackage(ctx, staffing.WorkPackage{
		ID: "wp-x", ProjectID: "p-2", ParentID: "wp-1", Name: "Fremdkind",
	})
	assert.ErrorIs(t, err, store.ErrForeignRecord)

	// Missing parent is also a foreign record.
	err = st.SaveWorkPackage(ctx, staffing.WorkPackage{
		ID: "wp-y", ProjectID: "p-1", ParentID: "wp-missing", Name: "Waise",
	})
	assert.ErrorIs(t, err, store.ErrForeignRecord)
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func TestSaveAssignment_ReplacesDistribution(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedHierarchy(t, st)
	require.NoError(t, st.SaveEmployee(ctx, staffing.Employee{ID: "ma-1", Name: "Lena Hoffmann"}))
	require.NoError(t, st.SaveWorkPackage(ctx, staffing.WorkPackage{ID: "wp-2", ProjectID: "p-1", Name: "Frontend"}))

	a := staffing.Assignment{
		ID: "zw-1", EmployeeID: "ma-1", ProjectID: "p-1", Percent: 60,
		From: date("2024-01-01"), To: date("2024-03-31"),
		Distribution: []staffing.DistributionShare{
			{WorkPackageID: "wp-1", Percent: 70},
			{WorkPackageID: "wp-2", Percent: 30},
		},
	}
	require.NoError(t, st.SaveAssignment(ctx, a))

	a.Distribution = []staffing.DistributionShare{{WorkPackageID: "wp-2", Percent: 100}}
	require.NoError(t, st.SaveAssignment(ctx, a))

	got, err := st.GetAssignment(ctx, "zw-1")
	require.NoError(t, err)
	require.Len(t, got.Distribution, 1)
	assert.Equal(t, "wp-2", got.Distribution[0].WorkPackageID)
}

func TestSaveAssignment_ForeignWorkPackageRejected(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedHierarchy(t, st)
	require.NoError(t, st.SaveEmployee(ctx, staffing.Employee{ID: "ma-1", Name: "Lena Hoffmann"}))
	require.NoError(t, st.SaveProject(ctx, staffing.Project{ID: "p-2", CompanyID: "up-1", Name: "Zweitprojekt"}))

	err := st.SaveAssignment(ctx, staffing.Assignment{
		ID: "zw-1", EmployeeID: "ma-1", ProjectID: "p-2", Percent: 50,
		From: date("2024-01-01"), To: date("2024-03-31"),
		Distribution: []staffing.DistributionShare{
			{WorkPackageID: "wp-1", Percent: 100},
		},
	})
	assert.ErrorIs(t, err, store.ErrForeignRecord)

	// Nothing was written.
	_, err = st.GetAssignment(ctx, "zw-1")
	assert.True(t, store.IsNotFound(err))
}

func TestListAssignmentsByEmployee(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedHierarchy(t, st)
	require.NoError(t, st.SaveEmployee(ctx, staffing.Employee{ID: "ma-1", Name: "Lena Hoffmann"}))
	require.NoError(t, st.SaveEmployee(ctx, staffing.Employee{ID: "ma-2", Name: "Jonas Weber"}))
	require.NoError(t, st.SaveAssignment(ctx, staffing.Assignment{
		ID: "zw-1", EmployeeID: "ma-1", ProjectID: "p-1", Percent: 50,
		From: date("2024-01-01"), To: date("2024-03-31"),
	}))
	require.NoError(t, st.SaveAssignment(ctx, staffing.Assignment{
		ID: "zw-2", EmployeeID: "ma-2", ProjectID: "p-1", Percent: 80,
		From: date("2024-01-01"), To: date("2024-06-30"),
	}))

	byProject, err := st.ListAssignments(ctx, "p-1")
	require.NoError(t, err)
	assert.Len(t, byProject, 2)

	byEmployee, err := st.ListAssignmentsByEmployee(ctx, "ma-2")
	require.NoError(t, err)
	require.Len(t, byEmployee, 1)
	assert.Equal(t, "zw-2", byEmployee[0].ID)
}

func TestDeleteEmployee_CascadesAssignments(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedHierarchy(t, st)
	require.NoError(t, st.SaveEmployee(ctx, staffing.Employee{ID: "ma-1", Name: "Lena Hoffmann"}))
	require.NoError(t, st.SaveAssignment(ctx, staffing.Assignment{
		ID: "zw-1", EmployeeID: "ma-1", ProjectID: "p-1", Percent: 50,
		From: date("2024-01-01"), To: date("2024-03-31"),
	}))

	require.NoError(t, st.DeleteEmployee(ctx, "ma-1"))

	gone, err := st.ListAssignmentsByEmployee(ctx, "ma-1")
	require.NoError(t, err)
	assert.Empty(t, gone)
	_, err = st.GetAssignment(ctx, "zw-1")
	assert.True(t, store.IsNotFound(err))
}

func TestDeleteWorkPackage_StripsShares(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedHierarchy(t, st)
	require.NoError(t, st.SaveWorkPackage(ctx, staffing.WorkPackage{ID: "wp-2", ProjectID: "p-1", Name: "Frontend"}))
	require.NoError(t, st.SaveEmployee(ctx, staffing.Employee{ID: "ma-1", Name: "Lena Hoffmann"}))
	require.NoError(t, st.SaveAssignment(ctx, staffing.Assignment{
		ID: "zw-1", EmployeeID: "ma-1", ProjectID: "p-1", Percent: 60,
		From: date("2024-01-01"), To: date("2024-03-31"),
		Distribution: []staffing.DistributionShare{
			{WorkPackageID: "wp-1", Percent: 70},
			{WorkPackageID: "wp-2", Percent: 30},
		},
	}))

	// The assignment survives; only the share pointing at the deleted
	// package goes.
	require.NoError(t, st.DeleteWorkPackage(ctx, "wp-1"))

	got, err := st.GetAssignment(ctx, "zw-1")
	require.NoError(t, err)
	require.Len(t, got.Distribution, 1)
	assert.Equal(t, "wp-2", got.Distribution[0].WorkPackageID)
}

// =============================================================================
// HOLIDAYS + USERS
// =============================================================================

func TestHolidays(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveHoliday(ctx, staffing.Holiday{ID: "h-2", Date: date("2024-05-01"), Name: "Tag der Arbeit"}))
	require.NoError(t, st.SaveHoliday(ctx, staffing.Holiday{ID: "h-1", Date: date("2024-01-01"), Name: "Neujahr"}))

	list, err := st.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Neujahr", list[0].Name) // date order

	require.NoError(t, st.DeleteHoliday(ctx, "h-1"))
	assert.True(t, store.IsNotFound(st.DeleteHoliday(ctx, "h-1")))
}

func TestUsers(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveUser(ctx, store.User{
		ID: "u-1", Email: "admin@novarix.test", Name: "Admin",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv", Role: "admin",
	}))

	got, err := st.GetUserByEmail(ctx, "admin@novarix.test")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "admin", got.Role)

	_, err = st.GetUserByEmail(ctx, "nobody@novarix.test")
	assert.True(t, store.IsNotFound(err))
}

// =============================================================================
// DOCUMENTS + TRASH
// =============================================================================

func TestDocuments(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedHierarchy(t, st)

	doc := staffing.Document{
		ID: "doc-1", ProjectID: "p-1", Name: "angebot.pdf",
		ContentType: "application/pdf", Size: 11,
		UploadedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Data:       []byte("PDF content"),
	}
	require.NoError(t, st.SaveDocument(ctx, doc))

	// Listings carry metadata only.
	list, err := st.ListDocuments(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "angebot.pdf", list[0].Name)
	assert.Equal(t, int64(11), list[0].Size)
	assert.Nil(t, list[0].Data)

	got, err := st.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("PDF content"), got.Data)
	assert.Equal(t, doc.UploadedAt, got.UploadedAt)

	// Documents need an existing project.
	err = st.SaveDocument(ctx, staffing.Document{ID: "doc-x", ProjectID: "p-missing", Name: "waise.txt"})
	assert.True(t, store.IsNotFound(err))

	// Documents die with their project.
	require.NoError(t, st.DeleteProject(ctx, "p-1"))
	_, err = st.GetDocument(ctx, "doc-1")
	assert.True(t, store.IsNotFound(err))
}

func TestTrash(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveTrashEntry(ctx, store.TrashEntry{
		ID: "tr-employee-ma-1", RecordType: store.TrashEmployee, RecordID: "ma-1",
		Payload:   []byte(`{"ID":"ma-1"}`),
		DeletedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, st.SaveTrashEntry(ctx, store.TrashEntry{
		ID: "tr-project-p-1", RecordType: store.TrashProject, RecordID: "p-1",
		Payload:   []byte(`{"ID":"p-1"}`),
		DeletedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
	}))

	list, err := st.ListTrash(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "tr-project-p-1", list[0].ID) // newest first

	got, err := st.GetTrashEntry(ctx, "tr-employee-ma-1")
	require.NoError(t, err)
	assert.Equal(t, store.TrashEmployee, got.RecordType)
	assert.Equal(t, []byte(`{"ID":"ma-1"}`), got.Payload)

	require.NoError(t, st.DeleteTrashEntry(ctx, "tr-employee-ma-1"))
	assert.True(t, store.IsNotFound(st.DeleteTrashEntry(ctx, "tr-employee-ma-1")))
}

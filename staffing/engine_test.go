package staffing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novarix/planning-engine/availability"
	"github.com/novarix/planning-engine/calendar"
	"github.com/novarix/planning-engine/staffing"
)

// =============================================================================
// FIXTURES
// =============================================================================

func date(s string) calendar.Date { return calendar.MustParseDate(s) }

func testEngine() *staffing.Engine {
	return staffing.NewEngine(staffing.HolidaySet([]staffing.Holiday{
		{ID: "h-1", Date: date("2024-01-01"), Name: "Neujahr"},
	}))
}

func testEmployee() *staffing.Employee {
	return &staffing.Employee{
		ID:                 "ma-lena",
		Name:               "Lena Hoffmann",
		Position:           "Senior Entwicklerin",
		WeeklyHours:        40,
		LeaveEntitlement:   30,
		ObservesHolidays:   true,
		AnnualCompensation: 60000,
		AnnualOnCosts:      12000,
	}
}

func testProject() staffing.Project {
	return staffing.Project{
		ID:        "p-cloudpilot",
		CompanyID: "up-technova",
		Name:      "CloudPilot",
		Status:    "aktiv",
		Start:     date("2024-01-01"),
		End:       date("2024-06-30"),
	}
}

func testPackages() []staffing.WorkPackage {
	return []staffing.WorkPackage{
		{ID: "wp-backend", ProjectID: "p-cloudpilot", Name: "Backend",
			Start: date("2024-01-01"), End: date("2024-03-31")},
		{ID: "wp-api", ProjectID: "p-cloudpilot", ParentID: "wp-backend", Name: "REST API"},
		{ID: "wp-undated", ProjectID: "p-cloudpilot", Name: "Dokumentation"},
	}
}

// =============================================================================
// EFFECTIVE RANGE RESOLUTION
// =============================================================================

func TestPackageTree_EffectiveRange(t *testing.T) {
	tree := staffing.NewPackageTree(testProject(), testPackages())

	tests := []struct {
		name      string
		id        string
		wantStart string
		wantEnd   string
	}{
		{"own dates win", "wp-backend", "2024-01-01", "2024-03-31"},
		{"child inherits parent", "wp-api", "2024-01-01", "2024-03-31"},
		{"undated root falls back to project", "wp-undated", "2024-01-01", "2024-06-30"},
		{"unknown id falls back to project", "wp-missing", "2024-01-01", "2024-06-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tree.EffectiveRange(tt.id)
			assert.Equal(t, tt.wantStart, r.Start.String())
			assert.Equal(t, tt.wantEnd, r.End.String())
		})
	}
}

func TestPackageTree_EffectiveRange_PartialDatesInheritOnlyMissingEnd(t *testing.T) {
	project := testProject()
	tree := staffing.NewPackageTree(project, []staffing.WorkPackage{
		{ID: "wp-parent", ProjectID: project.ID, Start: date("2024-02-01"), End: date("2024-04-30")},
		{ID: "wp-child", ProjectID: project.ID, ParentID: "wp-parent", Start: date("2024-03-01")},
	})

	r := tree.EffectiveRange("wp-child")
	assert.Equal(t, "2024-03-01", r.Start.String())
	assert.Equal(t, "2024-04-30", r.End.String())
}

func TestPackageTree_ParentCycleDegrades(t *testing.T) {
	project := testProject()
	tree := staffing.NewPackageTree(project, []staffing.WorkPackage{
		{ID: "wp-a", ProjectID: project.ID, ParentID: "wp-b"},
		{ID: "wp-b", ProjectID: project.ID, ParentID: "wp-a"},
	})

	// Must terminate and fall back to the project range.
	r := tree.EffectiveRange("wp-a")
	assert.Equal(t, project.Start.String(), r.Start.String())
	assert.Equal(t, project.End.String(), r.End.String())
}

// =============================================================================
// ENGINE FACADE
// =============================================================================

func TestEngine_Availability(t *testing.T) {
	engine := testEngine()
	emp := testEmployee()
	emp.Absences = []staffing.AbsenceInterval{
		{Kind: staffing.AbsenceSick, From: date("2024-01-03"), To: date("2024-01-03")},
	}

	got := engine.Availability(emp, calendar.NewRange(date("2024-01-01"), date("2024-01-07")))

	assert.Equal(t, 5, got.BusinessDays)
	assert.Equal(t, 2, got.Blocked) // Neujahr + sick day
	assert.Equal(t, 3, got.Available)
}

func TestEngine_Availability_NilEmployeeIsZeroBlocked(t *testing.T) {
	engine := testEngine()
	got := engine.Availability(nil, calendar.NewRange(date("2024-01-08"), date("2024-01-12")))

	assert.Equal(t, 5, got.BusinessDays)
	assert.Equal(t, 0, got.Blocked)
}

func TestEngine_DayStatus_ReasonPriority(t *testing.T) {
	engine := testEngine()
	emp := testEmployee()
	emp.Absences = []staffing.AbsenceInterval{
		{Kind: staffing.AbsenceVacation, From: date("2023-12-27"), To: date("2024-01-02")},
	}

	assert.Equal(t, availability.BlockVacation, engine.DayStatus(emp, date("2024-01-01")))
	assert.Equal(t, availability.BlockNone, engine.DayStatus(emp, date("2024-01-03")))
}

func TestEngine_DailyRate(t *testing.T) {
	// 72000 / (260 − 30 − 1 observed holiday) = 72000/229.
	engine := testEngine()
	rate := engine.DailyRate(testEmployee())
	assert.Equal(t, "314.41", rate.Round(2).String())
}

func TestEngine_Allocate(t *testing.T) {
	engine := testEngine()
	a := staffing.Assignment{
		ID: "zw-1", EmployeeID: "ma-lena", ProjectID: "p-cloudpilot",
		Percent: 50,
		From:    date("2024-01-01"), To: date("2024-01-07"),
		Distribution: []staffing.DistributionShare{
			{WorkPackageID: "wp-backend", Percent: 80},
		},
	}

	got := engine.Allocate(testEmployee(), a)

	assert.Equal(t, 4, got.Available)
	assert.Equal(t, "2", got.TotalDays.String()) // round(4 × 0.5, 1)
	require.Len(t, got.PerWorkPackage, 1)
	assert.Equal(t, "1.6", got.PerWorkPackage[0].Days.String())
}

func TestEngine_Allocate_NilEmployeeIsZero(t *testing.T) {
	engine := testEngine()
	a := staffing.Assignment{Percent: 100, From: date("2024-01-01"), To: date("2024-01-31")}

	got := engine.Allocate(nil, a)

	assert.True(t, got.TotalDays.IsZero())
	assert.True(t, got.ProjectCost.IsZero())
}

func TestEngine_Schedule_Deterministic(t *testing.T) {
	engine := testEngine()
	emp := testEmployee()
	tree := staffing.NewPackageTree(testProject(), testPackages())
	a := staffing.Assignment{
		ID: "zw-1", EmployeeID: emp.ID, ProjectID: "p-cloudpilot",
		Percent: 40,
		From:    date("2024-01-01"), To: date("2024-02-29"),
		Distribution: []staffing.DistributionShare{
			{WorkPackageID: "wp-backend", Percent: 50},
		},
	}

	first := engine.Schedule(emp, a, tree, "wp-backend")
	second := engine.Schedule(emp, a, tree, "wp-backend")

	require.NotEmpty(t, first.WorkedDates)
	assert.Equal(t, first.Hours, second.Hours)

	// Every placed day is an open business day inside the overlap window.
	for _, d := range first.WorkedDates {
		assert.True(t, d.IsBusinessDay())
		assert.True(t, a.Window().Contains(d))
		assert.Equal(t, availability.BlockNone, engine.DayStatus(emp, d))
	}
}

func TestEngine_Schedule_NoShareIsEmpty(t *testing.T) {
	engine := testEngine()
	tree := staffing.NewPackageTree(testProject(), testPackages())
	a := staffing.Assignment{
		EmployeeID: "ma-lena", ProjectID: "p-cloudpilot", Percent: 100,
		From: date("2024-01-01"), To: date("2024-03-31"),
	}

	got := engine.Schedule(testEmployee(), a, tree, "wp-backend")
	assert.Empty(t, got.WorkedDates)
}

func TestEngine_Schedule_RespectsEffectiveRangeOverlap(t *testing.T) {
	// Engagement runs through June but wp-backend ends March 31; no placed
	// day may fall outside the overlap.
	engine := testEngine()
	emp := testEmployee()
	tree := staffing.NewPackageTree(testProject(), testPackages())
	a := staffing.Assignment{
		ID: "zw-2", EmployeeID: emp.ID, ProjectID: "p-cloudpilot",
		Percent: 20,
		From:    date("2024-02-01"), To: date("2024-06-30"),
		Distribution: []staffing.DistributionShare{
			{WorkPackageID: "wp-backend", Percent: 100},
		},
	}

	got := engine.Schedule(emp, a, tree, "wp-backend")

	require.NotEmpty(t, got.WorkedDates)
	for _, d := range got.WorkedDates {
		assert.True(t, d.AfterOrEqual(date("2024-02-01")), "placed %s before overlap", d)
		assert.True(t, d.BeforeOrEqual(date("2024-03-31")), "placed %s after wp end", d)
	}
}

// =============================================================================
// ASSIGNMENT HELPERS
// =============================================================================

func TestAssignment_DistributionSum(t *testing.T) {
	a := staffing.Assignment{Distribution: []staffing.DistributionShare{
		{WorkPackageID: "wp-a", Percent: 60},
		{WorkPackageID: "wp-b", Percent: 50},
	}}
	assert.InDelta(t, 110, a.DistributionSum(), 1e-9)

	share, ok := a.Share("wp-b")
	require.True(t, ok)
	assert.InDelta(t, 50, share.Percent, 1e-9)

	_, ok = a.Share("wp-missing")
	assert.False(t, ok)
}

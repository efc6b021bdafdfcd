/*
seed.go - Demo dataset loader

PURPOSE:
  Populates the store with a small but complete planning dataset so the
  frontend and the engine endpoints can be exercised without manual data
  entry: one company, two projects, a nested work-package tree, three
  employees with absences, and assignments with distributions.

IDEMPOTENCY:
  Every record has a fixed ID and all saves are upserts, so seeding twice
  leaves one copy of everything. Absences are add-only; the seed skips
  them when the employee already has any.

DEMO LOGIN:
  admin@novarix.test / demo1234 (role admin). The bcrypt hash is computed
  at seed time.
*/
package api

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/novarix/planning-engine/calendar"
	"github.com/novarix/planning-engine/staffing"
	"github.com/novarix/planning-engine/store"
)

// SeedDemo loads the demo dataset.
// POST /api/v1/demo/seed
func (h *Handler) SeedDemo(w http.ResponseWriter, r *http.Request) {
	if err := LoadDemoData(r.Context(), h.Store); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed demo data", err)
		return
	}
	h.Log.Info("demo dataset loaded")
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "seeded",
		"login":  "admin@novarix.test / demo1234",
	})
}

// LoadDemoData writes the demo dataset into st. Safe to call repeatedly.
func LoadDemoData(ctx context.Context, st store.Store) error {
	d := calendar.MustParseDate

	holidays := []staffing.Holiday{
		{ID: "h-neujahr", Date: d("2024-01-01"), Name: "Neujahr"},
		{ID: "h-karfreitag", Date: d("2024-03-29"), Name: "Karfreitag"},
		{ID: "h-ostermontag", Date: d("2024-04-01"), Name: "Ostermontag"},
		{ID: "h-tag-der-arbeit", Date: d("2024-05-01"), Name: "Tag der Arbeit"},
		{ID: "h-himmelfahrt", Date: d("2024-05-09"), Name: "Christi Himmelfahrt"},
		{ID: "h-pfingstmontag", Date: d("2024-05-20"), Name: "Pfingstmontag"},
		{ID: "h-einheit", Date: d("2024-10-03"), Name: "Tag der Deutschen Einheit"},
		{ID: "h-weihnachten-1", Date: d("2024-12-25"), Name: "1. Weihnachtstag"},
		{ID: "h-weihnachten-2", Date: d("2024-12-26"), Name: "2. Weihnachtstag"},
	}
	for _, hol := range holidays {
		if err := st.SaveHoliday(ctx, hol); err != nil {
			return err
		}
	}

	if err := st.SaveCompany(ctx, staffing.Company{
		ID: "up-technova", Name: "TechNova GmbH",
		Description: "Mittelständisches Softwarehaus", CompanyType: "kmu",
	}); err != nil {
		return err
	}

	projects := []staffing.Project{
		{
			ID: "p-cloudpilot", CompanyID: "up-technova", Name: "CloudPilot",
			Description: "Migration der Bestandssysteme in die Cloud",
			Status:      "aktiv",
			Start:       d("2024-01-01"), End: d("2024-06-30"), Budget: 250000,
		},
		{
			ID: "p-dataforge", CompanyID: "up-technova", Name: "DataForge",
			Description: "Aufbau der internen Datenplattform",
			Status:      "aktiv",
			Start:       d("2024-03-01"), End: d("2024-12-20"), Budget: 180000,
		},
	}
	for _, p := range projects {
		if err := st.SaveProject(ctx, p); err != nil {
			return err
		}
	}

	packages := []staffing.WorkPackage{
		{ID: "wp-backend", ProjectID: "p-cloudpilot", Name: "Backend",
			Status: "in_arbeit", Start: d("2024-01-01"), End: d("2024-03-31")},
		{ID: "wp-api", ProjectID: "p-cloudpilot", ParentID: "wp-backend",
			Name: "REST API", Status: "in_arbeit"},
		{ID: "wp-auth", ProjectID: "p-cloudpilot", ParentID: "wp-backend",
			Name: "Authentifizierung", Status: "offen"},
		{ID: "wp-frontend", ProjectID: "p-cloudpilot", Name: "Frontend",
			Status: "offen", Start: d("2024-02-01"), End: d("2024-05-31")},
		{ID: "wp-doku", ProjectID: "p-cloudpilot", Name: "Dokumentation", Status: "offen"},
		{ID: "wp-etl", ProjectID: "p-dataforge", Name: "ETL-Strecken",
			Status: "offen", Start: d("2024-03-01"), End: d("2024-08-30")},
		{ID: "wp-reporting", ProjectID: "p-dataforge", Name: "Reporting", Status: "offen"},
	}
	for _, wp := range packages {
		if err := st.SaveWorkPackage(ctx, wp); err != nil {
			return err
		}
	}

	employees := []staffing.Employee{
		{
			ID: "ma-lena", Name: "Lena Hoffmann", Position: "Senior Entwicklerin",
			WeeklyHours: 40, LeaveEntitlement: 30, ObservesHolidays: true,
			AnnualCompensation: 60000, AnnualOnCosts: 12000,
		},
		{
			ID: "ma-jonas", Name: "Jonas Weber", Position: "Entwickler",
			WeeklyHours: 40, LeaveEntitlement: 28, ObservesHolidays: true,
			AnnualCompensation: 48000, AnnualOnCosts: 9600,
		},
		{
			ID: "ma-miriam", Name: "Miriam Schulz", Position: "Projektleiterin",
			WeeklyHours: 30, LeaveEntitlement: 24, ObservesHolidays: true,
			AnnualCompensation: 45000, AnnualOnCosts: 9000,
		},
	}
	for _, e := range employees {
		if err := st.SaveEmployee(ctx, e); err != nil {
			return err
		}
	}

	absences := []staffing.AbsenceInterval{
		{ID: "ab-lena-ski", EmployeeID: "ma-lena", Kind: staffing.AbsenceVacation,
			From: d("2024-02-12"), To: d("2024-02-16"), Note: "Skiurlaub"},
		{ID: "ab-lena-grippe", EmployeeID: "ma-lena", Kind: staffing.AbsenceSick,
			From: d("2024-03-04"), To: d("2024-03-06")},
		{ID: "ab-jonas-sommer", EmployeeID: "ma-jonas", Kind: staffing.AbsenceVacation,
			From: d("2024-07-15"), To: d("2024-08-02"), Note: "Sommerurlaub"},
	}
	seeded := map[string]bool{}
	for _, a := range absences {
		if _, ok := seeded[a.EmployeeID]; !ok {
			emp, err := st.GetEmployee(ctx, a.EmployeeID)
			if err != nil {
				return err
			}
			seeded[a.EmployeeID] = len(emp.Absences) > 0
		}
		if seeded[a.EmployeeID] {
			continue // already seeded
		}
		if err := st.AddAbsence(ctx, a); err != nil {
			return err
		}
	}

	assignments := []staffing.Assignment{
		{
			ID: "zw-lena-cloudpilot", EmployeeID: "ma-lena", ProjectID: "p-cloudpilot",
			Percent: 60, From: d("2024-01-01"), To: d("2024-06-30"),
			Distribution: []staffing.DistributionShare{
				{WorkPackageID: "wp-backend", Percent: 50},
				{WorkPackageID: "wp-api", Percent: 30},
				{WorkPackageID: "wp-doku", Percent: 20},
			},
		},
		{
			ID: "zw-jonas-cloudpilot", EmployeeID: "ma-jonas", ProjectID: "p-cloudpilot",
			Percent: 80, From: d("2024-02-01"), To: d("2024-05-31"),
			Distribution: []staffing.DistributionShare{
				{WorkPackageID: "wp-frontend", Percent: 70},
				{WorkPackageID: "wp-auth", Percent: 30},
			},
		},
		{
			ID: "zw-miriam-dataforge", EmployeeID: "ma-miriam", ProjectID: "p-dataforge",
			Percent: 40, From: d("2024-03-01"), To: d("2024-12-20"),
			Distribution: []staffing.DistributionShare{
				{WorkPackageID: "wp-etl", Percent: 60},
				{WorkPackageID: "wp-reporting", Percent: 40},
			},
		},
	}
	for _, a := range assignments {
		if err := st.SaveAssignment(ctx, a); err != nil {
			return err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return st.SaveUser(ctx, store.User{
		ID: "u-admin", Email: "admin@novarix.test", Name: "Demo Admin",
		PasswordHash: string(hash), Role: "admin",
	})
}

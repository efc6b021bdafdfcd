/*
engine.go - The facade over availability, allocation and placement

PURPOSE:
  One entry point for every surface that renders planning data: the
  calendar views, the cost tables and the PDF exporter all call the same
  three operations, so a worked day can never differ between a screen and
  an export.

  Earlier iterations of the product duplicated the placement logic in the
  live calendar and the export pipeline; consolidating it here is the
  whole point of this package.

PURITY:
  The engine holds only the holiday calendar. It never mutates its inputs,
  performs no I/O, and is safe to call concurrently from independent
  rendering contexts.
*/
package staffing

import (
	"github.com/shopspring/decimal"

	"github.com/novarix/planning-engine/allocation"
	"github.com/novarix/planning-engine/availability"
	"github.com/novarix/planning-engine/calendar"
	"github.com/novarix/planning-engine/placement"
)

// Engine computes availability, allocation and day placement against one
// holiday calendar. Build it per request from the stored holiday list;
// construction is cheap.
type Engine struct {
	calc *allocation.Calculator
}

// NewEngine creates an engine for the given holiday calendar.
func NewEngine(holidays *calendar.HolidaySet) *Engine {
	return &Engine{calc: allocation.NewCalculator(holidays)}
}

// Availability returns the business/blocked/available day counts for an
// employee over a range. A nil employee degrades to the plain business-day
// counts of the range; an unknown employee never errors.
func (e *Engine) Availability(emp *Employee, span calendar.Range) availability.Availability {
	return e.calc.Resolver().Resolve(emp.Profile(), span)
}

// DayStatus reports why a single day is blocked for an employee, for
// calendar cell rendering.
func (e *Engine) DayStatus(emp *Employee, day calendar.Date) availability.BlockReason {
	return e.calc.Resolver().DayStatus(emp.Profile(), day)
}

// DailyRate derives the employee's cost per working day.
func (e *Engine) DailyRate(emp *Employee) decimal.Decimal {
	if emp == nil {
		return decimal.Zero
	}
	return e.calc.DailyRate(costProfile(emp))
}

// Allocate computes the fractional day and cost breakdown for one
// assignment. A nil employee degrades to an all-zero result.
func (e *Engine) Allocate(emp *Employee, a Assignment) allocation.Result {
	if emp == nil {
		return e.calc.Allocate(availability.Profile{}, allocation.CostProfile{}, 0, a.Window(), nil)
	}
	shares := make([]allocation.Share, 0, len(a.Distribution))
	for _, s := range a.Distribution {
		shares = append(shares, allocation.Share{WorkPackageID: s.WorkPackageID, Percent: s.Percent})
	}
	return e.calc.Allocate(emp.Profile(), costProfile(emp), a.Percent, a.Window(), shares)
}

// Schedule maps one work package's share of an assignment onto concrete
// calendar days. The quota comes from Allocate; the candidate days are the
// employee's open business days in the overlap of the engagement window
// and the package's effective range. The result is deterministic for a
// given (employee, work package) pair.
//
// A work package without a distribution entry, a nil employee, or an empty
// overlap all yield an empty schedule.
func (e *Engine) Schedule(emp *Employee, a Assignment, tree *PackageTree, workPackageID string) placement.Schedule {
	if emp == nil {
		return placement.PlaceDays("", workPackageID, nil, 0)
	}
	share, ok := a.Share(workPackageID)
	if !ok {
		return placement.PlaceDays(emp.ID, workPackageID, nil, 0)
	}

	overlap := a.Window().Intersect(tree.EffectiveRange(workPackageID))
	open := e.calc.Resolver().OpenDates(emp.Profile(), overlap)

	alloc := e.Allocate(emp, a)
	quota := alloc.TotalDays.
		Mul(decimal.NewFromFloat(share.Percent)).
		Div(decimal.NewFromInt(100)).
		InexactFloat64()

	return placement.PlaceDays(emp.ID, workPackageID, open, quota)
}

func costProfile(emp *Employee) allocation.CostProfile {
	if emp == nil {
		return allocation.CostProfile{}
	}
	return allocation.CostProfile{
		WeeklyHours:        emp.WeeklyHours,
		LeaveEntitlement:   emp.LeaveEntitlement,
		ObservesHolidays:   emp.ObservesHolidays,
		AnnualCompensation: emp.AnnualCompensation,
		AnnualOnCosts:      emp.AnnualOnCosts,
	}
}

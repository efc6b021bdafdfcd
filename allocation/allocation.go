/*
Package allocation converts percentage-of-time assignments into fractional
day and cost totals.

PURPOSE:
  An assignment says "employee X works N% of their time on project Y from A
  to B". This package turns that into concrete numbers: how many working
  days that is net of weekends/absences/holidays, how those days fan out
  across the assignment's work-package distribution, and what they cost.

ROUNDING POLICY:
  - Total days round to ONE decimal. The UI's finest display granularity
    is 1/8 day (one hour); more precision is noise.
  - Per-work-package days are NOT rounded here. Rounding happens at the
    placement boundary (whole days + a remainder hour count) and at the
    currency boundary (two decimals, half-up).
  - All arithmetic uses decimal.Decimal. 0.1 has no exact binary float
    representation; a cost table that sums to the wrong cent is a bug.

DAILY RATE:
  dailyRate = (annualCompensation + annualOnCosts) / effectiveWorkingDays
  effectiveWorkingDays = round(weeklyHours/8 × 52) − leaveEntitlement
                         − (observesHolidays ? holidayCount : 0)
  floored at 1 so a degenerate employee record can never divide by zero.

DEGRADATION:
  Inverted ranges, zero percent and empty distributions all produce zero
  results. This is a reporting engine; a blank cell beats a crash.

SEE ALSO:
  - availability/: supplies the available-day counts
  - placement/: maps the fractional totals onto concrete days
*/
package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/novarix/planning-engine/availability"
	"github.com/novarix/planning-engine/calendar"
)

// =============================================================================
// INPUT / OUTPUT TYPES
// =============================================================================

// CostProfile carries the rate-relevant figures of an employee record.
type CostProfile struct {
	WeeklyHours        float64
	LeaveEntitlement   int // annual leave days
	ObservesHolidays   bool
	AnnualCompensation float64
	AnnualOnCosts      float64 // employer-side on-costs
}

// Share is one entry of a work-package distribution. Percent is a fraction
// of the assignment's own percentage, not of the employee's full time.
type Share struct {
	WorkPackageID string
	Percent       float64
}

// ShareResult is the computed allocation for one work package.
type ShareResult struct {
	WorkPackageID string
	Percent       float64
	// Days is deliberately unrounded; see the package rounding policy.
	Days decimal.Decimal
	Cost decimal.Decimal // rounded to 2 decimals
}

// Result is the full allocation breakdown for one assignment window.
type Result struct {
	BusinessDays int
	Blocked      int
	Available    int

	TotalDays      decimal.Decimal // rounded to 1 decimal
	DailyRate      decimal.Decimal
	ProjectCost    decimal.Decimal // rounded to 2 decimals
	PerWorkPackage []ShareResult
}

// =============================================================================
// CALCULATOR
// =============================================================================

var (
	eight      = decimal.NewFromInt(8)
	fiftyTwo   = decimal.NewFromInt(52)
	oneHundred = decimal.NewFromInt(100)
)

// Calculator performs percentage-to-day/cost conversion against one holiday
// calendar. It is immutable and safe for concurrent use.
type Calculator struct {
	resolver *availability.Resolver
	holidays *calendar.HolidaySet
}

// NewCalculator creates a calculator. The holiday set feeds both the
// availability resolution and the working-days-per-year derivation.
func NewCalculator(holidays *calendar.HolidaySet) *Calculator {
	return &Calculator{
		resolver: availability.NewResolver(holidays),
		holidays: holidays,
	}
}

// Resolver exposes the calculator's availability resolver so callers reuse
// the same holiday calendar for placement.
func (c *Calculator) Resolver() *availability.Resolver { return c.resolver }

// EffectiveWorkingDays derives the working days per year for a cost
// profile: contracted weeks × days, minus leave, minus observed holidays.
// Never below 1.
func (c *Calculator) EffectiveWorkingDays(p CostProfile) int {
	weeklyDays := decimal.NewFromFloat(p.WeeklyHours).Div(eight)
	days := int(weeklyDays.Mul(fiftyTwo).Round(0).IntPart()) - p.LeaveEntitlement
	if p.ObservesHolidays {
		days -= c.holidays.Count()
	}
	if days < 1 {
		days = 1
	}
	return days
}

// DailyRate derives the employee's cost per working day. Zero when both
// compensation figures are zero.
func (c *Calculator) DailyRate(p CostProfile) decimal.Decimal {
	total := decimal.NewFromFloat(p.AnnualCompensation).Add(decimal.NewFromFloat(p.AnnualOnCosts))
	if total.IsZero() {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(c.EffectiveWorkingDays(p))))
}

// Allocate computes the day/cost breakdown for one assignment window.
//
// totalDays = round(available × percent/100, 1); each distribution share
// receives totalDays × share/100 unrounded. Distribution percentages are
// not clamped: validating that they sum to ≤100 is the caller's concern.
func (c *Calculator) Allocate(profile availability.Profile, cost CostProfile, percent float64, window calendar.Range, shares []Share) Result {
	avail := c.resolver.Resolve(profile, window)
	rate := c.DailyRate(cost)

	totalDays := decimal.NewFromInt(int64(avail.Available)).
		Mul(decimal.NewFromFloat(percent)).
		Div(oneHundred).
		Round(1)

	result := Result{
		BusinessDays: avail.BusinessDays,
		Blocked:      avail.Blocked,
		Available:    avail.Available,
		TotalDays:    totalDays,
		DailyRate:    rate,
		ProjectCost:  totalDays.Mul(rate).Round(2),
	}

	for _, s := range shares {
		days := totalDays.Mul(decimal.NewFromFloat(s.Percent)).Div(oneHundred)
		result.PerWorkPackage = append(result.PerWorkPackage, ShareResult{
			WorkPackageID: s.WorkPackageID,
			Percent:       s.Percent,
			Days:          days,
			Cost:          days.Mul(rate).Round(2),
		})
	}
	return result
}

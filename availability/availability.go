/*
Package availability resolves which days of a range an employee can actually
work.

PURPOSE:
  Converts an employee's personal absence intervals plus the installation's
  holiday calendar into blocked-day counts and per-day block reasons. This
  is the layer between raw weekday arithmetic (calendar package) and the
  percentage-to-days conversion (allocation package).

RESOLUTION RULES:
  - Only business days can be blocked. A vacation that spans a weekend does
    not double-count the Saturday/Sunday.
  - Holidays block a day only for employees whose ObservesHolidays flag is
    set, and only when the day is a business day.
  - When an absence and a holiday fall on the same day, the absence wins as
    the reported reason. The count is unaffected either way (one blocked
    day is one blocked day).

STATE:
  The holiday set is an explicit constructor parameter, never ambient
  state. The resolver itself is immutable and safe for concurrent use.

SEE ALSO:
  - allocation/: consumes Available counts from this package
  - placement/: consumes OpenDates from this package
*/
package availability

import (
	"github.com/novarix/planning-engine/calendar"
)

// =============================================================================
// BLOCK REASONS
// =============================================================================

// BlockReason classifies why a day is unavailable. BlockNone means the day
// is open for work.
type BlockReason string

const (
	BlockNone     BlockReason = ""
	BlockVacation BlockReason = "vacation"
	BlockSick     BlockReason = "sick"
	BlockHoliday  BlockReason = "holiday"
)

// Absence is one blocking interval of an employee. Start ≤ End is assumed;
// an inverted interval simply never matches any day.
type Absence struct {
	Kind BlockReason // BlockVacation or BlockSick
	Span calendar.Range
}

// Profile is the availability-relevant slice of an employee record. The
// absence list keeps the employee's own ordering; the first matching
// interval determines the reported reason.
type Profile struct {
	Absences         []Absence
	ObservesHolidays bool
}

// Availability summarizes a range for one employee.
type Availability struct {
	BusinessDays int
	Blocked      int
	Available    int
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver answers blocked/available questions against one holiday set.
type Resolver struct {
	holidays *calendar.HolidaySet
}

// NewResolver creates a resolver for the given holiday calendar. A nil set
// means no holidays.
func NewResolver(holidays *calendar.HolidaySet) *Resolver {
	return &Resolver{holidays: holidays}
}

// DayStatus returns the block reason for a single day. Weekends are not
// "blocked" — they are outside the business-day universe and report
// BlockNone here; callers iterate business days only.
func (r *Resolver) DayStatus(p Profile, d calendar.Date) BlockReason {
	if !d.IsBusinessDay() {
		return BlockNone
	}
	for _, a := range p.Absences {
		if a.Span.Contains(d) {
			return a.Kind
		}
	}
	if p.ObservesHolidays && r.holidays.Contains(d) {
		return BlockHoliday
	}
	return BlockNone
}

// BlockedDays counts business days in [start, end] blocked by an absence or
// an observed holiday. Each day counts once regardless of how many reasons
// apply. Inverted ranges count 0.
func (r *Resolver) BlockedDays(p Profile, span calendar.Range) int {
	count := 0
	for _, d := range span.BusinessDays() {
		if r.DayStatus(p, d) != BlockNone {
			count++
		}
	}
	return count
}

// Resolve computes the full availability summary for a range. Blocked days
// are a subset of business days by construction, so Available is never
// negative.
func (r *Resolver) Resolve(p Profile, span calendar.Range) Availability {
	business := span.BusinessDays()
	blocked := 0
	for _, d := range business {
		if r.DayStatus(p, d) != BlockNone {
			blocked++
		}
	}
	return Availability{
		BusinessDays: len(business),
		Blocked:      blocked,
		Available:    len(business) - blocked,
	}
}

// OpenDates returns the unblocked business days of a range, in order. This
// is the date list the placement scheduler works from.
func (r *Resolver) OpenDates(p Profile, span calendar.Range) []calendar.Date {
	var open []calendar.Date
	for _, d := range span.BusinessDays() {
		if r.DayStatus(p, d) == BlockNone {
			open = append(open, d)
		}
	}
	return open
}

package availability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novarix/planning-engine/availability"
	"github.com/novarix/planning-engine/calendar"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func span(from, to string) calendar.Range {
	return calendar.NewRange(calendar.MustParseDate(from), calendar.MustParseDate(to))
}

func vacation(from, to string) availability.Absence {
	return availability.Absence{Kind: availability.BlockVacation, Span: span(from, to)}
}

func sick(from, to string) availability.Absence {
	return availability.Absence{Kind: availability.BlockSick, Span: span(from, to)}
}

func holidays2024() *calendar.HolidaySet {
	return calendar.NewHolidaySet([]calendar.Holiday{
		{Date: calendar.MustParseDate("2024-01-01"), Name: "Neujahr"},
		{Date: calendar.MustParseDate("2024-05-01"), Name: "Tag der Arbeit"},
		{Date: calendar.MustParseDate("2024-12-25"), Name: "1. Weihnachtstag"},
	})
}

// =============================================================================
// RESOLUTION TESTS
// =============================================================================

func TestResolve_HolidayWeek(t *testing.T) {
	// GIVEN: Mon 2024-01-01 (Neujahr) through Sun 2024-01-07, an employee
	//        who observes holidays and has no absences
	// THEN:  5 business days, 1 blocked, 4 available

	r := availability.NewResolver(holidays2024())
	got := r.Resolve(availability.Profile{ObservesHolidays: true}, span("2024-01-01", "2024-01-07"))

	assert.Equal(t, 5, got.BusinessDays)
	assert.Equal(t, 1, got.Blocked)
	assert.Equal(t, 4, got.Available)
}

func TestResolve_HolidayIgnoredWithoutFlag(t *testing.T) {
	r := availability.NewResolver(holidays2024())
	got := r.Resolve(availability.Profile{ObservesHolidays: false}, span("2024-01-01", "2024-01-07"))

	assert.Equal(t, 0, got.Blocked)
	assert.Equal(t, 5, got.Available)
}

func TestBlockedDays_AbsenceOverWeekendNotDoubleCounted(t *testing.T) {
	// Vacation Thu 2024-01-04 .. Tue 2024-01-09 spans a weekend; only the
	// four weekdays inside it count as blocked.
	r := availability.NewResolver(nil)
	p := availability.Profile{Absences: []availability.Absence{vacation("2024-01-04", "2024-01-09")}}

	assert.Equal(t, 4, r.BlockedDays(p, span("2024-01-01", "2024-01-14")))
}

func TestBlockedDays_OverlappingAbsencesCountOnce(t *testing.T) {
	r := availability.NewResolver(nil)
	p := availability.Profile{Absences: []availability.Absence{
		vacation("2024-02-05", "2024-02-07"),
		sick("2024-02-07", "2024-02-09"),
	}}

	// Mon..Fri with vacation Mon-Wed and sick Wed-Fri: 5 blocked, not 6.
	assert.Equal(t, 5, r.BlockedDays(p, span("2024-02-05", "2024-02-09")))
}

func TestResolve_InvertedRangeIsZero(t *testing.T) {
	r := availability.NewResolver(holidays2024())
	got := r.Resolve(availability.Profile{ObservesHolidays: true}, span("2024-03-10", "2024-03-01"))

	assert.Equal(t, availability.Availability{}, got)
}

func TestResolve_AvailableNeverNegative(t *testing.T) {
	// Everything blocked: absence covers the whole range plus a holiday.
	r := availability.NewResolver(holidays2024())
	p := availability.Profile{
		ObservesHolidays: true,
		Absences:         []availability.Absence{sick("2024-01-01", "2024-01-07")},
	}
	got := r.Resolve(p, span("2024-01-01", "2024-01-07"))

	assert.Equal(t, 5, got.Blocked)
	assert.Equal(t, 0, got.Available)
}

// =============================================================================
// DAY STATUS / REASON PRIORITY
// =============================================================================

func TestDayStatus_AbsenceOutranksHoliday(t *testing.T) {
	// GIVEN: vacation covering Neujahr for a holiday-observing employee
	// THEN:  the reported reason is the absence, not the holiday

	r := availability.NewResolver(holidays2024())
	p := availability.Profile{
		ObservesHolidays: true,
		Absences:         []availability.Absence{vacation("2023-12-27", "2024-01-05")},
	}

	assert.Equal(t, availability.BlockVacation, r.DayStatus(p, calendar.MustParseDate("2024-01-01")))
}

func TestDayStatus_FirstMatchingIntervalWins(t *testing.T) {
	r := availability.NewResolver(nil)
	p := availability.Profile{Absences: []availability.Absence{
		sick("2024-04-02", "2024-04-04"),
		vacation("2024-04-01", "2024-04-05"),
	}}

	assert.Equal(t, availability.BlockSick, r.DayStatus(p, calendar.MustParseDate("2024-04-03")))
	assert.Equal(t, availability.BlockVacation, r.DayStatus(p, calendar.MustParseDate("2024-04-01")))
}

func TestDayStatus_WeekendIsNotBlocked(t *testing.T) {
	r := availability.NewResolver(holidays2024())
	p := availability.Profile{
		ObservesHolidays: true,
		Absences:         []availability.Absence{vacation("2024-01-06", "2024-01-07")},
	}

	// Saturday inside a vacation interval: not a business day, not blocked.
	assert.Equal(t, availability.BlockNone, r.DayStatus(p, calendar.MustParseDate("2024-01-06")))
}

// =============================================================================
// OPEN DATES
// =============================================================================

func TestOpenDates_SkipsBlockedAndWeekend(t *testing.T) {
	r := availability.NewResolver(holidays2024())
	p := availability.Profile{
		ObservesHolidays: true,
		Absences:         []availability.Absence{sick("2024-01-03", "2024-01-03")},
	}

	open := r.OpenDates(p, span("2024-01-01", "2024-01-07"))

	var got []string
	for _, d := range open {
		got = append(got, d.String())
	}
	// Mon=Neujahr, Wed=sick, Sat/Sun=weekend → Tue, Thu, Fri remain.
	assert.Equal(t, []string{"2024-01-02", "2024-01-04", "2024-01-05"}, got)
}

package placement_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novarix/planning-engine/calendar"
	"github.com/novarix/planning-engine/placement"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// consecutiveWeekdays returns n business days starting at the given date.
func consecutiveWeekdays(from string, n int) []calendar.Date {
	var dates []calendar.Date
	d := calendar.MustParseDate(from)
	for len(dates) < n {
		if d.IsBusinessDay() {
			dates = append(dates, d)
		}
		d = d.AddDays(1)
	}
	return dates
}

// isolatedMondays returns n dates a week apart — no pair is "adjacent"
// under the 3-day gap rule.
func isolatedMondays(from string, n int) []calendar.Date {
	var dates []calendar.Date
	d := calendar.MustParseDate(from)
	for i := 0; i < n; i++ {
		dates = append(dates, d)
		d = d.AddDays(7)
	}
	return dates
}

func dateStrings(dates []calendar.Date) []string {
	var out []string
	for _, d := range dates {
		out = append(out, d.String())
	}
	return out
}

// =============================================================================
// DETERMINISM
// =============================================================================

func TestPlaceDays_Deterministic(t *testing.T) {
	// GIVEN: identical inputs
	// WHEN:  placing twice
	// THEN:  the selections are identical, date for date

	dates := consecutiveWeekdays("2024-03-04", 20)

	a := placement.PlaceDays("emp-7", "wp-12", dates, 5.5)
	b := placement.PlaceDays("emp-7", "wp-12", dates, 5.5)

	assert.Equal(t, dateStrings(a.WorkedDates), dateStrings(b.WorkedDates))
	assert.Equal(t, a.Hours, b.Hours)
	require.NotNil(t, a.PartialDate)
	require.NotNil(t, b.PartialDate)
	assert.True(t, a.PartialDate.Equal(*b.PartialDate))
	assert.Equal(t, a.PartialHours, b.PartialHours)
}

func TestPlaceDays_SeedVariesWithIDs(t *testing.T) {
	// Different (employee, work package) pairs should not all collapse
	// onto one selection; otherwise the even spreading is pointless.
	dates := isolatedMondays("2024-01-08", 10)

	distinct := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := placement.PlaceDays("emp-1", fmt.Sprintf("wp-%d", i), dates, 2.0)
		distinct[fmt.Sprint(dateStrings(s.WorkedDates))] = true
	}
	assert.GreaterOrEqual(t, len(distinct), 2)
}

// =============================================================================
// SLOT ARITHMETIC
// =============================================================================

func TestPlaceDays_IsolatedSingles(t *testing.T) {
	// GIVEN: totalDays = 2.0 over 10 dates with no adjacent pairs possible
	// THEN:  exactly 2 dates selected, both 8 hours

	dates := isolatedMondays("2024-01-08", 10)
	s := placement.PlaceDays("emp-1", "wp-1", dates, 2.0)

	require.Len(t, s.WorkedDates, 2)
	for _, d := range s.WorkedDates {
		assert.Equal(t, placement.HoursPerDay, s.Hours[d])
	}
	assert.Nil(t, s.PartialDate)
	assert.Equal(t, 16, s.TotalHours())
}

func TestPlaceDays_DemandExceedsSupply(t *testing.T) {
	// GIVEN: totalDays = 6.5 over exactly 6 available dates
	// THEN:  all 6 worked, the chronologically last reduced to 4 hours

	dates := consecutiveWeekdays("2024-02-05", 6)
	s := placement.PlaceDays("emp-3", "wp-9", dates, 6.5)

	require.Len(t, s.WorkedDates, 6)
	last := s.WorkedDates[5]
	assert.Equal(t, 4, s.Hours[last])
	require.NotNil(t, s.PartialDate)
	assert.True(t, s.PartialDate.Equal(last))
	assert.Equal(t, 4, s.PartialHours)
	for _, d := range s.WorkedDates[:5] {
		assert.Equal(t, placement.HoursPerDay, s.Hours[d])
	}
}

func TestPlaceDays_SlotConservation(t *testing.T) {
	// ceil(totalDays) dates carry hours whenever the supply suffices.
	dates := consecutiveWeekdays("2024-04-01", 25)

	tests := []struct {
		totalDays float64
		wantDates int
	}{
		{1.0, 1},
		{2.5, 3},
		{4.0, 4},
		{7.875, 8}, // 7 full days + 7 hours
		{10.0, 10},
	}
	for _, tt := range tests {
		s := placement.PlaceDays("emp-5", "wp-2", dates, tt.totalDays)
		assert.Len(t, s.WorkedDates, tt.wantDates, "totalDays=%v", tt.totalDays)
	}
}

func TestPlaceDays_EightHourRemainderPromotes(t *testing.T) {
	// 2.96 days → 2 full days + round(0.96×8)=8h remainder → 3 full days.
	dates := consecutiveWeekdays("2024-04-01", 10)
	s := placement.PlaceDays("emp-5", "wp-2", dates, 2.96)

	require.Len(t, s.WorkedDates, 3)
	assert.Nil(t, s.PartialDate)
	assert.Equal(t, 24, s.TotalHours())
}

func TestPlaceDays_ZeroQuotaAndNoDates(t *testing.T) {
	dates := consecutiveWeekdays("2024-04-01", 5)

	s := placement.PlaceDays("emp-1", "wp-1", dates, 0)
	assert.Empty(t, s.WorkedDates)
	assert.Empty(t, s.Hours)

	s = placement.PlaceDays("emp-1", "wp-1", nil, 3.0)
	assert.Empty(t, s.WorkedDates)
}

func TestPlaceDays_PartialIsLastInSortedOrder(t *testing.T) {
	dates := consecutiveWeekdays("2024-05-06", 15)
	s := placement.PlaceDays("emp-2", "wp-4", dates, 3.5)

	require.Len(t, s.WorkedDates, 4)
	// WorkedDates is sorted; the partial is its final element.
	for i := 1; i < len(s.WorkedDates); i++ {
		assert.True(t, s.WorkedDates[i-1].Before(s.WorkedDates[i]))
	}
	require.NotNil(t, s.PartialDate)
	assert.True(t, s.PartialDate.Equal(s.WorkedDates[3]))
	assert.Equal(t, 4, s.Hours[*s.PartialDate])
}

// =============================================================================
// BLOCK SHAPE
// =============================================================================

func TestPlaceDays_PrefersAdjacentPairs(t *testing.T) {
	// GIVEN: 2 slots over 10 consecutive weekdays
	// THEN:  the two selected days form one adjacent block

	dates := consecutiveWeekdays("2024-03-04", 10)
	s := placement.PlaceDays("emp-9", "wp-3", dates, 2.0)

	require.Len(t, s.WorkedDates, 2)
	gap := s.WorkedDates[0].DaysBetween(s.WorkedDates[1])
	assert.LessOrEqual(t, gap, 3, "selected days %v should be one block", dateStrings(s.WorkedDates))
}

func TestPlaceDays_PairsBridgeWeekends(t *testing.T) {
	// Friday + Monday count as adjacent (3-day calendar gap).
	dates := []calendar.Date{
		calendar.MustParseDate("2024-03-08"), // Friday
		calendar.MustParseDate("2024-03-11"), // Monday
	}
	s := placement.PlaceDays("emp-1", "wp-1", dates, 2.0)

	assert.Len(t, s.WorkedDates, 2)
	assert.Equal(t, placement.HoursPerDay, s.Hours[dates[0]])
	assert.Equal(t, placement.HoursPerDay, s.Hours[dates[1]])
}

func TestPlaceDays_SpreadsAcrossRange(t *testing.T) {
	// 6 slots over 40 weekdays: selections must not all cluster in the
	// first half of the range.
	dates := consecutiveWeekdays("2024-01-01", 40)
	s := placement.PlaceDays("emp-4", "wp-8", dates, 6.0)

	require.Len(t, s.WorkedDates, 6)
	lastSelected := s.WorkedDates[5]
	midpoint := dates[19]
	assert.True(t, lastSelected.After(midpoint),
		"selection %v is front-loaded", dateStrings(s.WorkedDates))
}

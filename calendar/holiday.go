package calendar

// =============================================================================
// HOLIDAYS - Installation-wide holiday calendar
// =============================================================================

// Holiday is a named calendar date, global to the installation. Whether an
// employee actually observes it is the employee's ObservesHolidays flag,
// resolved in the availability package.
type Holiday struct {
	Date Date
	Name string
}

// HolidaySet provides O(1) holiday lookup. It is passed explicitly into the
// availability resolver; there is no process-wide singleton.
type HolidaySet struct {
	byDate map[Date]Holiday
	count  int
}

// NewHolidaySet builds a set from a holiday list. Duplicate dates keep the
// first entry.
func NewHolidaySet(holidays []Holiday) *HolidaySet {
	set := &HolidaySet{byDate: make(map[Date]Holiday, len(holidays))}
	for _, h := range holidays {
		if _, exists := set.byDate[h.Date]; exists {
			continue
		}
		set.byDate[h.Date] = h
		set.count++
	}
	return set
}

// Contains reports whether the date is a holiday. A nil set has no holidays.
func (s *HolidaySet) Contains(d Date) bool {
	if s == nil {
		return false
	}
	_, ok := s.byDate[d]
	return ok
}

// Lookup returns the holiday on the given date, if any.
func (s *HolidaySet) Lookup(d Date) (Holiday, bool) {
	if s == nil {
		return Holiday{}, false
	}
	h, ok := s.byDate[d]
	return h, ok
}

// Count returns the number of distinct holiday dates. Used by the daily-rate
// derivation (effective working days per year).
func (s *HolidaySet) Count() int {
	if s == nil {
		return 0
	}
	return s.count
}

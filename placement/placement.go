/*
Package placement maps a fractional day quota onto concrete calendar days.

PURPOSE:
  The allocation calculator says an employee owes 6.5 days to a work
  package; the calendar view and the PDF export must show WHICH days those
  are. Both surfaces call this one function, so they can never disagree
  about a worked day — the exports are treated as audit records.

DETERMINISM:
  Placement is a pure function of (employeeID, workPackageID, available
  dates, totalDays). The "random" spreading uses a linear-congruential
  generator seeded from the two IDs alone: no wall clock, no global RNG.
  Re-rendering a calendar, re-running an export, or recomputing on another
  machine yields byte-identical results.

SHAPE OF THE SELECTION:
  Real work is scheduled in blocks, not confetti. The selector first
  places adjacent-day pairs (a gap of up to 3 calendar days still counts
  as adjacent, so Friday+Monday pairs across a weekend), then fills the
  rest as singles, spreading both evenly across the whole range instead
  of front-loading the first days.

SEE ALSO:
  - allocation/: produces the fractional quota placed here
  - availability/: produces the open-date list placed into
*/
package placement

import (
	"math"
	"sort"

	"github.com/novarix/planning-engine/calendar"
)

// HoursPerDay is the working-hour content of one placed day.
const HoursPerDay = 8

// pairMaxGap is the largest calendar-day gap that still counts as
// "adjacent" when forming work blocks; 3 bridges a weekend.
const pairMaxGap = 3

// =============================================================================
// RESULT
// =============================================================================

// Schedule is the concrete day mapping for one (employee, work package)
// quota. Hours holds every worked date; all entries are HoursPerDay except
// the partial date, if any.
type Schedule struct {
	WorkedDates  []calendar.Date       // sorted ascending
	Hours        map[calendar.Date]int // date → hours worked (1..8)
	PartialDate  *calendar.Date        // the reduced-hours date, nil if none
	PartialHours int                   // 1..7 when PartialDate is set
}

// TotalHours sums the scheduled hours.
func (s Schedule) TotalHours() int {
	total := 0
	for _, h := range s.Hours {
		total += h
	}
	return total
}

// =============================================================================
// SEEDED GENERATOR
// =============================================================================

// rng is the deterministic generator behind placement. The seed is folded
// from the employee and work-package IDs; the step is a textbook LCG
// (Numerical Recipes constants) reduced mod 2^31.
type rng struct {
	seed uint32
}

func newRNG(employeeID, workPackageID string) *rng {
	var seed uint32
	for _, b := range []byte(employeeID) {
		seed = seed*31 + uint32(b)
	}
	for _, b := range []byte(workPackageID) {
		seed = seed*31 + uint32(b)
	}
	return &rng{seed: seed & 0x7FFFFFFF}
}

// next returns the next value in [0, 1).
func (r *rng) next() float64 {
	r.seed = (r.seed*1664525 + 1013904223) & 0x7FFFFFFF
	return float64(r.seed) / float64(1<<31)
}

// =============================================================================
// PLACEMENT
// =============================================================================

// PlaceDays selects the concrete days worked for a fractional quota.
//
// The quota splits into full 8-hour days plus a remainder of 1..7 hours; an
// 8-hour remainder is promoted to a full day. When the demand meets or
// exceeds the supplied dates, every date is worked and only the last one is
// reduced to the remainder. Otherwise slots are chosen deterministically as
// described in the package comment.
func PlaceDays(employeeID, workPackageID string, available []calendar.Date, totalDays float64) Schedule {
	fullDays := int(math.Floor(totalDays))
	remainderHours := int(math.Round((totalDays - float64(fullDays)) * HoursPerDay))
	if remainderHours >= HoursPerDay {
		fullDays++
		remainderHours = 0
	}

	totalSlots := fullDays
	if remainderHours > 0 {
		totalSlots++
	}

	schedule := Schedule{Hours: make(map[calendar.Date]int)}
	if totalSlots <= 0 || len(available) == 0 {
		return schedule
	}

	var indices []int
	if totalSlots >= len(available) {
		// Demand exhausts supply: every available date is worked.
		indices = make([]int, len(available))
		for i := range available {
			indices[i] = i
		}
	} else {
		indices = selectIndices(newRNG(employeeID, workPackageID), available, totalSlots)
	}

	sort.Ints(indices)
	for _, i := range indices {
		schedule.Hours[available[i]] = HoursPerDay
		schedule.WorkedDates = append(schedule.WorkedDates, available[i])
	}
	if remainderHours > 0 {
		last := schedule.WorkedDates[len(schedule.WorkedDates)-1]
		schedule.Hours[last] = remainderHours
		schedule.PartialDate = &last
		schedule.PartialHours = remainderHours
	}
	return schedule
}

// selectIndices picks totalSlots indices out of the available dates,
// pairs first, then singles. Caller guarantees totalSlots < len(available).
func selectIndices(r *rng, available []calendar.Date, totalSlots int) []int {
	chosen := make(map[int]bool, totalSlots)
	remaining := totalSlots

	// Adjacent index pairs; a ≤3-day calendar gap bridges a weekend.
	var pairs [][2]int
	for i := 0; i+1 < len(available); i++ {
		if available[i].DaysBetween(available[i+1]) <= pairMaxGap {
			pairs = append(pairs, [2]int{i, i + 1})
		}
	}

	if remaining >= 2 && len(pairs) > 0 {
		numPairs := remaining / 2
		if numPairs > len(pairs) {
			numPairs = len(pairs)
		}
		step := float64(len(pairs)) / float64(numPairs)
		offset := r.next() * step
		for k := 0; k < numPairs; k++ {
			idx := int(offset + float64(k)*step)
			if idx >= len(pairs) {
				idx = len(pairs) - 1
			}
			p := pairs[idx]
			if chosen[p[0]] || chosen[p[1]] {
				continue // overlaps an earlier block; singles will fill the gap
			}
			chosen[p[0]] = true
			chosen[p[1]] = true
			remaining -= 2
		}
	}

	if remaining > 0 {
		var unpicked []int
		for i := range available {
			if !chosen[i] {
				unpicked = append(unpicked, i)
			}
		}
		step := float64(len(unpicked)) / float64(remaining)
		if step < 1 {
			step = 1
		}
		offset := r.next() * step
		for k := 0; k < remaining && k < len(unpicked); k++ {
			idx := int(offset + float64(k)*step)
			if idx >= len(unpicked) {
				idx = len(unpicked) - 1
			}
			j := unpicked[idx]
			for chosen[j] {
				idx = (idx + 1) % len(unpicked)
				j = unpicked[idx]
			}
			chosen[j] = true
		}
	}

	indices := make([]int, 0, len(chosen))
	for i := range chosen {
		indices = append(indices, i)
	}
	return indices
}

package calendar

// =============================================================================
// RANGE - Inclusive span of calendar days
// =============================================================================

// Range is an inclusive [Start, End] span. An inverted range (Start after
// End) is treated as empty everywhere, never as an error: the engine
// degrades to zero values instead of failing.
type Range struct {
	Start Date
	End   Date
}

// NewRange builds an inclusive range.
func NewRange(start, end Date) Range {
	return Range{Start: start, End: end}
}

// IsEmpty reports whether the range contains no days.
func (r Range) IsEmpty() bool {
	return r.Start.After(r.End)
}

// Contains reports whether the date falls within [Start, End].
func (r Range) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Intersect clips r to other. The result may be empty.
func (r Range) Intersect(other Range) Range {
	return Range{Start: Max(r.Start, other.Start), End: Min(r.End, other.End)}
}

// Days returns every day in the range, in order. Empty range → nil.
func (r Range) Days() []Date {
	if r.IsEmpty() {
		return nil
	}
	var days []Date
	for d := r.Start; d.BeforeOrEqual(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// BusinessDays returns the weekdays in the range, in order.
func (r Range) BusinessDays() []Date {
	if r.IsEmpty() {
		return nil
	}
	var days []Date
	for d := r.Start; d.BeforeOrEqual(r.End); d = d.AddDays(1) {
		if d.IsBusinessDay() {
			days = append(days, d)
		}
	}
	return days
}

// CountBusinessDays returns the inclusive number of weekdays in [start, end].
// An inverted range counts 0.
func CountBusinessDays(start, end Date) int {
	if start.After(end) {
		return 0
	}
	count := 0
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if d.IsBusinessDay() {
			count++
		}
	}
	return count
}

func (r Range) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}

/*
Package calendar provides day-granularity date primitives for the planning
engine.

PURPOSE:
  Every computation in this system happens at whole-day granularity: an
  absence blocks whole days, a holiday is a day, placement marks days.
  Date wraps time.Time pinned to midnight UTC so that comparisons and
  arithmetic can never be skewed by time-of-day or timezone components.

KEY TYPES:
  Date:       A single calendar day (no time-of-day)
  Range:      An inclusive [Start, End] span of days (range.go)
  HolidaySet: Installation-wide holiday lookup (holiday.go)

BUSINESS DAYS:
  A business day is any weekday. This package knows nothing about
  holidays or absences; that resolution lives in the availability
  package, which takes the holiday set as an explicit parameter.

SEE ALSO:
  - availability/: blocked-day resolution on top of these primitives
*/
package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// DATE - A single calendar day
// =============================================================================

// Date is a calendar day. The embedded time is always midnight UTC.
type Date struct {
	t time.Time
}

// NewDate creates a Date for the given year/month/day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a time.Time to its calendar day.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParseDate is ParseDate for literals in tests and seed data.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// DaysBetween returns the signed number of calendar days from d to other.
func (d Date) DaysBetween(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }

// IsBusinessDay reports whether d is a weekday. Saturday and Sunday are
// never business days; holiday knowledge lives one layer up.
func (d Date) IsBusinessDay() bool {
	wd := d.t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func (d Date) String() string { return d.t.Format("2006-01-02") }

// MarshalJSON encodes the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "2006-01-02" (and "" for the zero date, since the
// store round-trips optional dates as empty strings).
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Min returns the earlier of two dates.
func Min(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// Max returns the later of two dates.
func Max(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

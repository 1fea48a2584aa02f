// Package date provides a day-granularity date value and an explicit clock.
//
// Leave accrual, request spans and shift intervals all operate on whole days.
// Keeping a dedicated Date type (instead of raw time.Time) makes the
// normalization rules explicit and keeps "now" out of the core logic: every
// operation that needs an evaluation date receives one through a Clock.
package date

import "time"

const layout = "2006-01-02"

// Date is a calendar day in UTC. The zero value is the zero date.
type Date struct {
	Time time.Time
}

// New returns the date for the given year, month and day.
func New(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its UTC calendar day.
func FromTime(t time.Time) Date {
	u := t.UTC()
	return New(u.Year(), u.Month(), u.Day())
}

// Today returns the current UTC calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// Parse parses a date in YYYY-MM-DD form.
func Parse(s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, err
	}
	return FromTime(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) IsZero() bool { return d.Time.IsZero() }

func (d Date) String() string { return d.normalize().Format(layout) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from from to to.
// Negative when to precedes from.
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// =============================================================================
// CLOCK - Explicit evaluation dates
// =============================================================================

// Clock supplies the evaluation date for accrual and status-date logic.
type Clock interface {
	Today() Date
}

// System is the wall clock.
type System struct{}

func (System) Today() Date { return Today() }

// Fixed is a clock pinned to a single date, for deterministic tests.
type Fixed struct {
	On Date
}

func (f Fixed) Today() Date { return f.On }

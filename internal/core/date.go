package core

import (
	"fmt"
	"time"
)

const isoDay = "2006-01-02"

type (
	// Date is a calendar day. The wrapped time is always midnight UTC so
	// dates compare and format consistently regardless of origin.
	Date struct {
		time.Time
	}

	// Month identifies a calendar month.
	Month struct {
		Year  int
		Month time.Month
	}
)

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary time to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses an ISO day string like "2025-11-03".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoDay, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ISO returns the date formatted as "2006-01-02". ISO strings are used as
// map keys throughout the aggregation code.
func (d Date) ISO() string {
	return d.Format(isoDay)
}

func (d Date) String() string {
	return d.ISO()
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return DateOf(d.AddDate(0, 0, n))
}

// MonthOf returns the month containing the date.
func (d Date) MonthOf() Month {
	return Month{Year: d.Year(), Month: d.Time.Month()}
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseMonth parses a month string like "2025-11".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) Validate() error {
	if m.Year == 0 || m.Month < time.January || m.Month > time.December {
		return ErrInvalidMonth
	}
	return nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// First returns the first day of the month.
func (m Month) First() Date {
	return NewDate(m.Year, m.Month, 1)
}

// Last returns the last day of the month.
func (m Month) Last() Date {
	return NewDate(m.Year, m.Month+1, 0)
}

// Days returns every date of the month in order.
func (m Month) Days() []Date {
	last := m.Last().Day()
	days := make([]Date, 0, last)
	for d := 1; d <= last; d++ {
		days = append(days, NewDate(m.Year, m.Month, d))
	}
	return days
}

// Contains reports whether the date falls inside the month.
func (m Month) Contains(d Date) bool {
	return d.Year() == m.Year && d.Time.Month() == m.Month
}

package core

import (
	"errors"
	"strings"
)

const (
	Workday       DayType = "workday"
	PublicHoliday DayType = "public_holiday"
	Weekend       DayType = "weekend"
)

const (
	RoleNone           ProjectRole = ""
	RoleHoliday        ProjectRole = "holiday"
	RolePaidVacation   ProjectRole = "paid_vacation"
	RoleUnpaidVacation ProjectRole = "unpaid_vacation"
)

type (
	// DayType classifies a calendar date. A date with no stored row has no
	// type at all, which is distinct from any of the three values.
	DayType string

	// ProjectRole tags the built-in projects that carry accounting meaning.
	// Regular projects have RoleNone.
	ProjectRole string

	TimeEntry struct {
		ID        int64
		UserID    int64
		ProjectID int64
		Date      Date
		Hours     float64
		Comment   string // free text, may carry #tag tokens
	}

	Project struct {
		ID         int64
		Name       string
		Color      string
		Suppressed bool
		Role       ProjectRole
	}

	CalendarDay struct {
		Date Date
		Type DayType
	}

	User struct {
		ID     int64
		Name   string
		Active bool
	}

	// Segment is one project's hour allocation within a day as submitted by
	// a caller. Exactly one of Hours or Minutes must be set.
	Segment struct {
		ProjectID int64
		Hours     *float64
		Minutes   *int
		Comment   string
	}
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidMonth        = errors.New("invalid month, expected YYYY-MM")
	ErrInvalidDayType      = errors.New("invalid day type")
	ErrNegativeHours       = errors.New("hours must be non-negative")
	ErrNoDuration          = errors.New("segment needs either hours or minutes")
	ErrUnauthorizedProject = errors.New("project not in authorized set")
	ErrSystemProject       = errors.New("system projects cannot be modified")
)

// IsSystem reports whether the project is one of the built-in accounting
// projects. Derived from the role tag so no name comparison is needed.
func (p Project) IsSystem() bool {
	return p.Role != RoleNone
}

// IsVacation reports whether the project carries a vacation role.
// Paid and unpaid vacation are not distinguished by the report matrix.
func (p Project) IsVacation() bool {
	return p.Role == RolePaidVacation || p.Role == RoleUnpaidVacation
}

func (t DayType) Validate() error {
	switch t {
	case Workday, PublicHoliday, Weekend:
		return nil
	}
	return ErrInvalidDayType
}

// RequiresHours reports whether a day of this type must be filled up to the
// required daily threshold.
func (t DayType) RequiresHours() bool {
	return t == Workday || t == PublicHoliday
}

func (e TimeEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Hours < 0 {
		return ErrNegativeHours
	}
	return nil
}

// Duration resolves the segment to fractional hours. Minutes take effect only
// when Hours is unset.
func (s Segment) Duration() (float64, error) {
	switch {
	case s.Hours != nil:
		if *s.Hours < 0 {
			return 0, ErrNegativeHours
		}
		return *s.Hours, nil
	case s.Minutes != nil:
		if *s.Minutes < 0 {
			return 0, ErrNegativeHours
		}
		return float64(*s.Minutes) / 60.0, nil
	}
	return 0, ErrNoDuration
}

// Tags extracts #tag tokens from an entry comment, without the leading '#'.
func Tags(comment string) []string {
	var tags []string
	for _, field := range strings.Fields(comment) {
		if len(field) > 1 && strings.HasPrefix(field, "#") {
			tags = append(tags, strings.TrimPrefix(field, "#"))
		}
	}
	return tags
}

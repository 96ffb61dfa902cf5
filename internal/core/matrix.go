package core

// Cell is one user/day slot in the organization report matrix.
type Cell struct {
	Hours    float64
	Work     bool
	Vacation bool
	Holiday  bool
	// Unreported is set when the day type requires hours, the date is not in
	// the future, and the day's total is below the required threshold.
	Unreported bool
}

// Dominant returns the flag that wins the cell's styling when several are
// set: vacation over holiday over work. Empty cells yield "".
func (c Cell) Dominant() string {
	switch {
	case c.Vacation:
		return "vacation"
	case c.Holiday:
		return "holiday"
	case c.Work:
		return "work"
	}
	return ""
}

// Detail differentiates a completely empty unreported day from a partially
// filled one. The Unreported flag itself collapses the two; tooltips don't.
func (c Cell) Detail() string {
	if !c.Unreported {
		return ""
	}
	if c.Hours == 0 {
		return "no hours reported"
	}
	return "partial hours reported"
}

// MatrixDay is one column header of the report matrix. Type is empty for
// unclassified dates.
type MatrixDay struct {
	Date Date
	Type DayType
}

// MatrixRow is one user's line across the month.
type MatrixRow struct {
	User  User
	Cells []Cell
	// HolidayMismatch warns when the user's distinct Holiday-entry days differ
	// from the number of public holidays in the calendar. Cross-check only.
	HolidayMismatch  bool
	HolidayDays      int
	ExpectedHolidays int
}

// ReportMatrix is the organization-wide month report.
type ReportMatrix struct {
	Month Month
	Days  []MatrixDay
	Rows  []MatrixRow
}

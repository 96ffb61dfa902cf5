package core

// ProjectHours is one project's share of a day's total.
type ProjectHours struct {
	ProjectID int64
	Hours     float64
}

// DaySummary is the computed per-date breakdown for one user. Never persisted.
type DaySummary struct {
	Date       Date
	TotalHours float64
	PerProject []ProjectHours
}

// ReportedHours buckets the hours a user actually logged in a month.
// TotalHours is always the literal sum of the month's entries; the two
// buckets hold only correctly attributed hours, so they may sum to less.
type ReportedHours struct {
	WorkdaysHours       float64
	PublicHolidaysHours float64
	TotalHours          float64
}

// ExpectedHours is what the calendar demands for a month.
type ExpectedHours struct {
	WorkdaysHours       float64
	PublicHolidaysHours float64
}

// Issues collects the shortfalls detected for a month.
type Issues struct {
	MissingWorkdayHours       float64
	MissingPublicHolidayHours float64
	IncompleteWorkdays        int
	IncompletePublicHolidays  int
	OvertimeHours             float64
}

// MonthlySummary is the derived reported/expected/issues triple for one user
// and one month. Computed, never persisted.
type MonthlySummary struct {
	Month    Month
	UserID   int64
	Reported ReportedHours
	Expected ExpectedHours
	Issues   Issues
}

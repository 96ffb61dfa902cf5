package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ore/internal/core"
	"ore/internal/timesheet"
)

// MatrixStore is what the organization report needs from the collaborator.
type MatrixStore interface {
	timesheet.EntryReader
	timesheet.CalendarReader
	timesheet.ProjectReader
	timesheet.UserReader
}

// MatrixService builds the organization-wide month report.
type MatrixService struct {
	store    MatrixStore
	required float64
	now      func() time.Time
}

func NewMatrixService(store MatrixStore, requiredDailyHours float64) *MatrixService {
	if requiredDailyHours <= 0 {
		requiredDailyHours = DefaultRequiredDailyHours
	}
	return &MatrixService{store: store, required: requiredDailyHours, now: time.Now}
}

// WithClock overrides the time source; tests pin "today" with it.
func (s *MatrixService) WithClock(now func() time.Time) *MatrixService {
	s.now = now
	return s
}

// BuildMatrix derives a status cell for every active user and every day of
// the month, plus the per-user holiday-count consistency check.
func (s *MatrixService) BuildMatrix(ctx context.Context, month core.Month) (core.ReportMatrix, error) {
	if err := month.Validate(); err != nil {
		return core.ReportMatrix{}, err
	}
	users, err := s.store.ActiveUsers(ctx)
	if err != nil {
		return core.ReportMatrix{}, fmt.Errorf("fetch active users: %w", err)
	}
	entries, err := s.store.EntriesByDateRange(ctx, month.First(), month.Last())
	if err != nil {
		return core.ReportMatrix{}, fmt.Errorf("fetch entries for %s: %w", month, err)
	}
	calendar, err := s.store.CalendarByDateRange(ctx, month.First(), month.Last())
	if err != nil {
		return core.ReportMatrix{}, fmt.Errorf("fetch calendar for %s: %w", month, err)
	}
	projects, err := s.store.AllProjects(ctx, true)
	if err != nil {
		return core.ReportMatrix{}, fmt.Errorf("fetch projects: %w", err)
	}

	today := core.DateOf(s.now())
	return ComputeReportMatrix(month, users, entries, ProjectRoles(projects), DayTypes(calendar), s.required, today), nil
}

// ComputeReportMatrix is the pure derivation step. Rows come out ordered by
// user name, then ID.
func ComputeReportMatrix(
	month core.Month,
	users []core.User,
	entries []core.TimeEntry,
	roles map[int64]core.ProjectRole,
	calendar map[string]core.DayType,
	required float64,
	today core.Date,
) core.ReportMatrix {
	matrix := core.ReportMatrix{Month: month}

	days := month.Days()
	for _, day := range days {
		matrix.Days = append(matrix.Days, core.MatrixDay{
			Date: day,
			Type: calendar[day.ISO()],
		})
	}

	expectedHolidays := 0
	for _, day := range days {
		if calendar[day.ISO()] == core.PublicHoliday {
			expectedHolidays++
		}
	}

	perUser := make(map[int64][]core.TimeEntry)
	for _, e := range entries {
		perUser[e.UserID] = append(perUser[e.UserID], e)
	}

	sorted := append([]core.User(nil), users...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	for _, user := range sorted {
		row := core.MatrixRow{User: user, ExpectedHolidays: expectedHolidays}
		totals := Aggregate(perUser[user.ID])

		byDay := make(map[string][]core.TimeEntry)
		for _, e := range perUser[user.ID] {
			byDay[e.Date.ISO()] = append(byDay[e.Date.ISO()], e)
		}

		for _, day := range days {
			key := day.ISO()
			cell := core.Cell{Hours: totals.ByDate[key]}
			for _, e := range byDay[key] {
				switch roles[e.ProjectID] {
				case core.RoleHoliday:
					cell.Holiday = true
				case core.RolePaidVacation, core.RoleUnpaidVacation:
					cell.Vacation = true
				default:
					cell.Work = true
				}
			}
			dayType := calendar[key]
			if dayType.RequiresHours() && !day.After(today.Time) && cell.Hours < required {
				cell.Unreported = true
			}
			if cell.Holiday {
				row.HolidayDays++
			}
			row.Cells = append(row.Cells, cell)
		}

		// Cross-check only; the data is never corrected.
		row.HolidayMismatch = expectedHolidays > 0 && row.HolidayDays != expectedHolidays
		matrix.Rows = append(matrix.Rows, row)
	}
	return matrix
}

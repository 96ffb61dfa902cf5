package services

import (
	"context"
	"testing"
	"time"

	"ore/internal/core"
	"ore/internal/timesheet/memory"
)

func TestComputeReportMatrix_CellFlags(t *testing.T) {
	nov := month(t, "2025-11")
	users := []core.User{{ID: 1, Name: "Ada", Active: true}}
	calendar := map[string]core.DayType{
		"2025-11-03": core.Workday,
		"2025-11-04": core.Workday,
		"2025-11-05": core.Workday,
		"2025-11-06": core.Workday,
	}
	entries := []core.TimeEntry{
		entry(1, 2, "2025-11-03", 8), // full workday
		entry(1, 2, "2025-11-04", 3), // partial
		entry(1, 4, "2025-11-05", 8), // vacation
		// 2025-11-06 has nothing at all
	}
	today := core.NewDate(2025, time.November, 30)

	matrix := ComputeReportMatrix(nov, users, entries, testRoles, calendar, 8, today)

	if len(matrix.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(matrix.Rows))
	}
	if len(matrix.Days) != 30 {
		t.Fatalf("days = %d, want 30", len(matrix.Days))
	}
	cells := matrix.Rows[0].Cells

	tests := []struct {
		name string
		idx  int // 0-based day index
		want core.Cell
	}{
		{"full workday", 2, core.Cell{Hours: 8, Work: true}},
		{"partial workday flagged", 3, core.Cell{Hours: 3, Work: true, Unreported: true}},
		{"vacation satisfies the threshold", 4, core.Cell{Hours: 8, Vacation: true}},
		{"empty workday flagged", 5, core.Cell{Unreported: true}},
		{"unclassified day never flagged", 9, core.Cell{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if cells[tt.idx] != tt.want {
				t.Errorf("cell[%d] = %+v, want %+v", tt.idx, cells[tt.idx], tt.want)
			}
		})
	}
}

func TestComputeReportMatrix_FutureDaysNotFlagged(t *testing.T) {
	nov := month(t, "2025-11")
	users := []core.User{{ID: 1, Name: "Ada", Active: true}}
	calendar := map[string]core.DayType{
		"2025-11-03": core.Workday,
		"2025-11-10": core.Workday,
	}
	today := core.NewDate(2025, time.November, 5)

	matrix := ComputeReportMatrix(nov, users, nil, testRoles, calendar, 8, today)

	cells := matrix.Rows[0].Cells
	if !cells[2].Unreported {
		t.Error("past empty workday should be flagged")
	}
	if cells[9].Unreported {
		t.Error("future workday must not be flagged")
	}
}

func TestComputeReportMatrix_HolidayMismatch(t *testing.T) {
	nov := month(t, "2025-11")
	calendar := map[string]core.DayType{
		"2025-11-01": core.PublicHoliday,
		"2025-11-02": core.PublicHoliday,
		"2025-11-21": core.PublicHoliday,
	}
	today := core.NewDate(2025, time.December, 1)

	tests := []struct {
		name         string
		entries      []core.TimeEntry
		wantDays     int
		wantMismatch bool
	}{
		{
			name: "two holiday days against three public holidays",
			entries: []core.TimeEntry{
				entry(1, 1, "2025-11-01", 8),
				entry(1, 1, "2025-11-02", 8),
			},
			wantDays:     2,
			wantMismatch: true,
		},
		{
			name: "matching counts",
			entries: []core.TimeEntry{
				entry(1, 1, "2025-11-01", 8),
				entry(1, 1, "2025-11-02", 8),
				entry(1, 1, "2025-11-21", 8),
			},
			wantDays:     3,
			wantMismatch: false,
		},
		{
			name:         "no holiday entries at all",
			entries:      nil,
			wantDays:     0,
			wantMismatch: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := []core.User{{ID: 1, Name: "Ada", Active: true}}
			matrix := ComputeReportMatrix(nov, users, tt.entries, testRoles, calendar, 8, today)
			row := matrix.Rows[0]
			if row.HolidayDays != tt.wantDays {
				t.Errorf("HolidayDays = %d, want %d", row.HolidayDays, tt.wantDays)
			}
			if row.ExpectedHolidays != 3 {
				t.Errorf("ExpectedHolidays = %d, want 3", row.ExpectedHolidays)
			}
			if row.HolidayMismatch != tt.wantMismatch {
				t.Errorf("HolidayMismatch = %v, want %v", row.HolidayMismatch, tt.wantMismatch)
			}
		})
	}
}

func TestComputeReportMatrix_NoMismatchWithoutPublicHolidays(t *testing.T) {
	nov := month(t, "2025-11")
	users := []core.User{{ID: 1, Name: "Ada", Active: true}}
	today := core.NewDate(2025, time.December, 1)

	matrix := ComputeReportMatrix(nov, users, nil, testRoles, map[string]core.DayType{}, 8, today)
	if matrix.Rows[0].HolidayMismatch {
		t.Error("mismatch must stay false when the month has no public holidays")
	}
}

func TestComputeReportMatrix_RowOrder(t *testing.T) {
	nov := month(t, "2025-11")
	users := []core.User{
		{ID: 3, Name: "Nora", Active: true},
		{ID: 1, Name: "Ada", Active: true},
		{ID: 2, Name: "Ada", Active: true},
	}
	today := core.NewDate(2025, time.December, 1)

	matrix := ComputeReportMatrix(nov, users, nil, testRoles, nil, 8, today)

	wantIDs := []int64{1, 2, 3}
	for i, row := range matrix.Rows {
		if row.User.ID != wantIDs[i] {
			t.Errorf("row %d user ID = %d, want %d", i, row.User.ID, wantIDs[i])
		}
	}
}

func TestMatrixService_BuildMatrix(t *testing.T) {
	store := memory.New()
	store.SeedProjects([]core.Project{
		{ID: 1, Name: "Holiday", Role: core.RoleHoliday},
		{ID: 2, Name: "Backend"},
	})
	store.SeedUsers([]core.User{
		{ID: 1, Name: "Ada", Active: true},
		{ID: 2, Name: "Off", Active: false},
	})
	date := core.NewDate(2025, time.November, 3)
	if err := store.UpsertCalendarDay(context.Background(), core.CalendarDay{Date: date, Type: core.Workday}); err != nil {
		t.Fatalf("UpsertCalendarDay() error = %v", err)
	}
	store.AddEntry(entry(1, 2, "2025-11-03", 8))

	svc := NewMatrixService(store, 8).WithClock(func() time.Time {
		return time.Date(2025, time.November, 15, 10, 0, 0, 0, time.UTC)
	})

	matrix, err := svc.BuildMatrix(context.Background(), month(t, "2025-11"))
	if err != nil {
		t.Fatalf("BuildMatrix() error = %v", err)
	}
	if len(matrix.Rows) != 1 {
		t.Fatalf("rows = %d, want only active users", len(matrix.Rows))
	}
	if got := matrix.Rows[0].Cells[2]; got.Hours != 8 || !got.Work {
		t.Errorf("cell = %+v, want 8 worked hours", got)
	}
	if matrix.Days[2].Type != core.Workday {
		t.Errorf("day type = %q, want workday column header", matrix.Days[2].Type)
	}
}

func TestMatrixService_InvalidMonth(t *testing.T) {
	svc := NewMatrixService(memory.New(), 8)
	if _, err := svc.BuildMatrix(context.Background(), core.Month{}); err == nil {
		t.Error("BuildMatrix() with zero month should fail")
	}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ore/internal/cache"
	"ore/internal/core"
	"ore/internal/timesheet/memory"
)

func hoursPtr(h float64) *float64 { return &h }
func minutesPtr(m int) *int       { return &m }

func reconcileFixture() *memory.Store {
	store := memory.New()
	store.SeedProjects([]core.Project{
		{ID: 1, Name: "Holiday", Role: core.RoleHoliday},
		{ID: 2, Name: "Backend"},
		{ID: 3, Name: "Frontend"},
	})
	return store
}

type recordingPublisher struct {
	calls []string
	err   error
}

func (p *recordingPublisher) PublishDayChanged(_ context.Context, userID int64, date core.Date) error {
	p.calls = append(p.calls, date.ISO())
	return p.err
}

func TestReconcile_ReplacesDay(t *testing.T) {
	store := reconcileFixture()
	date := core.NewDate(2025, time.November, 3)
	store.AddEntry(core.TimeEntry{UserID: 5, ProjectID: 2, Date: date, Hours: 2})
	store.AddEntry(core.TimeEntry{UserID: 5, ProjectID: 3, Date: date, Hours: 3})
	store.AddEntry(core.TimeEntry{UserID: 5, ProjectID: 2, Date: date, Hours: 1})

	svc := NewReconcileService(store, nil, nil)
	segments := []core.Segment{
		{ProjectID: 2, Hours: hoursPtr(6), Comment: "api work #backend"},
		{ProjectID: 3, Hours: hoursPtr(2)},
	}

	created, err := svc.Reconcile(context.Background(), 5, date, segments)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created = %d entries, want 2", len(created))
	}

	stored, err := store.EntriesByUserAndDateRange(context.Background(), 5, date, date)
	if err != nil {
		t.Fatalf("EntriesByUserAndDateRange() error = %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored = %d entries, want prior entries gone", len(stored))
	}
	var total float64
	for _, e := range stored {
		total += e.Hours
	}
	if total != 8 {
		t.Errorf("day total = %v, want 8", total)
	}
	if stored[0].Comment != "api work #backend" {
		t.Errorf("comment = %q, want preserved", stored[0].Comment)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	store := reconcileFixture()
	date := core.NewDate(2025, time.November, 3)
	svc := NewReconcileService(store, nil, nil)
	segments := []core.Segment{
		{ProjectID: 2, Hours: hoursPtr(4)},
		{ProjectID: 3, Minutes: minutesPtr(240)},
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Reconcile(context.Background(), 5, date, segments); err != nil {
			t.Fatalf("Reconcile() round %d error = %v", i, err)
		}
	}

	stored, err := store.EntriesByUserAndDateRange(context.Background(), 5, date, date)
	if err != nil {
		t.Fatalf("EntriesByUserAndDateRange() error = %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("stored = %d entries after repeated submits, want 2", len(stored))
	}
	if stored[1].Hours != 4 {
		t.Errorf("minutes segment = %v hours, want 4", stored[1].Hours)
	}
}

func TestReconcile_EmptySegmentsClearDay(t *testing.T) {
	store := reconcileFixture()
	date := core.NewDate(2025, time.November, 3)
	store.AddEntry(core.TimeEntry{UserID: 5, ProjectID: 2, Date: date, Hours: 8})

	svc := NewReconcileService(store, nil, nil)
	created, err := svc.Reconcile(context.Background(), 5, date, nil)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(created) != 0 {
		t.Errorf("created = %d entries, want none", len(created))
	}

	stored, _ := store.EntriesByUserAndDateRange(context.Background(), 5, date, date)
	if len(stored) != 0 {
		t.Errorf("stored = %d entries, want cleared day", len(stored))
	}
}

func TestReconcile_ValidationAbortsBeforeMutation(t *testing.T) {
	date := core.NewDate(2025, time.November, 3)

	tests := []struct {
		name     string
		segments []core.Segment
		wantErr  error
	}{
		{
			name: "unauthorized project",
			segments: []core.Segment{
				{ProjectID: 2, Hours: hoursPtr(4)},
				{ProjectID: 99, Hours: hoursPtr(4)},
			},
			wantErr: core.ErrUnauthorizedProject,
		},
		{
			name: "negative hours",
			segments: []core.Segment{
				{ProjectID: 2, Hours: hoursPtr(-1)},
			},
			wantErr: core.ErrNegativeHours,
		},
		{
			name: "no duration",
			segments: []core.Segment{
				{ProjectID: 2},
			},
			wantErr: core.ErrNoDuration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := reconcileFixture()
			store.AddEntry(core.TimeEntry{UserID: 5, ProjectID: 3, Date: date, Hours: 7})

			svc := NewReconcileService(store, nil, nil)
			if _, err := svc.Reconcile(context.Background(), 5, date, tt.segments); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Reconcile() error = %v, want %v", err, tt.wantErr)
			}

			stored, _ := store.EntriesByUserAndDateRange(context.Background(), 5, date, date)
			if len(stored) != 1 || stored[0].Hours != 7 {
				t.Errorf("stored = %+v, want the day untouched", stored)
			}
		})
	}
}

func TestReconcile_GrantRestriction(t *testing.T) {
	store := reconcileFixture()
	store.Grant(5, 2)
	date := core.NewDate(2025, time.November, 3)
	svc := NewReconcileService(store, nil, nil)

	// System projects stay reachable despite the grant.
	if _, err := svc.Reconcile(context.Background(), 5, date, []core.Segment{
		{ProjectID: 1, Hours: hoursPtr(8)},
	}); err != nil {
		t.Errorf("Reconcile() on system project error = %v", err)
	}

	if _, err := svc.Reconcile(context.Background(), 5, date, []core.Segment{
		{ProjectID: 3, Hours: hoursPtr(8)},
	}); !errors.Is(err, core.ErrUnauthorizedProject) {
		t.Errorf("Reconcile() on ungranted project error = %v, want %v", err, core.ErrUnauthorizedProject)
	}
}

func TestReconcile_InvalidatesSummaryAndPublishes(t *testing.T) {
	store := reconcileFixture()
	date := core.NewDate(2025, time.November, 3)
	if err := store.UpsertCalendarDay(context.Background(), core.CalendarDay{Date: date, Type: core.Workday}); err != nil {
		t.Fatalf("UpsertCalendarDay() error = %v", err)
	}

	summaries := NewSummaryService(store, 8, cache.NewLRU[core.MonthlySummary](8, time.Minute))
	pub := &recordingPublisher{}
	svc := NewReconcileService(store, pub, summaries)

	// Prime the cache with an empty month.
	before, err := summaries.Summarize(context.Background(), date, 5)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if before.Reported.TotalHours != 0 {
		t.Fatalf("TotalHours = %v, want 0 before reconcile", before.Reported.TotalHours)
	}

	if _, err := svc.Reconcile(context.Background(), 5, date, []core.Segment{
		{ProjectID: 2, Hours: hoursPtr(8)},
	}); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	after, err := summaries.Summarize(context.Background(), date, 5)
	if err != nil {
		t.Fatalf("Summarize() after reconcile error = %v", err)
	}
	if after.Reported.TotalHours != 8 {
		t.Errorf("TotalHours = %v, want 8 after invalidation", after.Reported.TotalHours)
	}
	if len(pub.calls) != 1 || pub.calls[0] != "2025-11-03" {
		t.Errorf("publisher calls = %v, want one for the reconciled day", pub.calls)
	}
}

func TestReconcile_PublishFailureIsNotFatal(t *testing.T) {
	store := reconcileFixture()
	date := core.NewDate(2025, time.November, 3)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewReconcileService(store, pub, nil)

	created, err := svc.Reconcile(context.Background(), 5, date, []core.Segment{
		{ProjectID: 2, Hours: hoursPtr(8)},
	})
	if err != nil {
		t.Fatalf("Reconcile() error = %v, want publish failures swallowed", err)
	}
	if len(created) != 1 {
		t.Errorf("created = %d entries, want 1", len(created))
	}
}

func TestReconcile_InvalidDate(t *testing.T) {
	svc := NewReconcileService(reconcileFixture(), nil, nil)
	if _, err := svc.Reconcile(context.Background(), 5, core.Date{}, nil); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("Reconcile() error = %v, want %v", err, core.ErrInvalidDate)
	}
}

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ore/internal/core"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ore.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestMigrations_SeedSystemProjects(t *testing.T) {
	repo := testRepo(t)

	projects, err := repo.AllProjects(context.Background(), false)
	if err != nil {
		t.Fatalf("AllProjects() error = %v", err)
	}

	roles := make(map[core.ProjectRole]bool)
	for _, p := range projects {
		if p.IsSystem() {
			roles[p.Role] = true
		}
	}
	for _, want := range []core.ProjectRole{core.RoleHoliday, core.RolePaidVacation, core.RoleUnpaidVacation} {
		if !roles[want] {
			t.Errorf("seed is missing a project with role %q", want)
		}
	}
}

func TestSQLiteRepository_ReplaceDayEntries(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "Ada")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	project, err := repo.CreateProject(ctx, "Backend", "#aa2233")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	date := core.NewDate(2025, time.November, 3)
	first, err := repo.ReplaceDayEntries(ctx, user.ID, date, []core.TimeEntry{
		{ProjectID: project.ID, Hours: 3, Comment: "morning"},
		{ProjectID: project.ID, Hours: 5, Comment: "afternoon #review"},
	})
	if err != nil {
		t.Fatalf("ReplaceDayEntries() error = %v", err)
	}
	if len(first) != 2 || first[0].ID == 0 {
		t.Fatalf("created = %+v, want 2 entries with assigned IDs", first)
	}

	// A second replace swaps the whole day.
	second, err := repo.ReplaceDayEntries(ctx, user.ID, date, []core.TimeEntry{
		{ProjectID: project.ID, Hours: 8},
	})
	if err != nil {
		t.Fatalf("ReplaceDayEntries() second error = %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("second replace created = %d, want 1", len(second))
	}

	stored, err := repo.EntriesByUserAndDateRange(ctx, user.ID, date, date)
	if err != nil {
		t.Fatalf("EntriesByUserAndDateRange() error = %v", err)
	}
	if len(stored) != 1 || stored[0].Hours != 8 {
		t.Errorf("stored = %+v, want only the second submission", stored)
	}

	// Clearing the day with an empty list.
	if _, err := repo.ReplaceDayEntries(ctx, user.ID, date, nil); err != nil {
		t.Fatalf("ReplaceDayEntries() clear error = %v", err)
	}
	stored, _ = repo.EntriesByUserAndDateRange(ctx, user.ID, date, date)
	if len(stored) != 0 {
		t.Errorf("stored = %d entries, want cleared day", len(stored))
	}
}

func TestSQLiteRepository_EntryQueriesRespectRange(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	user, _ := repo.CreateUser(ctx, "Ada")
	other, _ := repo.CreateUser(ctx, "Bruno")
	project, _ := repo.CreateProject(ctx, "Backend", "")

	nov3 := core.NewDate(2025, time.November, 3)
	dec1 := core.NewDate(2025, time.December, 1)
	if _, err := repo.ReplaceDayEntries(ctx, user.ID, nov3, []core.TimeEntry{{ProjectID: project.ID, Hours: 8}}); err != nil {
		t.Fatalf("ReplaceDayEntries() error = %v", err)
	}
	if _, err := repo.ReplaceDayEntries(ctx, user.ID, dec1, []core.TimeEntry{{ProjectID: project.ID, Hours: 4}}); err != nil {
		t.Fatalf("ReplaceDayEntries() error = %v", err)
	}
	if _, err := repo.ReplaceDayEntries(ctx, other.ID, nov3, []core.TimeEntry{{ProjectID: project.ID, Hours: 2}}); err != nil {
		t.Fatalf("ReplaceDayEntries() error = %v", err)
	}

	nov := core.Month{Year: 2025, Month: time.November}
	mine, err := repo.EntriesByUserAndDateRange(ctx, user.ID, nov.First(), nov.Last())
	if err != nil {
		t.Fatalf("EntriesByUserAndDateRange() error = %v", err)
	}
	if len(mine) != 1 || mine[0].Hours != 8 {
		t.Errorf("user entries = %+v, want the November entry only", mine)
	}

	all, err := repo.EntriesByDateRange(ctx, nov.First(), nov.Last())
	if err != nil {
		t.Fatalf("EntriesByDateRange() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("month entries = %d, want both users", len(all))
	}
}

func TestSQLiteRepository_Calendar(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	date := core.NewDate(2025, time.November, 1)

	if err := repo.UpsertCalendarDay(ctx, core.CalendarDay{Date: date, Type: core.Weekend}); err != nil {
		t.Fatalf("UpsertCalendarDay() error = %v", err)
	}
	// Reclassify the same date.
	if err := repo.UpsertCalendarDay(ctx, core.CalendarDay{Date: date, Type: core.PublicHoliday}); err != nil {
		t.Fatalf("UpsertCalendarDay() reclassify error = %v", err)
	}
	if err := repo.UpsertCalendarDay(ctx, core.CalendarDay{Date: date, Type: "vibes"}); !errors.Is(err, core.ErrInvalidDayType) {
		t.Errorf("UpsertCalendarDay() bad type error = %v, want %v", err, core.ErrInvalidDayType)
	}

	days, err := repo.CalendarByDateRange(ctx, date, date)
	if err != nil {
		t.Fatalf("CalendarByDateRange() error = %v", err)
	}
	if len(days) != 1 || days[0].Type != core.PublicHoliday {
		t.Errorf("calendar = %+v, want one public holiday row", days)
	}
}

func TestSQLiteRepository_ProjectAuthorization(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	user, _ := repo.CreateUser(ctx, "Ada")
	granted, _ := repo.CreateProject(ctx, "Backend", "")
	ungranted, _ := repo.CreateProject(ctx, "Secret", "")

	// No grant rows: everything unsuppressed is visible.
	all, err := repo.ProjectsByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ProjectsByUser() error = %v", err)
	}
	if !containsProject(all, ungranted.ID) {
		t.Error("ungranted project should be visible before any grant exists")
	}

	if err := repo.GrantProject(ctx, user.ID, granted.ID); err != nil {
		t.Fatalf("GrantProject() error = %v", err)
	}

	visible, err := repo.ProjectsByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ProjectsByUser() after grant error = %v", err)
	}
	if !containsProject(visible, granted.ID) {
		t.Error("granted project should stay visible")
	}
	if containsProject(visible, ungranted.ID) {
		t.Error("ungranted project should disappear once grants exist")
	}
	// System projects remain visible regardless of grants.
	foundSystem := false
	for _, p := range visible {
		if p.IsSystem() {
			foundSystem = true
		}
	}
	if !foundSystem {
		t.Error("system projects should be visible despite grants")
	}
}

func TestSQLiteRepository_SuppressProject(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	project, _ := repo.CreateProject(ctx, "Legacy", "")
	if err := repo.SuppressProject(ctx, project.ID); err != nil {
		t.Fatalf("SuppressProject() error = %v", err)
	}

	visible, err := repo.AllProjects(ctx, false)
	if err != nil {
		t.Fatalf("AllProjects() error = %v", err)
	}
	if containsProject(visible, project.ID) {
		t.Error("suppressed project should be hidden")
	}

	withSuppressed, _ := repo.AllProjects(ctx, true)
	if !containsProject(withSuppressed, project.ID) {
		t.Error("suppressed project should appear when included explicitly")
	}

	// System projects cannot be suppressed.
	var holiday core.Project
	for _, p := range withSuppressed {
		if p.Role == core.RoleHoliday {
			holiday = p
		}
	}
	if holiday.ID == 0 {
		t.Fatal("seeded holiday project not found")
	}
	if err := repo.SuppressProject(ctx, holiday.ID); !errors.Is(err, core.ErrSystemProject) {
		t.Errorf("SuppressProject(holiday) error = %v, want %v", err, core.ErrSystemProject)
	}

	if err := repo.SuppressProject(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("SuppressProject(missing) error = %v, want %v", err, core.ErrNotFound)
	}
}

func TestSQLiteRepository_ActiveUsers(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateUser(ctx, "Nora"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if _, err := repo.CreateUser(ctx, "Ada"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	users, err := repo.ActiveUsers(ctx)
	if err != nil {
		t.Fatalf("ActiveUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}
	if users[0].Name != "Ada" || users[1].Name != "Nora" {
		t.Errorf("users = %+v, want ordered by name", users)
	}
}

func containsProject(projects []core.Project, id int64) bool {
	for _, p := range projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

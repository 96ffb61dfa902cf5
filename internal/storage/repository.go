package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ore/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements the timesheet store contract on SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const entryColumns = "id, user_id, project_id, entry_date, hours, comment"

func (r *SQLiteRepository) EntriesByUserAndDateRange(ctx context.Context, userID int64, start, end core.Date) ([]core.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM time_entries WHERE user_id = ? AND entry_date BETWEEN ? AND ? ORDER BY entry_date, id",
		userID, start.ISO(), end.ISO())
	if err != nil {
		return nil, fmt.Errorf("query entries by user and range: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *SQLiteRepository) EntriesByDateRange(ctx context.Context, start, end core.Date) ([]core.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM time_entries WHERE entry_date BETWEEN ? AND ? ORDER BY entry_date, id",
		start.ISO(), end.ISO())
	if err != nil {
		return nil, fmt.Errorf("query entries by range: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ReplaceDayEntries swaps a user's full day inside one transaction. The
// delete and every insert either all commit or all roll back, which gives
// the per-user-per-date serialization the reconciler relies on.
func (r *SQLiteRepository) ReplaceDayEntries(ctx context.Context, userID int64, date core.Date, entries []core.TimeEntry) ([]core.TimeEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM time_entries WHERE user_id = ? AND entry_date = ?",
		userID, date.ISO()); err != nil {
		return nil, fmt.Errorf("delete day entries: %w", err)
	}

	created := make([]core.TimeEntry, 0, len(entries))
	for _, e := range entries {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO time_entries (user_id, project_id, entry_date, hours, comment) VALUES (?, ?, ?, ?, ?)",
			userID, e.ProjectID, date.ISO(), e.Hours, e.Comment)
		if err != nil {
			return nil, fmt.Errorf("insert entry: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("entry id: %w", err)
		}
		e.ID = id
		e.UserID = userID
		e.Date = date
		created = append(created, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace: %w", err)
	}

	slog.InfoContext(ctx, "Day entries replaced",
		"user_id", userID,
		"date", date.ISO(),
		"count", len(created))
	return created, nil
}

func (r *SQLiteRepository) CalendarByDateRange(ctx context.Context, start, end core.Date) ([]core.CalendarDay, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT day, day_type FROM calendar_days WHERE day BETWEEN ? AND ? ORDER BY day",
		start.ISO(), end.ISO())
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}
	defer rows.Close()

	var out []core.CalendarDay
	for rows.Next() {
		var day, dayType string
		if err := rows.Scan(&day, &dayType); err != nil {
			return nil, fmt.Errorf("scan calendar day: %w", err)
		}
		date, err := core.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("calendar row %q: %w", day, err)
		}
		out = append(out, core.CalendarDay{Date: date, Type: core.DayType(dayType)})
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpsertCalendarDay(ctx context.Context, day core.CalendarDay) error {
	if err := day.Type.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO calendar_days (day, day_type) VALUES (?, ?) ON CONFLICT(day) DO UPDATE SET day_type = excluded.day_type",
		day.Date.ISO(), string(day.Type))
	if err != nil {
		return fmt.Errorf("upsert calendar day: %w", err)
	}
	return nil
}

// ProjectsByUser returns the user's authorized projects: granted ones plus
// all system projects. A user with no grant rows sees every unsuppressed
// project.
func (r *SQLiteRepository) ProjectsByUser(ctx context.Context, userID int64) ([]core.Project, error) {
	var grants int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_projects WHERE user_id = ?", userID).Scan(&grants); err != nil {
		return nil, fmt.Errorf("count grants: %w", err)
	}

	query := "SELECT id, name, color, suppressed, role FROM projects WHERE suppressed = 0 ORDER BY name"
	args := []any{}
	if grants > 0 {
		query = `SELECT id, name, color, suppressed, role FROM projects
			WHERE suppressed = 0 AND (role != '' OR id IN (SELECT project_id FROM user_projects WHERE user_id = ?))
			ORDER BY name`
		args = append(args, userID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects by user: %w", err)
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *SQLiteRepository) AllProjects(ctx context.Context, includeSuppressed bool) ([]core.Project, error) {
	query := "SELECT id, name, color, suppressed, role FROM projects ORDER BY name"
	if !includeSuppressed {
		query = "SELECT id, name, color, suppressed, role FROM projects WHERE suppressed = 0 ORDER BY name"
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *SQLiteRepository) ActiveUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, active FROM users WHERE active = 1 ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("query active users: %w", err)
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Active); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CreateUser adds a user; used by admin tooling.
func (r *SQLiteRepository) CreateUser(ctx context.Context, name string) (core.User, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO users (name, active) VALUES (?, 1)", name)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("user id: %w", err)
	}
	return core.User{ID: id, Name: name, Active: true}, nil
}

// CreateProject adds a regular project. System projects only come from
// migrations; callers cannot create them.
func (r *SQLiteRepository) CreateProject(ctx context.Context, name, color string) (core.Project, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO projects (name, color, suppressed, role) VALUES (?, ?, 0, '')", name, color)
	if err != nil {
		return core.Project{}, fmt.Errorf("create project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Project{}, fmt.Errorf("project id: %w", err)
	}
	return core.Project{ID: id, Name: name, Color: color}, nil
}

// GrantProject authorizes a user for a project.
func (r *SQLiteRepository) GrantProject(ctx context.Context, userID, projectID int64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO user_projects (user_id, project_id) VALUES (?, ?)", userID, projectID)
	if err != nil {
		return fmt.Errorf("grant project: %w", err)
	}
	return nil
}

// SuppressProject hides a project from new entries. System projects are
// immutable.
func (r *SQLiteRepository) SuppressProject(ctx context.Context, projectID int64) error {
	project, err := r.projectByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.IsSystem() {
		return core.ErrSystemProject
	}
	_, err = r.db.ExecContext(ctx, "UPDATE projects SET suppressed = 1 WHERE id = ?", projectID)
	if err != nil {
		return fmt.Errorf("suppress project: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) projectByID(ctx context.Context, projectID int64) (core.Project, error) {
	var p core.Project
	var role string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, color, suppressed, role FROM projects WHERE id = ?", projectID).
		Scan(&p.ID, &p.Name, &p.Color, &p.Suppressed, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Project{}, fmt.Errorf("project %d: %w", projectID, core.ErrNotFound)
	}
	if err != nil {
		return core.Project{}, fmt.Errorf("query project: %w", err)
	}
	p.Role = core.ProjectRole(role)
	return p, nil
}

func scanEntries(rows *sql.Rows) ([]core.TimeEntry, error) {
	var out []core.TimeEntry
	for rows.Next() {
		var e core.TimeEntry
		var day string
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProjectID, &day, &e.Hours, &e.Comment); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		date, err := core.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", e.ID, err)
		}
		e.Date = date
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanProjects(rows *sql.Rows) ([]core.Project, error) {
	var out []core.Project
	for rows.Next() {
		var p core.Project
		var role string
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.Suppressed, &role); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.Role = core.ProjectRole(role)
		out = append(out, p)
	}
	return out, rows.Err()
}

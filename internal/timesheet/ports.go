package timesheet

import (
	"context"

	"ore/internal/core"
)

// Ports for the storage collaborator. The aggregation services depend only
// on these interfaces; SQLite and the in-memory store implement them.
type (
	EntryReader interface {
		// EntriesByUserAndDateRange returns one user's entries with
		// start <= date <= end.
		EntriesByUserAndDateRange(ctx context.Context, userID int64, start, end core.Date) ([]core.TimeEntry, error)

		// EntriesByDateRange returns all users' entries in the range.
		EntriesByDateRange(ctx context.Context, start, end core.Date) ([]core.TimeEntry, error)
	}

	// EntryReplacer swaps a user's full day atomically: every existing entry
	// for (userID, date) is deleted and the given entries are created inside
	// one transaction. Returns the created entries with assigned IDs.
	EntryReplacer interface {
		ReplaceDayEntries(ctx context.Context, userID int64, date core.Date, entries []core.TimeEntry) ([]core.TimeEntry, error)
	}

	CalendarReader interface {
		CalendarByDateRange(ctx context.Context, start, end core.Date) ([]core.CalendarDay, error)
	}

	CalendarWriter interface {
		// UpsertCalendarDay sets or replaces the classification of a date.
		UpsertCalendarDay(ctx context.Context, day core.CalendarDay) error
	}

	ProjectReader interface {
		// ProjectsByUser returns the projects the user is entitled to log
		// against, system projects included.
		ProjectsByUser(ctx context.Context, userID int64) ([]core.Project, error)

		AllProjects(ctx context.Context, includeSuppressed bool) ([]core.Project, error)
	}

	UserReader interface {
		ActiveUsers(ctx context.Context) ([]core.User, error)
	}
)

// Store bundles everything the services need from a single backend.
type Store interface {
	EntryReader
	EntryReplacer
	CalendarReader
	CalendarWriter
	ProjectReader
	UserReader
}

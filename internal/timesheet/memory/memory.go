package memory

import (
	"context"
	"sort"
	"sync"

	"ore/internal/core"
)

// Store is a mutex-guarded in-memory timesheet backend. It backs tests and
// the "memory" data backend; semantics mirror the SQLite adapter, including
// the all-or-nothing replace of a user's day.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	entries  map[int64]core.TimeEntry
	projects []core.Project
	calendar map[string]core.CalendarDay
	users    []core.User
	// grants maps userID to the set of project IDs the user may log against.
	// Empty grant set means all projects are allowed.
	grants map[int64]map[int64]bool
}

func New() *Store {
	return &Store{
		nextID:   1,
		entries:  make(map[int64]core.TimeEntry),
		calendar: make(map[string]core.CalendarDay),
		grants:   make(map[int64]map[int64]bool),
	}
}

// SeedProjects replaces the project list.
func (s *Store) SeedProjects(projects []core.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append([]core.Project(nil), projects...)
}

// SeedUsers replaces the user list.
func (s *Store) SeedUsers(users []core.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append([]core.User(nil), users...)
}

// Grant restricts a user to the given project IDs.
func (s *Store) Grant(userID int64, projectIDs ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[int64]bool, len(projectIDs))
	for _, id := range projectIDs {
		set[id] = true
	}
	s.grants[userID] = set
}

// AddEntry stores an entry directly, bypassing reconciliation.
func (s *Store) AddEntry(e core.TimeEntry) core.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(e)
}

func (s *Store) addLocked(e core.TimeEntry) core.TimeEntry {
	e.ID = s.nextID
	s.nextID++
	s.entries[e.ID] = e
	return e
}

func (s *Store) EntriesByUserAndDateRange(_ context.Context, userID int64, start, end core.Date) ([]core.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.TimeEntry
	for _, e := range s.entries {
		if e.UserID != userID {
			continue
		}
		if e.Date.Before(start.Time) || e.Date.After(end.Time) {
			continue
		}
		out = append(out, e)
	}
	sortEntries(out)
	return out, nil
}

func (s *Store) EntriesByDateRange(_ context.Context, start, end core.Date) ([]core.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.TimeEntry
	for _, e := range s.entries {
		if e.Date.Before(start.Time) || e.Date.After(end.Time) {
			continue
		}
		out = append(out, e)
	}
	sortEntries(out)
	return out, nil
}

func (s *Store) ReplaceDayEntries(_ context.Context, userID int64, date core.Date, entries []core.TimeEntry) ([]core.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.UserID == userID && e.Date.ISO() == date.ISO() {
			delete(s.entries, id)
		}
	}
	created := make([]core.TimeEntry, 0, len(entries))
	for _, e := range entries {
		e.UserID = userID
		e.Date = date
		created = append(created, s.addLocked(e))
	}
	return created, nil
}

func (s *Store) CalendarByDateRange(_ context.Context, start, end core.Date) ([]core.CalendarDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.CalendarDay
	for _, d := range s.calendar {
		if d.Date.Before(start.Time) || d.Date.After(end.Time) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

func (s *Store) UpsertCalendarDay(_ context.Context, day core.CalendarDay) error {
	if err := day.Type.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendar[day.Date.ISO()] = day
	return nil
}

func (s *Store) ProjectsByUser(_ context.Context, userID int64) ([]core.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grant := s.grants[userID]
	var out []core.Project
	for _, p := range s.projects {
		if p.Suppressed {
			continue
		}
		if len(grant) > 0 && !grant[p.ID] && !p.IsSystem() {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) AllProjects(_ context.Context, includeSuppressed bool) ([]core.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Project
	for _, p := range s.projects {
		if p.Suppressed && !includeSuppressed {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) ActiveUsers(_ context.Context) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.User
	for _, u := range s.users {
		if u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

// sortEntries orders by date then ID so aggregation folds in a stable order.
func sortEntries(entries []core.TimeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date.Time) {
			return entries[i].Date.Before(entries[j].Date.Time)
		}
		return entries[i].ID < entries[j].ID
	})
}

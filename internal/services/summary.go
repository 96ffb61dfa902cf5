package services

import (
	"context"
	"fmt"
	"log/slog"

	"ore/internal/cache"
	"ore/internal/core"
	"ore/internal/timesheet"
)

// DefaultRequiredDailyHours is the fallback daily threshold when none is
// configured.
const DefaultRequiredDailyHours = 8.0

// SummaryStore is what the monthly summary needs from the collaborator.
type SummaryStore interface {
	timesheet.EntryReader
	timesheet.CalendarReader
	timesheet.ProjectReader
}

// SummaryService computes monthly reported/expected/issues summaries.
// Results are memoized per (user, month) when a cache is supplied; the
// reconciler invalidates on mutation.
type SummaryService struct {
	store    SummaryStore
	required float64
	cache    *cache.LRUCache[core.MonthlySummary]
}

func NewSummaryService(store SummaryStore, requiredDailyHours float64, c *cache.LRUCache[core.MonthlySummary]) *SummaryService {
	if requiredDailyHours <= 0 {
		requiredDailyHours = DefaultRequiredDailyHours
	}
	return &SummaryService{store: store, required: requiredDailyHours, cache: c}
}

// RequiredDailyHours returns the configured daily threshold.
func (s *SummaryService) RequiredDailyHours() float64 {
	return s.required
}

// Summarize resolves the month containing date and builds the user's
// summary from entries, project roles and calendar classification.
func (s *SummaryService) Summarize(ctx context.Context, date core.Date, userID int64) (core.MonthlySummary, error) {
	if err := date.Validate(); err != nil {
		return core.MonthlySummary{}, err
	}
	month := date.MonthOf()

	key := summaryKey(userID, month)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
	}

	entries, err := s.store.EntriesByUserAndDateRange(ctx, userID, month.First(), month.Last())
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("fetch entries for %s: %w", month, err)
	}
	calendar, err := s.store.CalendarByDateRange(ctx, month.First(), month.Last())
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("fetch calendar for %s: %w", month, err)
	}
	projects, err := s.store.AllProjects(ctx, true)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("fetch projects: %w", err)
	}

	summary := ComputeMonthlySummary(month, userID, entries, ProjectRoles(projects), DayTypes(calendar), s.required)

	if s.cache != nil {
		s.cache.Set(key, summary)
	}
	slog.DebugContext(ctx, "Monthly summary computed",
		"user_id", userID,
		"month", month.String(),
		"total_hours", summary.Reported.TotalHours)
	return summary, nil
}

// Invalidate drops the memoized summary for a user and month. Called after
// every entry mutation for that day.
func (s *SummaryService) Invalidate(userID int64, month core.Month) {
	if s.cache != nil {
		s.cache.Delete(summaryKey(userID, month))
	}
}

func summaryKey(userID int64, month core.Month) string {
	return fmt.Sprintf("%d/%s", userID, month)
}

// ComputeMonthlySummary is the pure aggregation step.
//
// Attribution rules: an entry's hours always count toward TotalHours. They
// land in the public-holiday bucket only when logged on a public holiday
// against the Holiday project, and in the workday bucket only when logged on
// a workday against a non-Holiday project. Any other combination counts
// toward the total alone, so TotalHours reconciles to the literal entry sum
// while the buckets hold correctly attributed hours only.
func ComputeMonthlySummary(
	month core.Month,
	userID int64,
	entries []core.TimeEntry,
	roles map[int64]core.ProjectRole,
	calendar map[string]core.DayType,
	required float64,
) core.MonthlySummary {
	summary := core.MonthlySummary{Month: month, UserID: userID}
	totals := Aggregate(entries)

	for _, e := range entries {
		summary.Reported.TotalHours += e.Hours
		dayType, classified := calendar[e.Date.ISO()]
		if !classified {
			continue
		}
		onHoliday := roles[e.ProjectID] == core.RoleHoliday
		switch {
		case dayType == core.PublicHoliday && onHoliday:
			summary.Reported.PublicHolidaysHours += e.Hours
		case dayType == core.Workday && !onHoliday:
			summary.Reported.WorkdaysHours += e.Hours
		}
	}

	for _, day := range month.Days() {
		dayType, classified := calendar[day.ISO()]
		if !classified {
			// Unclassified days demand nothing and raise no issues.
			continue
		}
		key := day.ISO()
		switch dayType {
		case core.Workday:
			summary.Expected.WorkdaysHours += required
			credited := totals.ByDate[key] - totals.RoleHours(key, roles, core.RoleHoliday)
			if credited < required {
				summary.Issues.MissingWorkdayHours += required - credited
				summary.Issues.IncompleteWorkdays++
			}
		case core.PublicHoliday:
			summary.Expected.PublicHolidaysHours += required
			holidayHours := totals.RoleHours(key, roles, core.RoleHoliday)
			if holidayHours < required {
				summary.Issues.MissingPublicHolidayHours += required - holidayHours
				summary.Issues.IncompletePublicHolidays++
			}
		}
	}

	expectedTotal := summary.Expected.WorkdaysHours + summary.Expected.PublicHolidaysHours
	if over := summary.Reported.TotalHours - expectedTotal; over > 0 {
		summary.Issues.OvertimeHours = over
	}
	return summary
}

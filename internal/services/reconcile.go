package services

import (
	"context"
	"fmt"
	"log/slog"

	"ore/internal/core"
	"ore/internal/timesheet"
)

// ReconcileStore is what the reconciler needs from the collaborator. The
// replace itself must run in one transaction; both backends guarantee that.
type ReconcileStore interface {
	timesheet.EntryReplacer
	timesheet.ProjectReader
}

// DayChangedPublisher fans out a notification after a day was replaced.
// The AMQP client implements it; a nil publisher disables fan-out.
type DayChangedPublisher interface {
	PublishDayChanged(ctx context.Context, userID int64, date core.Date) error
}

// ReconcileService applies full-replace semantics for a user's day: the
// submitted segment list becomes the day's complete entry set.
type ReconcileService struct {
	store     ReconcileStore
	publisher DayChangedPublisher
	summaries *SummaryService
}

func NewReconcileService(store ReconcileStore, publisher DayChangedPublisher, summaries *SummaryService) *ReconcileService {
	return &ReconcileService{store: store, publisher: publisher, summaries: summaries}
}

// Reconcile validates every segment, then replaces all entries for
// (userID, date) with one entry per segment inside a single transaction.
// A validation failure on any segment aborts before anything is deleted,
// so a bad submission can never leave the day half-replaced or empty.
func (s *ReconcileService) Reconcile(ctx context.Context, userID int64, date core.Date, segments []core.Segment) ([]core.TimeEntry, error) {
	if err := date.Validate(); err != nil {
		return nil, err
	}

	projects, err := s.store.ProjectsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch authorized projects: %w", err)
	}
	authorized := make(map[int64]bool, len(projects))
	for _, p := range projects {
		authorized[p.ID] = true
	}

	// Validate-all before delete-all. Mutation starts only after every
	// segment has passed.
	replacement := make([]core.TimeEntry, 0, len(segments))
	for i, seg := range segments {
		if !authorized[seg.ProjectID] {
			return nil, fmt.Errorf("segment %d: %w: project %d", i, core.ErrUnauthorizedProject, seg.ProjectID)
		}
		hours, err := seg.Duration()
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		replacement = append(replacement, core.TimeEntry{
			UserID:    userID,
			ProjectID: seg.ProjectID,
			Date:      date,
			Hours:     hours,
			Comment:   seg.Comment,
		})
	}

	created, err := s.store.ReplaceDayEntries(ctx, userID, date, replacement)
	if err != nil {
		return nil, fmt.Errorf("replace entries for %s: %w", date, err)
	}

	if s.summaries != nil {
		s.summaries.Invalidate(userID, date.MonthOf())
	}

	// Fan-out is best effort; the replace already committed.
	if s.publisher != nil {
		if err := s.publisher.PublishDayChanged(ctx, userID, date); err != nil {
			slog.ErrorContext(ctx, "Failed to publish day-changed message",
				"user_id", userID,
				"date", date.ISO(),
				"error", err)
		}
	}

	slog.InfoContext(ctx, "Day reconciled",
		"user_id", userID,
		"date", date.ISO(),
		"segments", len(segments))
	return created, nil
}

package worker

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ore/internal/core"
	"ore/internal/services"
	"ore/internal/timesheet"
)

// Sender delivers a reminder digest. The telegram notifier implements it.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// ReminderStore is what the daily unreported check reads.
type ReminderStore interface {
	timesheet.EntryReader
	timesheet.CalendarReader
	timesheet.UserReader
}

// ReminderWorker checks, once per day, whether the previous day is still
// unreported for any active user and sends a single digest.
type ReminderWorker struct {
	store          ReminderStore
	sender         Sender
	required       float64
	maxConcurrency int
}

func NewReminderWorker(store ReminderStore, sender Sender, requiredDailyHours float64, maxConcurrency int) *ReminderWorker {
	if requiredDailyHours <= 0 {
		requiredDailyHours = services.DefaultRequiredDailyHours
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &ReminderWorker{
		store:          store,
		sender:         sender,
		required:       requiredDailyHours,
		maxConcurrency: maxConcurrency,
	}
}

// shortfall is one user's missing hours for the checked date.
type shortfall struct {
	user  core.User
	hours float64
}

// RunDailyCheck inspects the day before now and notifies about every active
// user whose reported total is below the required threshold. Days that are
// weekends or unclassified demand nothing and produce no digest.
func (w *ReminderWorker) RunDailyCheck(ctx context.Context, now time.Time) (int, error) {
	date := core.DateOf(now).AddDays(-1)

	calendar, err := w.store.CalendarByDateRange(ctx, date, date)
	if err != nil {
		return 0, fmt.Errorf("fetch calendar for %s: %w", date, err)
	}
	dayType, classified := services.DayTypes(calendar)[date.ISO()]
	if !classified || !dayType.RequiresHours() {
		return 0, nil
	}

	users, err := w.store.ActiveUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch active users: %w", err)
	}

	var mu sync.Mutex
	var missing []shortfall

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.maxConcurrency)
	for _, user := range users {
		g.Go(func() error {
			entries, err := w.store.EntriesByUserAndDateRange(gctx, user.ID, date, date)
			if err != nil {
				return fmt.Errorf("entries for user %d: %w", user.ID, err)
			}
			var total float64
			for _, e := range entries {
				total += e.Hours
			}
			if total < w.required {
				mu.Lock()
				missing = append(missing, shortfall{user: user, hours: w.required - total})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if len(missing) == 0 || w.sender == nil {
		return len(missing), nil
	}

	sort.Slice(missing, func(i, j int) bool { return missing[i].user.Name < missing[j].user.Name })
	if err := w.sender.Send(ctx, digest(date, dayType, missing)); err != nil {
		return len(missing), fmt.Errorf("send reminder digest: %w", err)
	}
	return len(missing), nil
}

func digest(date core.Date, dayType core.DayType, missing []shortfall) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>Unreported hours for %s</b> (%s)\n", date.ISO(), dayType))
	for _, m := range missing {
		b.WriteString(fmt.Sprintf("• %s: %s short\n", html.EscapeString(m.user.Name), core.FormatHours(m.hours)))
	}
	return strings.TrimSpace(b.String())
}

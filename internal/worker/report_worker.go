package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ore/internal/amqp"
	"ore/internal/core"
	"ore/internal/export"
	"ore/internal/services"
)

// ReportWorker reacts to day-changed messages: it recomputes the affected
// user's monthly summary and pushes it to the export sink.
type ReportWorker struct {
	summaries *services.SummaryService
	sink      export.SummaryWriter
}

func NewReportWorker(summaries *services.SummaryService, sink export.SummaryWriter) *ReportWorker {
	return &ReportWorker{summaries: summaries, sink: sink}
}

// HandleDayChanged processes a single day-changed message. Returning an
// error requeues the message.
func (w *ReportWorker) HandleDayChanged(ctx context.Context, msg *amqp.DayChangedMessage) error {
	date, err := core.ParseDate(msg.Date)
	if err != nil {
		// Malformed payloads can never succeed; log and drop.
		slog.ErrorContext(ctx, "Day-changed message carries bad date",
			"date", msg.Date, "user_id", msg.UserID, "error", err)
		return nil
	}

	// The reconciler already invalidated the cache, so this recomputes.
	summary, err := w.summaries.Summarize(ctx, date, msg.UserID)
	if err != nil {
		return fmt.Errorf("summarize user %d for %s: %w", msg.UserID, date, err)
	}

	if w.sink == nil {
		slog.WarnContext(ctx, "No export sink configured, skipping summary export",
			"user_id", msg.UserID, "month", summary.Month.String())
		return nil
	}

	if err := w.sink.AppendSummary(ctx, summary); err != nil {
		return fmt.Errorf("export summary: %w", err)
	}
	return nil
}

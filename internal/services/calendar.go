package services

import (
	"context"
	"fmt"

	"ore/internal/core"
	"ore/internal/timesheet"
)

// CalendarService resolves month classifications from the calendar store.
type CalendarService struct {
	store timesheet.CalendarReader
}

func NewCalendarService(store timesheet.CalendarReader) *CalendarService {
	return &CalendarService{store: store}
}

// Classify maps every classified date of the month to its day type. Dates
// without a stored row are absent from the map; store errors propagate.
func (s *CalendarService) Classify(ctx context.Context, month core.Month) (map[string]core.DayType, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.store.CalendarByDateRange(ctx, month.First(), month.Last())
	if err != nil {
		return nil, fmt.Errorf("fetch calendar for %s: %w", month, err)
	}
	return DayTypes(rows), nil
}

// DayTypes indexes calendar rows by ISO date.
func DayTypes(rows []core.CalendarDay) map[string]core.DayType {
	types := make(map[string]core.DayType, len(rows))
	for _, row := range rows {
		types[row.Date.ISO()] = row.Type
	}
	return types
}

// CalendarEditor additionally writes classifications; used by admin tooling.
type CalendarEditor struct {
	*CalendarService
	writer timesheet.CalendarWriter
}

func NewCalendarEditor(store interface {
	timesheet.CalendarReader
	timesheet.CalendarWriter
}) *CalendarEditor {
	return &CalendarEditor{
		CalendarService: NewCalendarService(store),
		writer:          store,
	}
}

// SetDay classifies a single date.
func (s *CalendarEditor) SetDay(ctx context.Context, date core.Date, t core.DayType) error {
	if err := date.Validate(); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	return s.writer.UpsertCalendarDay(ctx, core.CalendarDay{Date: date, Type: t})
}

// MarkWeekends classifies every Saturday and Sunday of the month as weekend,
// leaving already classified dates untouched. Returns the number of days
// written.
func (s *CalendarEditor) MarkWeekends(ctx context.Context, month core.Month) (int, error) {
	existing, err := s.Classify(ctx, month)
	if err != nil {
		return 0, err
	}
	written := 0
	for _, day := range month.Days() {
		if !day.IsWeekend() {
			continue
		}
		if _, ok := existing[day.ISO()]; ok {
			continue
		}
		if err := s.writer.UpsertCalendarDay(ctx, core.CalendarDay{Date: day, Type: core.Weekend}); err != nil {
			return written, fmt.Errorf("mark %s: %w", day, err)
		}
		written++
	}
	return written, nil
}

package export

import (
	"context"

	"ore/internal/core"
)

// SummaryWriter is the outbound port for pushing computed monthly summaries
// to an external sink.
type SummaryWriter interface {
	AppendSummary(ctx context.Context, summary core.MonthlySummary) error
}

// Package worker consumes projection analytics events and stores them.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"savings/internal/amqp"
	"savings/internal/storage"
)

// Recorder stores events and reports aggregates.
// *storage.SQLiteRepository implements it.
type Recorder interface {
	RecordProjectionEvent(ctx context.Context, ev *amqp.ProjectionEvent) error
	ProjectionStats(ctx context.Context) (storage.Stats, error)
}

type AnalyticsWorker struct {
	recorder Recorder
}

func NewAnalyticsWorker(recorder Recorder) *AnalyticsWorker {
	return &AnalyticsWorker{recorder: recorder}
}

// HandleProjection is the amqp.Handler for projection events. Errors cause
// the message to be requeued.
func (w *AnalyticsWorker) HandleProjection(ctx context.Context, ev *amqp.ProjectionEvent) error {
	if err := w.recorder.RecordProjectionEvent(ctx, ev); err != nil {
		return fmt.Errorf("record projection event: %w", err)
	}
	slog.InfoContext(ctx, "Projection event stored",
		"total_months", ev.TotalMonths,
		"final_total", ev.FinalTotal,
		"currency", ev.Currency,
		"lang", ev.Language)
	return nil
}

// ReportStats logs the aggregate statistics every interval until ctx is
// cancelled. It returns nil on cancellation.
func (w *AnalyticsWorker) ReportStats(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.logStats(ctx)
		}
	}
}

func (w *AnalyticsWorker) logStats(ctx context.Context) {
	stats, err := w.recorder.ProjectionStats(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load projection stats", "error", err)
		return
	}
	slog.InfoContext(ctx, "Projection stats",
		"count", stats.Count,
		"avg_final_total", stats.AvgFinalTotal,
		"avg_total_months", stats.AvgTotalMonths,
		"last_recorded_at", stats.LastRecordedAt)
}

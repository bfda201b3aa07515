// Package worker refreshes the SQLite snapshot from the upstream expense
// source, on request or on a schedule.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendview/internal/amqp"
	"spendview/internal/source"
	"spendview/internal/storage"
)

type RefreshWorker struct {
	upstream source.ExpenseLoader
	storage  *storage.SQLiteRepository
	maxAge   time.Duration
}

func NewRefreshWorker(upstream source.ExpenseLoader, storage *storage.SQLiteRepository, maxAge time.Duration) *RefreshWorker {
	return &RefreshWorker{
		upstream: upstream,
		storage:  storage,
		maxAge:   maxAge,
	}
}

// Refresh fetches the upstream dataset and replaces the snapshot. The raw
// rows are stored; cleaning happens at analysis time so rule changes apply
// to existing snapshots.
func (w *RefreshWorker) Refresh(ctx context.Context) error {
	start := time.Now()

	rows, err := w.upstream.LoadExpenses(ctx)
	if err != nil {
		return fmt.Errorf("load upstream expenses: %w", err)
	}

	src := "upstream"
	if d, ok := w.upstream.(source.Describer); ok {
		src = d.Describe()
	}

	if err := w.storage.ReplaceSnapshot(ctx, rows, src, time.Now().UTC()); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot refreshed",
		"source", src,
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

// HandleRefreshRequest processes a single refresh request from AMQP.
func (w *RefreshWorker) HandleRefreshRequest(ctx context.Context, msg *amqp.RefreshRequestMessage) error {
	slog.InfoContext(ctx, "Processing refresh request",
		"requested_by", msg.RequestedBy,
		"reason", msg.Reason,
		"requested_at", msg.Timestamp.Format(time.RFC3339))
	return w.Refresh(ctx)
}

// StartupCheck refreshes the snapshot when it is missing or older than the
// configured maximum age. Useful to recover from missed messages or worker
// downtime.
func (w *RefreshWorker) StartupCheck(ctx context.Context) error {
	age, ok := w.storage.Age(ctx)
	if ok && age <= w.maxAge {
		slog.InfoContext(ctx, "Snapshot is fresh", "age", age.Round(time.Minute))
		return nil
	}
	if ok {
		slog.InfoContext(ctx, "Snapshot is stale, refreshing", "age", age.Round(time.Minute), "max_age", w.maxAge)
	} else {
		slog.InfoContext(ctx, "No snapshot found, performing initial refresh")
	}
	return w.Refresh(ctx)
}

package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/metrics"
	"fintrack/internal/sheets"
)

// TransactionGetter reads one transaction from storage.
type TransactionGetter interface {
	Get(ctx context.Context, id string) (core.Transaction, error)
}

// ExportWorker turns transaction change events into spreadsheet rows.
// Events carry only the id; the worker loads the current row from storage
// so the export always reflects the latest state.
type ExportWorker struct {
	storage  TransactionGetter
	appender sheets.TransactionAppender
	metrics  *metrics.Metrics
}

func NewExportWorker(storage TransactionGetter, appender sheets.TransactionAppender, m *metrics.Metrics) *ExportWorker {
	if m == nil {
		m = metrics.New()
	}
	return &ExportWorker{storage: storage, appender: appender, metrics: m}
}

// HandleEvent processes one change event. Returning an error makes the
// consumer nack with requeue, so only retryable failures may error out.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	switch event.Op {
	case amqp.OpCreated, amqp.OpUpdated:
		return w.exportRow(ctx, event)
	case amqp.OpDeleted:
		// The export sheet is an append-only journal; deletions are logged
		// and left for manual reconciliation.
		slog.InfoContext(ctx, "Transaction deleted upstream, sheet row kept",
			"id", event.ID)
		w.metrics.ExportsTotal.WithLabelValues("skipped").Inc()
		return nil
	default:
		slog.WarnContext(ctx, "Unknown event op, dropping", "op", event.Op, "id", event.ID)
		w.metrics.ExportsTotal.WithLabelValues("skipped").Inc()
		return nil
	}
}

func (w *ExportWorker) exportRow(ctx context.Context, event *amqp.TransactionEvent) error {
	t, err := w.storage.Get(ctx, event.ID)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted between publish and consume; nothing to export.
		slog.WarnContext(ctx, "Transaction vanished before export", "id", event.ID)
		w.metrics.ExportsTotal.WithLabelValues("skipped").Inc()
		return nil
	}
	if err != nil {
		w.metrics.ExportsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("load transaction %s: %w", event.ID, err)
	}

	// A stale event for an already-superseded version still exports the
	// current row, which is what the sheet should show.
	if t.Version > event.Version {
		slog.DebugContext(ctx, "Event version superseded, exporting current row",
			"id", event.ID, "event_version", event.Version, "current_version", t.Version)
	}

	if err := w.appender.AppendTransaction(ctx, t); err != nil {
		w.metrics.ExportsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("export transaction %s: %w", event.ID, err)
	}
	w.metrics.ExportsTotal.WithLabelValues("exported").Inc()
	return nil
}

// Package worker drains the sheet-export queue: it reads saved reports
// from SQLite and appends them to the Google sheet, off the save path.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"setoran/internal/amqp"
	"setoran/internal/core"
	"setoran/internal/metrics"
	"setoran/internal/sheets"
	"setoran/internal/storage"
)

// Storage is the slice of the SQLite repository the worker touches.
type Storage interface {
	GetReport(ctx context.Context, id string) (core.Report, error)
	GetPendingSyncReports(ctx context.Context, limit int) ([]storage.PendingSyncReport, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string) error
}

// SyncWorker exports reports from SQLite to Google Sheets.
type SyncWorker struct {
	storage   Storage
	sheets    sheets.ReportAppender
	batchSize int
}

func NewSyncWorker(st Storage, appender sheets.ReportAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   st,
		sheets:    appender,
		batchSize: batchSize,
	}
}

// HandleSyncMessage exports the report named by one queue message. A
// version older than the stored row means the message was superseded by
// an overwrite; the newer version has its own message, so the stale one
// is dropped without an export.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ReportSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"report_id", msg.ID,
		"version", msg.Version)

	rep, err := w.storage.GetReport(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get report from storage: %w", err)
	}

	if msg.Version < rep.Version {
		slog.InfoContext(ctx, "Skipping stale sync message",
			"report_id", msg.ID,
			"message_version", msg.Version,
			"stored_version", rep.Version)
		return nil
	}

	if err := w.exportReport(ctx, rep); err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	return nil
}

// ProcessPendingReports exports reports the queue missed. This is the
// backup path for lost messages and broker downtime.
func (w *SyncWorker) ProcessPendingReports(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck drains the backlog accumulated while the worker was
// down, with a larger batch than the periodic pass.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize*5)
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) error {
	pending, err := w.storage.GetPendingSyncReports(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending reports: %w", err)
	}
	metrics.PendingSyncReports.Set(float64(len(pending)))

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending reports", "count", len(pending))

	synced := 0
	for _, p := range pending {
		rep, err := w.storage.GetReport(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load pending report",
				"report_id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error",
					"report_id", p.ID, "error", err)
			}
			continue
		}

		if err := w.exportReport(ctx, rep); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending report",
				"report_id", p.ID, "error", err)
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Pending pass completed",
		"total", len(pending),
		"synced", synced)
	return nil
}

func (w *SyncWorker) exportReport(ctx context.Context, rep core.Report) error {
	if err := w.sheets.AppendReport(ctx, rep); err != nil {
		metrics.SyncResults.WithLabelValues("error").Inc()
		if markErr := w.storage.MarkSyncError(ctx, rep.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"report_id", rep.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, rep.ID); err != nil {
		// The export itself worked, so the message is still acked.
		slog.ErrorContext(ctx, "Failed to mark report as synced",
			"report_id", rep.ID, "error", err)
	}

	metrics.SyncResults.WithLabelValues("ok").Inc()
	slog.InfoContext(ctx, "Report exported to sheet",
		"report_id", rep.ID,
		"version", rep.Version)
	return nil
}

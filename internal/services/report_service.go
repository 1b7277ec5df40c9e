// Package services orchestrates a report save across storage, the sync
// queue and the share notifier.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"setoran/internal/auth"
	"setoran/internal/core"
	"setoran/internal/metrics"
	"setoran/internal/notify"
	"setoran/internal/store"
)

// Store is the slice of the storage surface a save touches.
type Store interface {
	store.ReportUpserter
	store.PUItemReplacer
	store.ProfileWriter
}

// SyncPublisher enqueues a saved report for sheet export.
type SyncPublisher interface {
	PublishReportSync(ctx context.Context, id string, version int64) error
}

// SaveResult is what the handler renders after a successful save.
type SaveResult struct {
	Report    core.Report
	ShareText string
	Shared    bool
}

// ReportService saves reports. Only the storage upsert can fail a save;
// PU lines, profile, queue publish and share are best effort.
type ReportService struct {
	store     Store
	publisher SyncPublisher
	notifier  notify.Notifier
	now       func() time.Time
}

func NewReportService(st Store, publisher SyncPublisher, notifier notify.Notifier) *ReportService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &ReportService{
		store:     st,
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Save persists the form input as a report owned by the principal.
// Saving the same day and shift twice overwrites the earlier row.
func (s *ReportService) Save(ctx context.Context, p auth.Principal, in core.ReportInput) (SaveResult, error) {
	if p.ID == "" {
		metrics.SaveFailures.WithLabelValues("auth").Inc()
		return SaveResult{}, auth.ErrNotAuthenticated
	}
	if err := in.Shift.Validate(); err != nil {
		metrics.SaveFailures.WithLabelValues("input").Inc()
		return SaveResult{}, err
	}

	in.NomorAwal.Reconcile()
	in.NomorAkhir.Reconcile()

	rep := core.BuildReport(in, p.ID, s.now())
	saved, err := s.store.UpsertReport(ctx, rep)
	if err != nil {
		metrics.SaveFailures.WithLabelValues("upsert").Inc()
		return SaveResult{}, fmt.Errorf("save report: %w", err)
	}
	metrics.ReportsSaved.Inc()

	if err := s.store.UpsertProfile(ctx, p.ID, p.Name); err != nil {
		slog.WarnContext(ctx, "Failed to upsert profile",
			"user_id", p.ID, "error", err)
	}
	if err := s.store.ReplacePUItems(ctx, saved, in.PUItems); err != nil {
		slog.WarnContext(ctx, "Failed to replace PU items",
			"report_id", saved.ID, "error", err)
	}

	s.publishSync(ctx, saved)

	result := SaveResult{
		Report:    saved,
		ShareText: core.BuildShareText(in, core.Derive(in)),
	}
	result.Shared = s.share(ctx, result.ShareText)
	return result, nil
}

func (s *ReportService) publishSync(ctx context.Context, rep core.Report) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping sync message",
			"report_id", rep.ID)
		return
	}
	if err := s.publisher.PublishReportSync(ctx, rep.ID, rep.Version); err != nil {
		// The report is saved locally; the periodic worker pass picks
		// it up even without the message.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"report_id", rep.ID, "error", err)
	}
}

func (s *ReportService) share(ctx context.Context, text string) bool {
	if !s.notifier.Available() {
		s.notifier.Share(ctx, text)
		return false
	}
	if err := s.notifier.Share(ctx, text); err != nil {
		metrics.SharesSent.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "Failed to share report", "error", err)
		return false
	}
	metrics.SharesSent.WithLabelValues("ok").Inc()
	return true
}

// Close releases the storage and queue connections the service owns.
func (s *ReportService) Close() error {
	var errs []error
	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close report service: %v", errs)
	}
	return nil
}

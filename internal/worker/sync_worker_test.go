package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"setoran/internal/amqp"
	"setoran/internal/core"
	"setoran/internal/storage"
	"setoran/internal/store"
)

type fakeStorage struct {
	reports    map[string]core.Report
	pending    []storage.PendingSyncReport
	synced     []string
	syncErrors []string
}

func (f *fakeStorage) GetReport(ctx context.Context, id string) (core.Report, error) {
	rep, ok := f.reports[id]
	if !ok {
		return core.Report{}, store.ErrNotFound
	}
	return rep, nil
}

func (f *fakeStorage) GetPendingSyncReports(ctx context.Context, limit int) ([]storage.PendingSyncReport, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	return f.pending[:limit], nil
}

func (f *fakeStorage) MarkSynced(ctx context.Context, id string) error {
	f.synced = append(f.synced, id)
	return nil
}

func (f *fakeStorage) MarkSyncError(ctx context.Context, id string) error {
	f.syncErrors = append(f.syncErrors, id)
	return nil
}

type fakeAppender struct {
	appended []core.Report
	err      error
}

func (f *fakeAppender) AppendReport(ctx context.Context, r core.Report) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, r)
	return nil
}

func storedReport(id string, version int64) core.Report {
	return core.Report{
		ID:               id,
		Tanggal:          "Sabtu, 29 Agustus 2026",
		Shift:            1,
		TotalSetoran:     703_455,
		TotalKeseluruhan: 626_955,
		Version:          version,
	}
}

func TestHandleSyncMessageExports(t *testing.T) {
	st := &fakeStorage{reports: map[string]core.Report{
		"20260829-1": storedReport("20260829-1", 1),
	}}
	app := &fakeAppender{}
	w := NewSyncWorker(st, app, 10)

	msg := &amqp.ReportSyncMessage{ID: "20260829-1", Version: 1, Timestamp: time.Now()}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(app.appended) != 1 || app.appended[0].ID != "20260829-1" {
		t.Errorf("appended = %+v", app.appended)
	}
	if len(st.synced) != 1 || st.synced[0] != "20260829-1" {
		t.Errorf("synced = %v", st.synced)
	}
}

func TestHandleSyncMessageSkipsStaleVersion(t *testing.T) {
	st := &fakeStorage{reports: map[string]core.Report{
		"20260829-1": storedReport("20260829-1", 3),
	}}
	app := &fakeAppender{}
	w := NewSyncWorker(st, app, 10)

	msg := &amqp.ReportSyncMessage{ID: "20260829-1", Version: 1}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("stale message should be dropped without error, got %v", err)
	}
	if len(app.appended) != 0 {
		t.Errorf("stale message must not export, appended %+v", app.appended)
	}
}

func TestHandleSyncMessageMissingReport(t *testing.T) {
	st := &fakeStorage{reports: map[string]core.Report{}}
	w := NewSyncWorker(st, &fakeAppender{}, 10)

	msg := &amqp.ReportSyncMessage{ID: "20260829-1", Version: 1}
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("missing report should error so the delivery is requeued")
	}
}

func TestHandleSyncMessageAppendFailureMarksError(t *testing.T) {
	st := &fakeStorage{reports: map[string]core.Report{
		"20260829-1": storedReport("20260829-1", 1),
	}}
	app := &fakeAppender{err: errors.New("quota exceeded")}
	w := NewSyncWorker(st, app, 10)

	msg := &amqp.ReportSyncMessage{ID: "20260829-1", Version: 1}
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("append failure should surface")
	}
	if len(st.syncErrors) != 1 {
		t.Errorf("sync error not recorded: %v", st.syncErrors)
	}
}

func TestProcessPendingReports(t *testing.T) {
	st := &fakeStorage{
		reports: map[string]core.Report{
			"20260829-1": storedReport("20260829-1", 1),
			"20260829-2": storedReport("20260829-2", 1),
		},
		pending: []storage.PendingSyncReport{
			{ID: "20260829-1", Version: 1},
			{ID: "20260829-2", Version: 1},
			{ID: "20260830-1", Version: 1}, // row vanished
		},
	}
	app := &fakeAppender{}
	w := NewSyncWorker(st, app, 10)

	if err := w.ProcessPendingReports(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}

	if len(app.appended) != 2 {
		t.Errorf("appended %d reports, want 2", len(app.appended))
	}
	if len(st.syncErrors) != 1 || st.syncErrors[0] != "20260830-1" {
		t.Errorf("missing row should be parked, syncErrors = %v", st.syncErrors)
	}
}

func TestProcessPendingReportsRespectsBatchSize(t *testing.T) {
	st := &fakeStorage{
		reports: map[string]core.Report{
			"a": storedReport("a", 1),
			"b": storedReport("b", 1),
		},
		pending: []storage.PendingSyncReport{
			{ID: "a", Version: 1},
			{ID: "b", Version: 1},
		},
	}
	app := &fakeAppender{}
	w := NewSyncWorker(st, app, 1)

	if err := w.ProcessPendingReports(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(app.appended) != 1 {
		t.Errorf("batch size 1 should export 1 report, got %d", len(app.appended))
	}
}

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"setoran/internal/core"
	"setoran/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "setoran.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testReport(id string, total int64) core.Report {
	return core.Report{
		ID:               id,
		UserID:           "user-1",
		Tanggal:          "Sabtu, 29 Agustus 2026",
		Shift:            1,
		JamKerja:         "07:00 - 14:00",
		NomorAwal:        1192.86,
		NomorAkhir:       1254.03,
		TotalLiter:       61.17,
		TotalSetoran:     total,
		QRIS:             26_500,
		Cash:             total - 26_500,
		PU:               50_000,
		TotalKeseluruhan: total - 76_500,
	}
}

func TestUpsertReportOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.UpsertReport(ctx, testReport("20260829-1", 703_455))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.Version != 1 {
		t.Errorf("first version = %d", first.Version)
	}

	second, err := repo.UpsertReport(ctx, testReport("20260829-1", 800_000))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.Version != 2 {
		t.Errorf("second version = %d", second.Version)
	}
	if second.TotalSetoran != 800_000 {
		t.Errorf("total_setoran = %d, want overwrite", second.TotalSetoran)
	}

	rows, err := repo.ListReports(ctx, store.ReportSort{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("same date and shift saved twice must keep one record, got %d", len(rows))
	}
}

func TestGetReportNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetReport(context.Background(), "20260101-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListReportsOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, r := range []core.Report{testReport("20260829-1", 703_455), testReport("20260829-2", 500_000)} {
		if _, err := repo.UpsertReport(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := repo.ListReports(ctx, store.ReportSort{Column: "total_setoran", Ascending: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].TotalSetoran != 500_000 {
		t.Errorf("ascending by total_setoran got %+v", rows)
	}

	// Hostile column names fall back to the default ordering instead of
	// reaching the SQL text.
	if _, err := repo.ListReports(ctx, store.ReportSort{Column: "1; DROP TABLE laporan_harian"}); err != nil {
		t.Errorf("hostile sort column should be normalized, got %v", err)
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rep := testReport("20260829-1", 703_455)
	if _, err := repo.UpsertReport(ctx, rep); err != nil {
		t.Fatal(err)
	}

	pending, err := repo.GetPendingSyncReports(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != rep.ID {
		t.Fatalf("want one pending report, got %+v", pending)
	}

	if err := repo.MarkSynced(ctx, rep.ID); err != nil {
		t.Fatal(err)
	}
	pending, err = repo.GetPendingSyncReports(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatalf("synced report still pending: %+v", pending)
	}

	// An overwrite re-queues the report.
	if _, err := repo.UpsertReport(ctx, rep); err != nil {
		t.Fatal(err)
	}
	pending, err = repo.GetPendingSyncReports(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("overwrite should re-queue, got %+v", pending)
	}

	// A sync error parks it.
	if err := repo.MarkSyncError(ctx, rep.ID); err != nil {
		t.Fatal(err)
	}
	pending, err = repo.GetPendingSyncReports(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatalf("errored report should not be retried, got %+v", pending)
	}
}

func TestReplacePUItemsAndListing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rep := testReport("20260829-1", 703_455)
	if _, err := repo.UpsertReport(ctx, rep); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpsertProfile(ctx, rep.UserID, "Budi"); err != nil {
		t.Fatal(err)
	}

	items := []core.PUItem{
		{Keterangan: "minum", Nominal: 20_000},
		{Keterangan: "makan", Nominal: 30_000},
	}
	if err := repo.ReplacePUItems(ctx, rep, items); err != nil {
		t.Fatalf("replace: %v", err)
	}
	// Saving again must replace, not append.
	if err := repo.ReplacePUItems(ctx, rep, items); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	rows, err := repo.ListPUItems(ctx, store.PUSort{Column: "nominal", Ascending: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 pu rows, got %d", len(rows))
	}
	if rows[0].Nominal != 20_000 || rows[1].Nominal != 30_000 {
		t.Errorf("ascending by nominal got %d, %d", rows[0].Nominal, rows[1].Nominal)
	}
	if rows[0].ProfileName != "Budi" {
		t.Errorf("profile name not joined: %+v", rows[0])
	}
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"setoran/internal/core"
	"setoran/internal/store"
)

func testReport(id string, shift int, total int64) core.Report {
	return core.Report{
		ID:               id,
		UserID:           "user-1",
		Tanggal:          "Sabtu, 29 Agustus 2026",
		Shift:            shift,
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

func TestUpsertReportIsIdempotentOnID(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.UpsertReport(ctx, testReport("20260829-1", 1, 703_455))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.Version != 1 {
		t.Errorf("first version = %d", first.Version)
	}

	second, err := s.UpsertReport(ctx, testReport("20260829-1", 1, 800_000))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.Version != 2 {
		t.Errorf("second version = %d", second.Version)
	}

	rows, err := s.ListReports(ctx, store.ReportSort{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want exactly one persisted record, got %d", len(rows))
	}
	if rows[0].TotalSetoran != 800_000 {
		t.Errorf("overwrite lost: total_setoran = %d", rows[0].TotalSetoran)
	}
}

func TestGetReportNotFound(t *testing.T) {
	s := New()
	_, err := s.GetReport(context.Background(), "20260829-2")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListReportsSorting(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.now = func() time.Time { return time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC) }
	if _, err := s.UpsertReport(ctx, testReport("20260829-1", 1, 703_455)); err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return time.Date(2026, 8, 29, 22, 0, 0, 0, time.UTC) }
	if _, err := s.UpsertReport(ctx, testReport("20260829-2", 2, 500_000)); err != nil {
		t.Fatal(err)
	}

	rows, err := s.ListReports(ctx, store.ReportSort{Column: "total_setoran", Ascending: true})
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].TotalSetoran != 500_000 || rows[1].TotalSetoran != 703_455 {
		t.Errorf("ascending by total_setoran got %d, %d", rows[0].TotalSetoran, rows[1].TotalSetoran)
	}

	// Unknown column falls back to newest-first.
	rows, err = s.ListReports(ctx, store.ReportSort{Column: "drop table"})
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].ID != "20260829-2" {
		t.Errorf("default sort should be newest first, got %s", rows[0].ID)
	}
}

func TestReplacePUItems(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := testReport("20260829-1", 1, 703_455)
	if _, err := s.UpsertReport(ctx, r); err != nil {
		t.Fatal(err)
	}

	items := []core.PUItem{
		{Keterangan: "minum", Nominal: 20_000},
		{Keterangan: "makan", Nominal: 30_000},
	}
	if err := s.ReplacePUItems(ctx, r, items); err != nil {
		t.Fatalf("replace: %v", err)
	}

	// A second save replaces the lines instead of appending.
	if err := s.ReplacePUItems(ctx, r, items[:1]); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	rows, err := s.ListPUItems(ctx, store.PUSort{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Keterangan != "minum" {
		t.Fatalf("want single 'minum' row after replace, got %+v", rows)
	}
	if rows[0].ReportID != r.ID || rows[0].Shift != 1 {
		t.Errorf("row not linked to report: %+v", rows[0])
	}
}

func TestListPUItemsJoinsProfileName(t *testing.T) {
	s := New()
	ctx := context.Background()
	r := testReport("20260829-1", 1, 703_455)
	if err := s.UpsertProfile(ctx, r.UserID, "Budi"); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplacePUItems(ctx, r, []core.PUItem{{Keterangan: "minum", Nominal: 20_000}}); err != nil {
		t.Fatal(err)
	}

	rows, err := s.ListPUItems(ctx, store.PUSort{Column: "nominal", Ascending: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ProfileName != "Budi" {
		t.Fatalf("want profile name joined, got %+v", rows)
	}
}

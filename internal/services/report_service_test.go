package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"setoran/internal/auth"
	"setoran/internal/core"
	"setoran/internal/store"
	"setoran/internal/store/memory"
)

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) PublishReportSync(ctx context.Context, id string, version int64) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, id)
	return nil
}

type fakeNotifier struct {
	shared []string
	err    error
}

func (f *fakeNotifier) Available() bool { return true }

func (f *fakeNotifier) Share(ctx context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.shared = append(f.shared, text)
	return nil
}

func sampleInput() core.ReportInput {
	in := core.ReportInput{
		Tanggal: "Sabtu, 29 Agustus 2026",
		Shift:   core.Shift1,
		QRIS:    26_500,
		PUItems: []core.PUItem{
			{Keterangan: "minum", Nominal: 20_000},
			{Keterangan: "makan", Nominal: 30_000},
		},
	}
	in.NomorAwal.SetText("1.192,86")
	in.NomorAkhir.SetText("1.254,03")
	return in
}

func operator() auth.Principal {
	return auth.Principal{
		ID:    auth.OperatorID("budi@example.com"),
		Email: "budi@example.com",
		Name:  "Budi",
	}
}

func newService(t *testing.T) (*ReportService, *memory.Store, *fakePublisher, *fakeNotifier) {
	t.Helper()
	st := memory.New()
	pub := &fakePublisher{}
	not := &fakeNotifier{}
	svc := NewReportService(st, pub, not)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	}
	return svc, st, pub, not
}

func TestSaveHappyPath(t *testing.T) {
	svc, st, pub, not := newService(t)

	result, err := svc.Save(context.Background(), operator(), sampleInput())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if result.Report.ID != "20260829-1" {
		t.Errorf("report id = %q", result.Report.ID)
	}
	if result.Report.TotalKeseluruhan != 626_955 {
		t.Errorf("total keseluruhan = %d, want 626955", result.Report.TotalKeseluruhan)
	}
	if !result.Shared {
		t.Error("share should succeed with a working notifier")
	}
	if !strings.Contains(result.ShareText, "Setoran Harian") {
		t.Errorf("share text missing header: %q", result.ShareText)
	}

	if len(pub.published) != 1 || pub.published[0] != "20260829-1" {
		t.Errorf("published = %v", pub.published)
	}
	if len(not.shared) != 1 {
		t.Errorf("shared = %d messages", len(not.shared))
	}

	items, err := st.ListPUItems(context.Background(), store.PUSort{})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Errorf("pu items persisted = %d, want 2", len(items))
	}
}

func TestSaveRequiresPrincipal(t *testing.T) {
	svc, _, _, _ := newService(t)

	if _, err := svc.Save(context.Background(), auth.Principal{}, sampleInput()); !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Errorf("want ErrNotAuthenticated, got %v", err)
	}
}

func TestSaveRejectsUnknownShift(t *testing.T) {
	svc, _, _, _ := newService(t)

	in := sampleInput()
	in.Shift = "3"
	if _, err := svc.Save(context.Background(), operator(), in); !errors.Is(err, core.ErrUnknownShift) {
		t.Errorf("want ErrUnknownShift, got %v", err)
	}
}

func TestSaveSameShiftTwiceOverwrites(t *testing.T) {
	svc, st, _, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Save(ctx, operator(), sampleInput()); err != nil {
		t.Fatal(err)
	}

	in := sampleInput()
	in.QRIS = 50_000
	second, err := svc.Save(ctx, operator(), in)
	if err != nil {
		t.Fatal(err)
	}
	if second.Report.Version != 2 {
		t.Errorf("version = %d, want 2", second.Report.Version)
	}

	rows, err := st.ListReports(ctx, store.ReportSort{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("want one row after overwrite, got %d", len(rows))
	}
	if rows[0].QRIS != 50_000 {
		t.Errorf("qris = %d, overwrite not applied", rows[0].QRIS)
	}
}

func TestSaveSurvivesPublishFailure(t *testing.T) {
	svc, _, pub, _ := newService(t)
	pub.err = errors.New("broker down")

	result, err := svc.Save(context.Background(), operator(), sampleInput())
	if err != nil {
		t.Fatalf("publish failure must not fail the save: %v", err)
	}
	if result.Report.ID == "" {
		t.Error("report not saved")
	}
}

func TestSaveSurvivesShareFailure(t *testing.T) {
	svc, _, _, not := newService(t)
	not.err = errors.New("telegram down")

	result, err := svc.Save(context.Background(), operator(), sampleInput())
	if err != nil {
		t.Fatalf("share failure must not fail the save: %v", err)
	}
	if result.Shared {
		t.Error("Shared should be false when the notifier errors")
	}
}

func TestSaveWithoutPublisher(t *testing.T) {
	st := memory.New()
	svc := NewReportService(st, nil, nil)

	if _, err := svc.Save(context.Background(), operator(), sampleInput()); err != nil {
		t.Fatalf("save without publisher and notifier: %v", err)
	}
}

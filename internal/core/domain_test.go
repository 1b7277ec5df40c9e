package core

import (
	"strings"
	"testing"
	"time"
)

func TestShiftJamKerja(t *testing.T) {
	if got := Shift1.JamKerja(); got != "07:00 - 14:00" {
		t.Errorf("shift 1 jam kerja = %q", got)
	}
	if got := Shift2.JamKerja(); got != "14:00 - 22:00" {
		t.Errorf("shift 2 jam kerja = %q", got)
	}
	// Anything else falls to the afternoon range.
	if got := Shift("9").JamKerja(); got != "14:00 - 22:00" {
		t.Errorf("unknown shift jam kerja = %q", got)
	}
}

func TestShiftValidate(t *testing.T) {
	if err := Shift1.Validate(); err != nil {
		t.Errorf("shift 1: %v", err)
	}
	if err := Shift("3").Validate(); err == nil {
		t.Error("shift 3 expected error")
	}
}

func TestReportID(t *testing.T) {
	at := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	if got := ReportID(at, Shift1); got != "20260829-1" {
		t.Errorf("ReportID = %q, want 20260829-1", got)
	}
	// Same day and shift, different clock time: same key.
	later := at.Add(3 * time.Hour)
	if ReportID(later, Shift1) != ReportID(at, Shift1) {
		t.Error("report id must be stable within a day+shift")
	}
}

func TestFormatTanggal(t *testing.T) {
	at := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC) // a Saturday
	if got := FormatTanggal(at); got != "Sabtu, 29 Agustus 2026" {
		t.Errorf("FormatTanggal = %q", got)
	}
}

func TestMeterReadingReconcile(t *testing.T) {
	var m MeterReading
	m.SetText("1.192,86")
	if m.Value != 0 {
		t.Fatalf("SetText must not touch the value, got %v", m.Value)
	}
	m.Reconcile()
	if m.Value != 1192.86 || m.RawText != "1192,86" {
		t.Errorf("after Reconcile: value=%v text=%q", m.Value, m.RawText)
	}
	// Reconciling the canonical text again is a no-op.
	m.Reconcile()
	if m.Value != 1192.86 || m.RawText != "1192,86" {
		t.Errorf("second Reconcile drifted: value=%v text=%q", m.Value, m.RawText)
	}
}

func TestBuildReport(t *testing.T) {
	now := time.Date(2026, 8, 29, 13, 45, 0, 0, time.UTC)
	r := BuildReport(sampleInput(), "user-1", now)

	if r.ID != "20260829-1" {
		t.Errorf("ID = %q", r.ID)
	}
	if r.Shift != 1 || r.JamKerja != "07:00 - 14:00" {
		t.Errorf("shift fields = %d %q", r.Shift, r.JamKerja)
	}
	if r.TotalSetoran != 703_455 || r.Cash != 676_955 || r.PU != 50_000 || r.TotalKeseluruhan != 626_955 {
		t.Errorf("derived snapshot wrong: %+v", r)
	}
	if r.UserID != "user-1" {
		t.Errorf("UserID = %q", r.UserID)
	}
}

func TestBuildShareText(t *testing.T) {
	in := sampleInput()
	text := BuildShareText(in, Derive(in))

	for _, want := range []string{
		"Setoran Harian",
		"Jam 1",
		"Nomor awal: 1192.86",
		"Nomor akhir: 1254.03",
		"Total liter: 61.17",
		"Cash: Rp 676.955",
		"Qris: Rp 26.500",
		"Total: Rp 703.455",
		"- minum: Rp 20.000",
		"- makan: Rp 30.000",
		"Total PU: Rp 50.000",
		"Total keseluruhan: Rp 626.955",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("share text missing %q:\n%s", want, text)
		}
	}
}

func TestBuildShareTextEmptyKeterangan(t *testing.T) {
	in := sampleInput()
	in.PUItems = []PUItem{{Nominal: 5_000}}
	text := BuildShareText(in, Derive(in))
	if !strings.Contains(text, "- -: Rp 5.000") {
		t.Errorf("empty description should render as dash:\n%s", text)
	}
}

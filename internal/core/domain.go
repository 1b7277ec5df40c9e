package core

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	Shift1 Shift = "1"
	Shift2 Shift = "2"
)

type (
	// Shift identifies one of the two fixed daily working periods.
	Shift string

	// MeterReading pairs the operator's raw text with its parsed value.
	// The value is always re-derivable from the text via ParseDecimal;
	// Reconcile keeps both sides in sync.
	MeterReading struct {
		RawText string
		Value   float64
	}

	// PUItem is one discretionary expense line (pengeluaran).
	PUItem struct {
		Keterangan string
		Nominal    int64 // whole Rupiah, never fractional
	}

	// ReportInput is the full entry-form state. It is mutated only by
	// the typed form operations in the presentation layer; Derive reads
	// it without side effects.
	ReportInput struct {
		Tanggal    string
		Shift      Shift
		NomorAwal  MeterReading
		NomorAkhir MeterReading
		QRIS       int64
		PUItems    []PUItem
	}

	// Report is the persisted shift report row, identity keyed by
	// ReportID so a second save for the same day and shift overwrites.
	Report struct {
		ID               string
		UserID           string
		Tanggal          string
		Shift            int
		JamKerja         string
		NomorAwal        float64
		NomorAkhir       float64
		TotalLiter       float64
		TotalSetoran     int64
		QRIS             int64
		Cash             int64
		PU               int64
		TotalKeseluruhan int64
		Version          int64
		CreatedAt        time.Time
		UpdatedAt        time.Time
	}
)

var ErrUnknownShift = errors.New("unknown shift")

var idMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var idWeekdays = [...]string{
	"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu",
}

// JamKerja returns the fixed time range for the shift. Shift "1" covers
// the morning; anything else falls to the afternoon range.
func (s Shift) JamKerja() string {
	if s == Shift1 {
		return "07:00 - 14:00"
	}
	return "14:00 - 22:00"
}

// Number returns the numeric shift code stored in the database.
func (s Shift) Number() int {
	if n, err := strconv.Atoi(string(s)); err == nil {
		return n
	}
	return 2
}

func (s Shift) Validate() error {
	if s != Shift1 && s != Shift2 {
		return fmt.Errorf("%w: %q", ErrUnknownShift, string(s))
	}
	return nil
}

// NewMeterReading builds a reading whose raw text is already canonical.
func NewMeterReading(value float64) MeterReading {
	return MeterReading{RawText: FormatMeter(value), Value: value}
}

// SetText replaces the raw text only, leaving the numeric value stale.
// This is the per-keystroke path; Reconcile is the blur path.
func (m *MeterReading) SetText(text string) {
	m.RawText = text
}

// Reconcile re-derives the numeric value from the raw text and rewrites
// the text in canonical form ("," as decimal separator).
func (m *MeterReading) Reconcile() {
	m.Value = ParseDecimal(m.RawText)
	m.RawText = FormatMeter(m.Value)
}

// ReportID derives the idempotent upsert key for a report saved at t:
// the compact ISO date joined to the shift code, e.g. "20260829-1".
func ReportID(t time.Time, shift Shift) string {
	return t.Format("20060102") + "-" + string(shift)
}

// FormatTanggal renders t as an id-ID long date, the display form the
// report stores: "Jumat, 29 Agustus 2026".
func FormatTanggal(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d",
		idWeekdays[t.Weekday()], t.Day(), idMonths[t.Month()-1], t.Year())
}

// BuildReport snapshots the input and its derived totals into the row
// that travels to storage.
func BuildReport(in ReportInput, userID string, now time.Time) Report {
	totals := Derive(in)
	return Report{
		ID:               ReportID(now, in.Shift),
		UserID:           userID,
		Tanggal:          in.Tanggal,
		Shift:            in.Shift.Number(),
		JamKerja:         in.Shift.JamKerja(),
		NomorAwal:        in.NomorAwal.Value,
		NomorAkhir:       in.NomorAkhir.Value,
		TotalLiter:       totals.TotalLiter,
		TotalSetoran:     totals.TotalSetoran,
		QRIS:             in.QRIS,
		Cash:             totals.Cash,
		PU:               totals.TotalPU,
		TotalKeseluruhan: totals.TotalKeseluruhan,
	}
}

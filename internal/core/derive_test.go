package core

import (
	"math"
	"testing"
)

func sampleInput() ReportInput {
	return ReportInput{
		Tanggal:    "Jumat, 29 Agustus 2026",
		Shift:      Shift1,
		NomorAwal:  NewMeterReading(1192.86),
		NomorAkhir: NewMeterReading(1254.03),
		QRIS:       26_500,
		PUItems: []PUItem{
			{Keterangan: "minum", Nominal: 20_000},
			{Keterangan: "makan", Nominal: 30_000},
		},
	}
}

func TestDerive(t *testing.T) {
	got := Derive(sampleInput())

	if math.Abs(got.TotalLiter-61.17) > 1e-9 {
		t.Errorf("TotalLiter = %v, want 61.17", got.TotalLiter)
	}
	if got.TotalSetoran != 703_455 {
		t.Errorf("TotalSetoran = %d, want 703455", got.TotalSetoran)
	}
	if got.Cash != 676_955 {
		t.Errorf("Cash = %d, want 676955", got.Cash)
	}
	if got.TotalPU != 50_000 {
		t.Errorf("TotalPU = %d, want 50000", got.TotalPU)
	}
	if got.TotalKeseluruhan != 626_955 {
		t.Errorf("TotalKeseluruhan = %d, want 626955", got.TotalKeseluruhan)
	}
}

func TestDeriveNegativeLiterFlowsThrough(t *testing.T) {
	in := sampleInput()
	in.NomorAwal, in.NomorAkhir = in.NomorAkhir, in.NomorAwal

	got := Derive(in)
	if got.TotalLiter >= 0 {
		t.Fatalf("TotalLiter = %v, want negative", got.TotalLiter)
	}
	if got.TotalSetoran >= 0 || got.Cash >= got.TotalSetoran {
		t.Errorf("negative volume must propagate: setoran=%d cash=%d", got.TotalSetoran, got.Cash)
	}
}

func TestSumPUOrderIndependent(t *testing.T) {
	a := []PUItem{{Nominal: 10_000}, {Nominal: 15_000}}
	b := []PUItem{{Nominal: 15_000}, {Nominal: 10_000}}
	if SumPU(a) != 25_000 || SumPU(b) != 25_000 {
		t.Errorf("SumPU = %d / %d, want 25000 both ways", SumPU(a), SumPU(b))
	}
	if SumPU(nil) != 0 {
		t.Errorf("SumPU(nil) = %d, want 0", SumPU(nil))
	}
}

func TestDeriveEmptyItemsCountAsZero(t *testing.T) {
	in := sampleInput()
	in.PUItems = append(in.PUItems, PUItem{})
	if got := Derive(in); got.TotalPU != 50_000 {
		t.Errorf("TotalPU = %d, want 50000 with an empty line present", got.TotalPU)
	}
}

package core

import "math"

// HargaPerLiter is the fixed per-liter price in whole Rupiah. It is not
// operator-editable.
const HargaPerLiter = 11_500

// Totals holds every derived report figure. All fields are recomputed
// from scratch on each call to Derive; nothing is cached.
type Totals struct {
	TotalLiter       float64
	TotalSetoran     int64
	Cash             int64
	TotalPU          int64
	TotalKeseluruhan int64
}

// Derive recomputes all derived figures from the current input state.
// Pure: no side effects, no I/O.
//
// A negative liter delta (end reading below start reading) is not
// rejected; it flows through into the downstream totals unchanged.
func Derive(in ReportInput) Totals {
	liter := in.NomorAkhir.Value - in.NomorAwal.Value
	setoran := int64(math.Round(liter * HargaPerLiter))
	cash := setoran - in.QRIS
	pu := SumPU(in.PUItems)

	return Totals{
		TotalLiter:       liter,
		TotalSetoran:     setoran,
		Cash:             cash,
		TotalPU:          pu,
		TotalKeseluruhan: cash - pu,
	}
}

// SumPU totals the expense lines. Order-independent.
func SumPU(items []PUItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Nominal
	}
	return sum
}

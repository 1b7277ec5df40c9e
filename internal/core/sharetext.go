package core

import (
	"strconv"
	"strings"
)

// BuildShareText renders the plain-text "Setoran Harian" summary that is
// handed to the share notifier after a save.
func BuildShareText(in ReportInput, t Totals) string {
	var b strings.Builder

	b.WriteString("Setoran Harian\n")
	b.WriteString(in.Tanggal + " Jam " + string(in.Shift) + "\n")
	b.WriteString("Nomor awal: " + strconv.FormatFloat(in.NomorAwal.Value, 'f', -1, 64) + "\n")
	b.WriteString("Nomor akhir: " + strconv.FormatFloat(in.NomorAkhir.Value, 'f', -1, 64) + "\n")
	b.WriteString("Total liter: " + FormatLiter(t.TotalLiter) + "\n\n")

	b.WriteString("Cash: Rp " + FormatNumber(t.Cash) + "\n")
	b.WriteString("Qris: Rp " + FormatNumber(in.QRIS) + "\n")
	b.WriteString("Total: Rp " + FormatNumber(t.TotalSetoran) + "\n\n")

	b.WriteString("PU:")
	for _, it := range in.PUItems {
		ket := it.Keterangan
		if ket == "" {
			ket = "-"
		}
		b.WriteString("\n- " + ket + ": Rp " + FormatNumber(it.Nominal))
	}
	b.WriteString("\nTotal PU: Rp " + FormatNumber(t.TotalPU) + "\n\n")

	b.WriteString("Total keseluruhan: Rp " + FormatNumber(t.TotalKeseluruhan))
	return b.String()
}

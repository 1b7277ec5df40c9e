package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"setoran/internal/core"
	"setoran/internal/store"
)

// sortParams reads the sort/dir query parameters. Unknown columns fall
// back to the store default inside Normalize.
func sortParams(r *http.Request) (string, bool) {
	column := strings.TrimSpace(r.URL.Query().Get("sort"))
	ascending := strings.EqualFold(r.URL.Query().Get("dir"), "asc")
	return column, ascending
}

type columnLink struct {
	Label  string
	URL    string
	Active bool
}

func columnLinks(base string, columns [][2]string, current string, ascending bool) []columnLink {
	links := make([]columnLink, 0, len(columns))
	for _, c := range columns {
		dir := "desc"
		if c[0] == current && !ascending {
			dir = "asc"
		}
		links = append(links, columnLink{
			Label:  c[1],
			URL:    base + "?sort=" + url.QueryEscape(c[0]) + "&dir=" + dir,
			Active: c[0] == current,
		})
	}
	return links
}

var reportColumns = [][2]string{
	{"created_at", "Dibuat"},
	{"tanggal", "Tanggal"},
	{"shift", "Shift"},
	{"total_liter", "Liter"},
	{"total_setoran", "Setoran"},
	{"qris", "QRIS"},
	{"cash", "Cash"},
	{"pu", "PU"},
	{"total_keseluruhan", "Keseluruhan"},
}

var puColumns = [][2]string{
	{"created_at", "Dibuat"},
	{"tanggal", "Tanggal"},
	{"shift", "Shift"},
	{"keterangan", "Keterangan"},
	{"nominal", "Nominal"},
}

func (s *Server) listReports(r *http.Request, column string, ascending bool) ([]store.ReportRow, error) {
	key := cacheKey(column, ascending)
	if rows, found := s.reportCache.Get(key); found {
		return rows, nil
	}

	rows, err := s.lister.ListReports(r.Context(), store.ReportSort{Column: column, Ascending: ascending})
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(key, rows)
	return rows, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(r); !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	column, ascending := sortParams(r)
	rows, err := s.listReports(r, column, ascending)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard listing error", "error", err)
		http.Error(w, "gagal memuat laporan", http.StatusInternalServerError)
		return
	}

	type viewRow struct {
		Dibuat      string
		Tanggal     string
		Shift       int
		JamKerja    string
		NomorAwal   string
		NomorAkhir  string
		TotalLiter  string
		Setoran     string
		QRIS        string
		Cash        string
		PU          string
		Keseluruhan string
		Operator    string
	}
	data := struct {
		Columns []columnLink
		Rows    []viewRow
		Count   int
	}{
		Columns: columnLinks("/dashboard", reportColumns, column, ascending),
		Count:   len(rows),
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, viewRow{
			Dibuat:      row.CreatedAt.Format("2006-01-02 15:04"),
			Tanggal:     row.Tanggal,
			Shift:       row.Shift,
			JamKerja:    row.JamKerja,
			NomorAwal:   core.FormatMeter(row.NomorAwal),
			NomorAkhir:  core.FormatMeter(row.NomorAkhir),
			TotalLiter:  core.FormatLiter(row.TotalLiter),
			Setoran:     core.FormatNumber(row.TotalSetoran),
			QRIS:        core.FormatNumber(row.QRIS),
			Cash:        core.FormatNumber(row.Cash),
			PU:          core.FormatNumber(row.PU),
			Keseluruhan: core.FormatNumber(row.TotalKeseluruhan),
			Operator:    row.ProfileName,
		})
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleDashboardPU(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(r); !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	column, ascending := sortParams(r)
	key := cacheKey(column, ascending)
	rows, found := s.puCache.Get(key)
	if !found {
		var err error
		rows, err = s.lister.ListPUItems(r.Context(), store.PUSort{Column: column, Ascending: ascending})
		if err != nil {
			slog.ErrorContext(r.Context(), "PU listing error", "error", err)
			http.Error(w, "gagal memuat data PU", http.StatusInternalServerError)
			return
		}
		s.puCache.Set(key, rows)
	}

	type viewRow struct {
		Dibuat     string
		Tanggal    string
		Shift      int
		Keterangan string
		Nominal    string
		Operator   string
	}
	var total int64
	data := struct {
		Columns []columnLink
		Rows    []viewRow
		Total   string
		Count   int
	}{
		Columns: columnLinks("/dashboard/pu", puColumns, column, ascending),
		Count:   len(rows),
	}
	for _, row := range rows {
		total += row.Nominal
		data.Rows = append(data.Rows, viewRow{
			Dibuat:     row.CreatedAt.Format("2006-01-02 15:04"),
			Tanggal:    row.Tanggal,
			Shift:      row.Shift,
			Keterangan: row.Keterangan,
			Nominal:    core.FormatNumber(row.Nominal),
			Operator:   row.ProfileName,
		})
	}
	data.Total = core.FormatNumber(total)

	if err := s.templates.ExecuteTemplate(w, "dashboard_pu.html", data); err != nil {
		slog.ErrorContext(r.Context(), "PU template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleExportXLSX streams every report as a spreadsheet download.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(r); !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	column, ascending := sortParams(r)
	rows, err := s.listReports(r, column, ascending)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export listing error", "error", err)
		http.Error(w, "gagal memuat laporan", http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	const sheetName = "Laporan"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export sheet error", "error", err)
		http.Error(w, "gagal membuat file", http.StatusInternalServerError)
		return
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Operator", "Tanggal", "Shift", "Jam Kerja",
		"Nomor Awal", "Nomor Akhir", "Total Liter", "Total Setoran",
		"QRIS", "Cash", "PU", "Total Keseluruhan",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, row := range rows {
		values := []any{
			row.ID, row.ProfileName, row.Tanggal, row.Shift, row.JamKerja,
			row.NomorAwal, row.NomorAkhir, row.TotalLiter, row.TotalSetoran,
			row.QRIS, row.Cash, row.PU, row.TotalKeseluruhan,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	filename := fmt.Sprintf("laporan-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(w); err != nil {
		slog.ErrorContext(r.Context(), "Export write error", "error", err)
	}
}

// Package storage persists reports in SQLite. It is the primary
// backend; saved rows are queued here for Google Sheets export and the
// worker flips the sync flags as it drains the queue.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"setoran/internal/core"
	"setoran/internal/store"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const reportColumns = `id, user_id, tanggal, shift, jam_kerja, nomor_awal, nomor_akhir,
	total_liter, total_setoran, qris, cash, pu, total_keseluruhan, version, created_at, updated_at`

// UpsertReport implements store.ReportUpserter. Saving the same id
// again overwrites the row, bumps its version and re-queues it for
// sheet export.
func (r *SQLiteRepository) UpsertReport(ctx context.Context, rep core.Report) (core.Report, error) {
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO laporan_harian (
			id, user_id, tanggal, shift, jam_kerja, nomor_awal, nomor_akhir,
			total_liter, total_setoran, qris, cash, pu, total_keseluruhan,
			version, synced, sync_error, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, 0, 0, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			user_id           = excluded.user_id,
			tanggal           = excluded.tanggal,
			shift             = excluded.shift,
			jam_kerja         = excluded.jam_kerja,
			nomor_awal        = excluded.nomor_awal,
			nomor_akhir       = excluded.nomor_akhir,
			total_liter       = excluded.total_liter,
			total_setoran     = excluded.total_setoran,
			qris              = excluded.qris,
			cash              = excluded.cash,
			pu                = excluded.pu,
			total_keseluruhan = excluded.total_keseluruhan,
			version           = laporan_harian.version + 1,
			synced            = 0,
			sync_error        = 0,
			updated_at        = excluded.updated_at`,
		rep.ID, rep.UserID, rep.Tanggal, rep.Shift, rep.JamKerja,
		rep.NomorAwal, rep.NomorAkhir, rep.TotalLiter, rep.TotalSetoran,
		rep.QRIS, rep.Cash, rep.PU, rep.TotalKeseluruhan, now, now)
	if err != nil {
		return core.Report{}, fmt.Errorf("upsert report: %w", err)
	}

	saved, err := r.GetReport(ctx, rep.ID)
	if err != nil {
		return core.Report{}, err
	}

	slog.InfoContext(ctx, "Report saved to SQLite",
		"report_id", saved.ID,
		"shift", saved.Shift,
		"version", saved.Version,
		"total_keseluruhan", saved.TotalKeseluruhan)
	return saved, nil
}

func (r *SQLiteRepository) GetReport(ctx context.Context, id string) (core.Report, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM laporan_harian WHERE id = ?`, id)

	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Report{}, fmt.Errorf("report %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return core.Report{}, fmt.Errorf("get report %s: %w", id, err)
	}
	return rep, nil
}

// ListReports implements store.ReportLister. The sort column is
// whitelisted by Normalize before it reaches the ORDER BY clause.
func (r *SQLiteRepository) ListReports(ctx context.Context, sortBy store.ReportSort) ([]store.ReportRow, error) {
	sortBy = sortBy.Normalize()
	query := fmt.Sprintf(`
		SELECT l.id, l.user_id, l.tanggal, l.shift, l.jam_kerja, l.nomor_awal, l.nomor_akhir,
		       l.total_liter, l.total_setoran, l.qris, l.cash, l.pu, l.total_keseluruhan,
		       l.version, l.created_at, l.updated_at, COALESCE(p.name, '')
		FROM laporan_harian l
		LEFT JOIN profiles p ON p.user_id = l.user_id
		ORDER BY l.%s %s`, sortBy.Column, store.Direction(sortBy.Ascending))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []store.ReportRow
	for rows.Next() {
		var rr store.ReportRow
		if err := rows.Scan(
			&rr.ID, &rr.UserID, &rr.Tanggal, &rr.Shift, &rr.JamKerja,
			&rr.NomorAwal, &rr.NomorAkhir, &rr.TotalLiter, &rr.TotalSetoran,
			&rr.QRIS, &rr.Cash, &rr.PU, &rr.TotalKeseluruhan,
			&rr.Version, &rr.CreatedAt, &rr.UpdatedAt, &rr.ProfileName,
		); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ReplacePUItems implements store.PUItemReplacer: the lines of one
// report are swapped wholesale, so a re-saved shift never duplicates
// its expense rows.
func (r *SQLiteRepository) ReplacePUItems(ctx context.Context, rep core.Report, items []core.PUItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pu replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pu_items WHERE report_id = ?`, rep.ID); err != nil {
		return fmt.Errorf("delete pu items: %w", err)
	}

	now := time.Now().UTC()
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pu_items (id, report_id, user_id, tanggal, shift, keterangan, nominal, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), rep.ID, rep.UserID, rep.Tanggal, rep.Shift,
			it.Keterangan, it.Nominal, now); err != nil {
			return fmt.Errorf("insert pu item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit pu replace: %w", err)
	}

	slog.InfoContext(ctx, "PU items replaced",
		"report_id", rep.ID,
		"count", len(items))
	return nil
}

func (r *SQLiteRepository) ListPUItems(ctx context.Context, sortBy store.PUSort) ([]store.PUItemRow, error) {
	sortBy = sortBy.Normalize()
	query := fmt.Sprintf(`
		SELECT i.id, i.report_id, i.user_id, COALESCE(p.name, ''), i.tanggal, i.shift,
		       i.keterangan, i.nominal, i.created_at
		FROM pu_items i
		LEFT JOIN profiles p ON p.user_id = i.user_id
		ORDER BY i.%s %s`, sortBy.Column, store.Direction(sortBy.Ascending))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pu items: %w", err)
	}
	defer rows.Close()

	var out []store.PUItemRow
	for rows.Next() {
		var it store.PUItemRow
		if err := rows.Scan(
			&it.ID, &it.ReportID, &it.UserID, &it.ProfileName, &it.Tanggal,
			&it.Shift, &it.Keterangan, &it.Nominal, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan pu item row: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpsertProfile(ctx context.Context, userID, name string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at`,
		userID, name, now, now)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// PendingSyncReport is the minimal row the export queue needs.
type PendingSyncReport struct {
	ID        string
	Version   int64
	UpdatedAt time.Time
}

// GetPendingSyncReports returns reports not yet exported to the sheet,
// oldest change first.
func (r *SQLiteRepository) GetPendingSyncReports(ctx context.Context, limit int) ([]PendingSyncReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version, updated_at
		FROM laporan_harian
		WHERE synced = 0 AND sync_error = 0
		ORDER BY updated_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync reports: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncReport
	for rows.Next() {
		var p PendingSyncReport
		if err := rows.Scan(&p.ID, &p.Version, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync report: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced records a successful sheet export.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE laporan_harian SET synced = 1, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark report synced: %w", err)
	}
	slog.InfoContext(ctx, "Report marked as synced", "report_id", id)
	return nil
}

// MarkSyncError parks the report so the periodic pass stops retrying it
// until the next overwrite resets the flags.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE laporan_harian SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark report sync error: %w", err)
	}
	slog.WarnContext(ctx, "Report marked with sync error", "report_id", id)
	return nil
}

func scanReport(row *sql.Row) (core.Report, error) {
	var rep core.Report
	err := row.Scan(
		&rep.ID, &rep.UserID, &rep.Tanggal, &rep.Shift, &rep.JamKerja,
		&rep.NomorAwal, &rep.NomorAkhir, &rep.TotalLiter, &rep.TotalSetoran,
		&rep.QRIS, &rep.Cash, &rep.PU, &rep.TotalKeseluruhan,
		&rep.Version, &rep.CreatedAt, &rep.UpdatedAt)
	return rep, err
}

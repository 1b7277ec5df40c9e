// Package postgres is the hosted-database backend. It mirrors the
// SQLite repository so deployments that already run Postgres can keep
// reports there instead of a local file.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"setoran/internal/core"
	"setoran/internal/store"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS laporan_harian (
    id                TEXT PRIMARY KEY,
    user_id           TEXT NOT NULL,
    tanggal           TEXT NOT NULL,
    shift             INTEGER NOT NULL,
    jam_kerja         TEXT NOT NULL,
    nomor_awal        DOUBLE PRECISION NOT NULL DEFAULT 0,
    nomor_akhir       DOUBLE PRECISION NOT NULL DEFAULT 0,
    total_liter       DOUBLE PRECISION NOT NULL DEFAULT 0,
    total_setoran     BIGINT NOT NULL DEFAULT 0,
    qris              BIGINT NOT NULL DEFAULT 0,
    cash              BIGINT NOT NULL DEFAULT 0,
    pu                BIGINT NOT NULL DEFAULT 0,
    total_keseluruhan BIGINT NOT NULL DEFAULT 0,
    version           BIGINT NOT NULL DEFAULT 1,
    created_at        TIMESTAMPTZ NOT NULL,
    updated_at        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS pu_items (
    id         TEXT PRIMARY KEY,
    report_id  TEXT NOT NULL REFERENCES laporan_harian (id),
    user_id    TEXT NOT NULL,
    tanggal    TEXT NOT NULL,
    shift      INTEGER NOT NULL,
    keterangan TEXT NOT NULL DEFAULT '',
    nominal    BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pu_items_report ON pu_items (report_id);

CREATE TABLE IF NOT EXISTS profiles (
    user_id    TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);`

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// UpsertReport implements store.ReportUpserter with the same overwrite
// semantics as the SQLite backend. Sheet export runs off the SQLite
// queue, so no sync flags live here.
func (r *Repository) UpsertReport(ctx context.Context, rep core.Report) (core.Report, error) {
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO laporan_harian (
			id, user_id, tanggal, shift, jam_kerja, nomor_awal, nomor_akhir,
			total_liter, total_setoran, qris, cash, pu, total_keseluruhan,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1, $14, $15)
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

	slog.InfoContext(ctx, "Report saved to Postgres",
		"report_id", saved.ID,
		"shift", saved.Shift,
		"version", saved.Version,
		"total_keseluruhan", saved.TotalKeseluruhan)
	return saved, nil
}

func (r *Repository) GetReport(ctx context.Context, id string) (core.Report, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, tanggal, shift, jam_kerja, nomor_awal, nomor_akhir,
		       total_liter, total_setoran, qris, cash, pu, total_keseluruhan,
		       version, created_at, updated_at
		FROM laporan_harian WHERE id = $1`, id)

	var rep core.Report
	err := row.Scan(
		&rep.ID, &rep.UserID, &rep.Tanggal, &rep.Shift, &rep.JamKerja,
		&rep.NomorAwal, &rep.NomorAkhir, &rep.TotalLiter, &rep.TotalSetoran,
		&rep.QRIS, &rep.Cash, &rep.PU, &rep.TotalKeseluruhan,
		&rep.Version, &rep.CreatedAt, &rep.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Report{}, fmt.Errorf("report %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return core.Report{}, fmt.Errorf("get report %s: %w", id, err)
	}
	return rep, nil
}

func (r *Repository) ListReports(ctx context.Context, sortBy store.ReportSort) ([]store.ReportRow, error) {
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

func (r *Repository) ReplacePUItems(ctx context.Context, rep core.Report, items []core.PUItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pu replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pu_items WHERE report_id = $1`, rep.ID); err != nil {
		return fmt.Errorf("delete pu items: %w", err)
	}

	now := time.Now().UTC()
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pu_items (id, report_id, user_id, tanggal, shift, keterangan, nominal, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.NewString(), rep.ID, rep.UserID, rep.Tanggal, rep.Shift,
			it.Keterangan, it.Nominal, now); err != nil {
			return fmt.Errorf("insert pu item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit pu replace: %w", err)
	}
	return nil
}

func (r *Repository) ListPUItems(ctx context.Context, sortBy store.PUSort) ([]store.PUItemRow, error) {
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

func (r *Repository) UpsertProfile(ctx context.Context, userID, name string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at`,
		userID, name, now, now)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

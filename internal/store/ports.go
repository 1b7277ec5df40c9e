// Package store declares the ports every report backend implements,
// plus the whitelisted sort parameters the dashboards accept.
package store

import (
	"context"
	"errors"
	"time"

	"setoran/internal/core"
)

var ErrNotFound = errors.New("not found")

type (
	// ReportUpserter persists a report, overwriting any existing row
	// with the same id.
	ReportUpserter interface {
		UpsertReport(ctx context.Context, r core.Report) (core.Report, error)
	}

	ReportGetter interface {
		GetReport(ctx context.Context, id string) (core.Report, error)
	}

	// ReportLister returns all reports with server-side ordering.
	ReportLister interface {
		ListReports(ctx context.Context, sort ReportSort) ([]ReportRow, error)
	}

	// PUItemReplacer swaps the stored expense lines for one report.
	// This runs outside the report upsert; the report row itself only
	// carries the aggregate PU total.
	PUItemReplacer interface {
		ReplacePUItems(ctx context.Context, r core.Report, items []core.PUItem) error
	}

	// PUItemLister returns all expense lines joined to the operator's
	// display name, with server-side ordering.
	PUItemLister interface {
		ListPUItems(ctx context.Context, sort PUSort) ([]PUItemRow, error)
	}

	// ProfileWriter records an operator's display name.
	ProfileWriter interface {
		UpsertProfile(ctx context.Context, userID, name string) error
	}
)

// ReportRow is a persisted report joined to the operator's profile name.
type ReportRow struct {
	core.Report
	ProfileName string
}

// PUItemRow is one persisted expense line as the PU dashboard shows it.
type PUItemRow struct {
	ID          string
	ReportID    string
	UserID      string
	ProfileName string
	Tanggal     string
	Shift       int
	Keterangan  string
	Nominal     int64
	CreatedAt   time.Time
}

// ReportSort orders a report listing. Zero value sorts newest first.
type ReportSort struct {
	Column    string
	Ascending bool
}

// PUSort orders a PU item listing. Zero value sorts newest first.
type PUSort struct {
	Column    string
	Ascending bool
}

var reportColumns = map[string]bool{
	"created_at":        true,
	"tanggal":           true,
	"shift":             true,
	"jam_kerja":         true,
	"nomor_awal":        true,
	"nomor_akhir":       true,
	"total_liter":       true,
	"total_setoran":     true,
	"qris":              true,
	"cash":              true,
	"pu":                true,
	"total_keseluruhan": true,
}

var puColumns = map[string]bool{
	"created_at": true,
	"tanggal":    true,
	"shift":      true,
	"keterangan": true,
	"nominal":    true,
}

// Normalize clamps the sort to a whitelisted column so caller-chosen
// names can be interpolated into ORDER BY safely.
func (s ReportSort) Normalize() ReportSort {
	if !reportColumns[s.Column] {
		s.Column = "created_at"
		s.Ascending = false
	}
	return s
}

func (s PUSort) Normalize() PUSort {
	if !puColumns[s.Column] {
		s.Column = "created_at"
		s.Ascending = false
	}
	return s
}

// Direction renders the SQL sort direction.
func Direction(ascending bool) string {
	if ascending {
		return "ASC"
	}
	return "DESC"
}

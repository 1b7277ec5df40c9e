// Package memory implements the store ports in process memory. It backs
// tests and the default development backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"setoran/internal/core"
	"setoran/internal/store"
)

type Store struct {
	mu       sync.Mutex
	reports  map[string]core.Report
	items    []store.PUItemRow
	profiles map[string]string
	now      func() time.Time
}

func New() *Store {
	return &Store{
		reports:  make(map[string]core.Report),
		profiles: make(map[string]string),
		now:      time.Now,
	}
}

// UpsertReport implements store.ReportUpserter. A second save with the
// same id overwrites the row and bumps its version.
func (s *Store) UpsertReport(_ context.Context, r core.Report) (core.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if prev, ok := s.reports[r.ID]; ok {
		r.CreatedAt = prev.CreatedAt
		r.Version = prev.Version + 1
	} else {
		r.CreatedAt = now
		r.Version = 1
	}
	r.UpdatedAt = now
	s.reports[r.ID] = r
	return r, nil
}

func (s *Store) GetReport(_ context.Context, id string) (core.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return core.Report{}, fmt.Errorf("report %s: %w", id, store.ErrNotFound)
	}
	return r, nil
}

func (s *Store) ListReports(_ context.Context, sortBy store.ReportSort) ([]store.ReportRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]store.ReportRow, 0, len(s.reports))
	for _, r := range s.reports {
		rows = append(rows, store.ReportRow{Report: r, ProfileName: s.profiles[r.UserID]})
	}

	sortBy = sortBy.Normalize()
	sort.SliceStable(rows, func(i, j int) bool {
		less := reportLess(rows[i].Report, rows[j].Report, sortBy.Column)
		if sortBy.Ascending {
			return less
		}
		return reportLess(rows[j].Report, rows[i].Report, sortBy.Column)
	})
	return rows, nil
}

func (s *Store) ReplacePUItems(_ context.Context, r core.Report, items []core.PUItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.ReportID != r.ID {
			kept = append(kept, it)
		}
	}
	s.items = kept

	now := s.now()
	for _, it := range items {
		s.items = append(s.items, store.PUItemRow{
			ID:         uuid.NewString(),
			ReportID:   r.ID,
			UserID:     r.UserID,
			Tanggal:    r.Tanggal,
			Shift:      r.Shift,
			Keterangan: it.Keterangan,
			Nominal:    it.Nominal,
			CreatedAt:  now,
		})
	}
	return nil
}

func (s *Store) ListPUItems(_ context.Context, sortBy store.PUSort) ([]store.PUItemRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]store.PUItemRow, len(s.items))
	copy(rows, s.items)
	for i := range rows {
		rows[i].ProfileName = s.profiles[rows[i].UserID]
	}

	sortBy = sortBy.Normalize()
	sort.SliceStable(rows, func(i, j int) bool {
		less := puLess(rows[i], rows[j], sortBy.Column)
		if sortBy.Ascending {
			return less
		}
		return puLess(rows[j], rows[i], sortBy.Column)
	})
	return rows, nil
}

func (s *Store) UpsertProfile(_ context.Context, userID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = name
	return nil
}

func reportLess(a, b core.Report, column string) bool {
	switch column {
	case "tanggal":
		return strings.Compare(a.Tanggal, b.Tanggal) < 0
	case "shift":
		return a.Shift < b.Shift
	case "jam_kerja":
		return strings.Compare(a.JamKerja, b.JamKerja) < 0
	case "nomor_awal":
		return a.NomorAwal < b.NomorAwal
	case "nomor_akhir":
		return a.NomorAkhir < b.NomorAkhir
	case "total_liter":
		return a.TotalLiter < b.TotalLiter
	case "total_setoran":
		return a.TotalSetoran < b.TotalSetoran
	case "qris":
		return a.QRIS < b.QRIS
	case "cash":
		return a.Cash < b.Cash
	case "pu":
		return a.PU < b.PU
	case "total_keseluruhan":
		return a.TotalKeseluruhan < b.TotalKeseluruhan
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func puLess(a, b store.PUItemRow, column string) bool {
	switch column {
	case "tanggal":
		return strings.Compare(a.Tanggal, b.Tanggal) < 0
	case "shift":
		return a.Shift < b.Shift
	case "keterangan":
		return strings.Compare(a.Keterangan, b.Keterangan) < 0
	case "nominal":
		return a.Nominal < b.Nominal
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

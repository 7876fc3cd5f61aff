package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bpkad-transparency/backend/internal/model"
	"bpkad-transparency/backend/internal/store"

	"github.com/google/uuid"
)

// Store is a mutex-guarded in-memory implementation, used when no
// DATABASE_URL is configured and by the handler tests.
type Store struct {
	mu sync.Mutex

	admins    map[string]model.Admin
	tahun     map[string]model.TahunAnggaran
	kategori  map[string]model.KategoriAPBD
	transaksi map[string]model.TransaksiAPBD
}

func NewStore() *Store {
	return &Store{
		admins:    make(map[string]model.Admin),
		tahun:     make(map[string]model.TahunAnggaran),
		kategori:  make(map[string]model.KategoriAPBD),
		transaksi: make(map[string]model.TransaksiAPBD),
	}
}

func newID() string {
	return uuid.NewString()
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) CreateTahun(_ context.Context, t model.TahunAnggaran) (model.TahunAnggaran, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tahun {
		if existing.Tahun == t.Tahun {
			return model.TahunAnggaran{}, store.ErrConflict
		}
	}

	now := time.Now().UTC()
	t.ID = newID()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.tahun[t.ID] = t
	return t, nil
}

func (s *Store) ListTahun(_ context.Context) ([]model.TahunAnggaran, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sortedTahun(), nil
}

// sortedTahun returns years newest-first. Caller must hold the lock.
func (s *Store) sortedTahun() []model.TahunAnggaran {
	out := make([]model.TahunAnggaran, 0, len(s.tahun))
	for _, t := range s.tahun {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Tahun > out[j].Tahun
	})
	return out
}

func (s *Store) UpdateTahun(_ context.Context, t model.TahunAnggaran) (model.TahunAnggaran, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tahun[t.ID]
	if !ok {
		return model.TahunAnggaran{}, store.ErrNotFound
	}

	for _, other := range s.tahun {
		if other.ID != t.ID && other.Tahun == t.Tahun {
			return model.TahunAnggaran{}, store.ErrConflict
		}
	}

	existing.Tahun = t.Tahun
	existing.Keterangan = t.Keterangan
	existing.UpdatedAt = time.Now().UTC()
	s.tahun[t.ID] = existing
	return existing, nil
}

func (s *Store) DeleteTahun(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tahun[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.tahun, id)
	return nil
}

func (s *Store) CreateKategori(_ context.Context, k model.KategoriAPBD) (model.KategoriAPBD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.kategori {
		if strings.EqualFold(existing.NamaKategori, k.NamaKategori) {
			return model.KategoriAPBD{}, store.ErrConflict
		}
	}

	now := time.Now().UTC()
	k.ID = newID()
	k.CreatedAt = now
	k.UpdatedAt = now
	s.kategori[k.ID] = k
	return k, nil
}

func (s *Store) ListKategori(_ context.Context) ([]model.KategoriAPBD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.KategoriAPBD, 0, len(s.kategori))
	for _, k := range s.kategori {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NamaKategori < out[j].NamaKategori
	})
	return out, nil
}

func (s *Store) UpdateKategori(_ context.Context, k model.KategoriAPBD) (model.KategoriAPBD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.kategori[k.ID]
	if !ok {
		return model.KategoriAPBD{}, store.ErrNotFound
	}

	for _, other := range s.kategori {
		if other.ID != k.ID && strings.EqualFold(other.NamaKategori, k.NamaKategori) {
			return model.KategoriAPBD{}, store.ErrConflict
		}
	}

	existing.NamaKategori = k.NamaKategori
	existing.Deskripsi = k.Deskripsi
	existing.UpdatedAt = time.Now().UTC()
	s.kategori[k.ID] = existing
	return existing, nil
}

func (s *Store) DeleteKategori(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.kategori[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.kategori, id)
	return nil
}

func (s *Store) CreateTransaksi(_ context.Context, tr model.TransaksiAPBD) (model.TransaksiAPBD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tahun[tr.TahunID]; !ok {
		return model.TransaksiAPBD{}, store.ErrNotFound
	}
	if _, ok := s.kategori[tr.KategoriID]; !ok {
		return model.TransaksiAPBD{}, store.ErrNotFound
	}

	now := time.Now().UTC()
	tr.ID = newID()
	if tr.Tanggal.IsZero() {
		tr.Tanggal = now
	}
	tr.CreatedAt = now
	tr.UpdatedAt = now
	s.transaksi[tr.ID] = tr
	return tr, nil
}

func (s *Store) GetTransaksi(_ context.Context, id string) (*model.TransaksiAPBD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr, ok := s.transaksi[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &tr, nil
}

func (s *Store) ListTransaksi(_ context.Context, f store.TransaksiFilter) ([]model.TransaksiAPBD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.TransaksiAPBD, 0, len(s.transaksi))
	for _, tr := range s.transaksi {
		if f.TahunID != "" && tr.TahunID != f.TahunID {
			continue
		}
		if f.KategoriID != "" && tr.KategoriID != f.KategoriID {
			continue
		}
		if f.Jenis != "" && tr.Jenis != f.Jenis {
			continue
		}
		out = append(out, tr)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Tanggal.After(out[j].Tanggal)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) UpdateTransaksi(_ context.Context, tr model.TransaksiAPBD) (model.TransaksiAPBD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transaksi[tr.ID]
	if !ok {
		return model.TransaksiAPBD{}, store.ErrNotFound
	}
	if _, ok := s.tahun[tr.TahunID]; !ok {
		return model.TransaksiAPBD{}, store.ErrNotFound
	}
	if _, ok := s.kategori[tr.KategoriID]; !ok {
		return model.TransaksiAPBD{}, store.ErrNotFound
	}

	existing.TahunID = tr.TahunID
	existing.KategoriID = tr.KategoriID
	existing.Jenis = tr.Jenis
	existing.Uraian = tr.Uraian
	existing.Jumlah = tr.Jumlah
	if !tr.Tanggal.IsZero() {
		existing.Tanggal = tr.Tanggal
	}
	existing.UpdatedAt = time.Now().UTC()
	s.transaksi[existing.ID] = existing
	return existing, nil
}

func (s *Store) DeleteTransaksi(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transaksi[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.transaksi, id)
	return nil
}

func (s *Store) DashboardSummary(_ context.Context, tahunID string) (*model.DashboardSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := &model.DashboardSummary{Tahun: s.sortedTahun()}

	byKategori := make(map[string]*model.KategoriTotal)
	for _, tr := range s.transaksi {
		if tahunID != "" && tr.TahunID != tahunID {
			continue
		}

		kt, ok := byKategori[tr.KategoriID]
		if !ok {
			kt = &model.KategoriTotal{KategoriID: tr.KategoriID}
			if k, found := s.kategori[tr.KategoriID]; found {
				kt.NamaKategori = k.NamaKategori
			}
			byKategori[tr.KategoriID] = kt
		}

		switch tr.Jenis {
		case model.JenisPendapatan:
			sum.TotalPendapatan += tr.Jumlah
			kt.Pendapatan += tr.Jumlah
		case model.JenisBelanja:
			sum.TotalBelanja += tr.Jumlah
			kt.Belanja += tr.Jumlah
		}
	}

	sum.PerKategori = make([]model.KategoriTotal, 0, len(byKategori))
	for _, kt := range byKategori {
		sum.PerKategori = append(sum.PerKategori, *kt)
	}
	sort.Slice(sum.PerKategori, func(i, j int) bool {
		return sum.PerKategori[i].NamaKategori < sum.PerKategori[j].NamaKategori
	})

	return sum, nil
}

package memory

import (
	"context"
	"testing"

	"bpkad-transparency/backend/internal/model"
	"bpkad-transparency/backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLifecycle(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	a, err := s.CreateAdmin(ctx, model.Admin{Username: "admin", Password: "plain123"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.IDAdmin)
	assert.Equal(t, "admin", a.Role)

	// Duplicate username conflicts.
	_, err = s.CreateAdmin(ctx, model.Admin{Username: "admin", Password: "x"})
	assert.ErrorIs(t, err, store.ErrConflict)

	// Lookup is case-sensitive.
	_, err = s.GetAdminByUsername(ctx, "Admin")
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.GetAdminByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, a.IDAdmin, got.IDAdmin)

	require.NoError(t, s.UpdateAdminPassword(ctx, a.IDAdmin, "$2b$10$something"))
	got, err = s.GetAdminByID(ctx, a.IDAdmin)
	require.NoError(t, err)
	assert.Equal(t, "$2b$10$something", got.Password)

	assert.ErrorIs(t, s.UpdateAdminPassword(ctx, "missing", "x"), store.ErrNotFound)

	require.NoError(t, s.DeleteAdmin(ctx, a.IDAdmin))
	_, err = s.GetAdminByID(ctx, a.IDAdmin)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTahunUniqueness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	t1, err := s.CreateTahun(ctx, model.TahunAnggaran{Tahun: 2023})
	require.NoError(t, err)

	_, err = s.CreateTahun(ctx, model.TahunAnggaran{Tahun: 2023})
	assert.ErrorIs(t, err, store.ErrConflict)

	t2, err := s.CreateTahun(ctx, model.TahunAnggaran{Tahun: 2024})
	require.NoError(t, err)

	// Updating onto an existing year conflicts too.
	_, err = s.UpdateTahun(ctx, model.TahunAnggaran{ID: t2.ID, Tahun: 2023})
	assert.ErrorIs(t, err, store.ErrConflict)

	list, err := s.ListTahun(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first.
	assert.Equal(t, 2024, list[0].Tahun)
	assert.Equal(t, t1.Tahun, list[1].Tahun)
}

func TestTransaksiReferencesAndFilter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	tahun, err := s.CreateTahun(ctx, model.TahunAnggaran{Tahun: 2024})
	require.NoError(t, err)
	kat, err := s.CreateKategori(ctx, model.KategoriAPBD{NamaKategori: "Kesehatan"})
	require.NoError(t, err)

	_, err = s.CreateTransaksi(ctx, model.TransaksiAPBD{
		TahunID:    "missing",
		KategoriID: kat.ID,
		Jenis:      model.JenisBelanja,
		Uraian:     "x",
		Jumlah:     1,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)

	for _, tc := range []struct {
		jenis  model.JenisTransaksi
		jumlah int64
	}{
		{model.JenisPendapatan, 100},
		{model.JenisBelanja, 40},
		{model.JenisBelanja, 60},
	} {
		_, err = s.CreateTransaksi(ctx, model.TransaksiAPBD{
			TahunID:    tahun.ID,
			KategoriID: kat.ID,
			Jenis:      tc.jenis,
			Uraian:     "tx",
			Jumlah:     tc.jumlah,
		})
		require.NoError(t, err)
	}

	belanja, err := s.ListTransaksi(ctx, store.TransaksiFilter{Jenis: model.JenisBelanja})
	require.NoError(t, err)
	assert.Len(t, belanja, 2)

	limited, err := s.ListTransaksi(ctx, store.TransaksiFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	sum, err := s.DashboardSummary(ctx, tahun.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), sum.TotalPendapatan)
	assert.Equal(t, int64(100), sum.TotalBelanja)
	require.Len(t, sum.PerKategori, 1)
	assert.Equal(t, "Kesehatan", sum.PerKategori[0].NamaKategori)

	// A different year has no rows.
	other, err := s.CreateTahun(ctx, model.TahunAnggaran{Tahun: 2025})
	require.NoError(t, err)
	sum, err = s.DashboardSummary(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, sum.TotalPendapatan)
	assert.Zero(t, sum.TotalBelanja)
	assert.Empty(t, sum.PerKategori)
}

func TestKategoriNameUniqueness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.CreateKategori(ctx, model.KategoriAPBD{NamaKategori: "Pendidikan"})
	require.NoError(t, err)

	_, err = s.CreateKategori(ctx, model.KategoriAPBD{NamaKategori: "pendidikan"})
	assert.ErrorIs(t, err, store.ErrConflict)
}

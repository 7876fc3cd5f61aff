package store

import (
	"context"
	"errors"

	"bpkad-transparency/backend/internal/model"
)

var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
)

// TransaksiFilter narrows ListTransaksi. Zero values match everything.
type TransaksiFilter struct {
	TahunID    string
	KategoriID string
	Jenis      model.JenisTransaksi
	Limit      int
}

// Store is the persistence boundary. The auth core only depends on the three
// Admin methods; the rest backs the public data routes.
type Store interface {
	GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error)
	GetAdminByID(ctx context.Context, id string) (*model.Admin, error)
	UpdateAdminPassword(ctx context.Context, id string, newPassword string) error

	CreateTahun(ctx context.Context, t model.TahunAnggaran) (model.TahunAnggaran, error)
	ListTahun(ctx context.Context) ([]model.TahunAnggaran, error)
	UpdateTahun(ctx context.Context, t model.TahunAnggaran) (model.TahunAnggaran, error)
	DeleteTahun(ctx context.Context, id string) error

	CreateKategori(ctx context.Context, k model.KategoriAPBD) (model.KategoriAPBD, error)
	ListKategori(ctx context.Context) ([]model.KategoriAPBD, error)
	UpdateKategori(ctx context.Context, k model.KategoriAPBD) (model.KategoriAPBD, error)
	DeleteKategori(ctx context.Context, id string) error

	CreateTransaksi(ctx context.Context, tr model.TransaksiAPBD) (model.TransaksiAPBD, error)
	GetTransaksi(ctx context.Context, id string) (*model.TransaksiAPBD, error)
	ListTransaksi(ctx context.Context, f TransaksiFilter) ([]model.TransaksiAPBD, error)
	UpdateTransaksi(ctx context.Context, tr model.TransaksiAPBD) (model.TransaksiAPBD, error)
	DeleteTransaksi(ctx context.Context, id string) error

	DashboardSummary(ctx context.Context, tahunID string) (*model.DashboardSummary, error)

	Ping(ctx context.Context) error
}

package model

import "time"

// JenisTransaksi classifies a budget transaction as revenue or expenditure.
type JenisTransaksi string

const (
	JenisPendapatan JenisTransaksi = "pendapatan"
	JenisBelanja    JenisTransaksi = "belanja"
)

// Valid reports whether the jenis is one of the known values.
func (j JenisTransaksi) Valid() bool {
	return j == JenisPendapatan || j == JenisBelanja
}

// TahunAnggaran is a budget year.
type TahunAnggaran struct {
	ID         string    `json:"id"`
	Tahun      int       `json:"tahun"`
	Keterangan string    `json:"keterangan,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// KategoriAPBD is a budget category (e.g. "Pendidikan", "Kesehatan").
type KategoriAPBD struct {
	ID           string    `json:"id"`
	NamaKategori string    `json:"nama_kategori"`
	Deskripsi    string    `json:"deskripsi,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TransaksiAPBD is a single budget transaction line.
// Jumlah is in whole rupiah.
type TransaksiAPBD struct {
	ID         string         `json:"id"`
	TahunID    string         `json:"tahun_id"`
	KategoriID string         `json:"kategori_id"`
	Jenis      JenisTransaksi `json:"jenis"`
	Uraian     string         `json:"uraian"`
	Jumlah     int64          `json:"jumlah"`
	Tanggal    time.Time      `json:"tanggal"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// KategoriTotal is a per-category rollup used by the dashboard and apbd views.
type KategoriTotal struct {
	KategoriID   string `json:"kategori_id"`
	NamaKategori string `json:"nama_kategori"`
	Pendapatan   int64  `json:"pendapatan"`
	Belanja      int64  `json:"belanja"`
}

// DashboardSummary aggregates transaction totals, optionally scoped to one year.
type DashboardSummary struct {
	Tahun           []TahunAnggaran `json:"tahun"`
	TotalPendapatan int64           `json:"total_pendapatan"`
	TotalBelanja    int64           `json:"total_belanja"`
	PerKategori     []KategoriTotal `json:"per_kategori"`
}

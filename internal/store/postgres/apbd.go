package postgres

import (
	"context"
	"strconv"
	"strings"

	"bpkad-transparency/backend/internal/model"
	"bpkad-transparency/backend/internal/store"
)

func (s *Store) CreateTahun(ctx context.Context, t model.TahunAnggaran) (model.TahunAnggaran, error) {
	var out model.TahunAnggaran
	err := s.pool.QueryRow(ctx, `
		insert into public.tahun_anggaran (tahun, keterangan)
		values ($1, nullif($2, ''))
		returning id::text, tahun, coalesce(keterangan, ''), created_at, updated_at
	`, t.Tahun, t.Keterangan).Scan(&out.ID, &out.Tahun, &out.Keterangan, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return model.TahunAnggaran{}, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) ListTahun(ctx context.Context) ([]model.TahunAnggaran, error) {
	rows, err := s.pool.Query(ctx, `
		select id::text, tahun, coalesce(keterangan, ''), created_at, updated_at
		from public.tahun_anggaran
		order by tahun desc
	`)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []model.TahunAnggaran
	for rows.Next() {
		var t model.TahunAnggaran
		if err := rows.Scan(&t.ID, &t.Tahun, &t.Keterangan, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, mapPgErr(err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTahun(ctx context.Context, t model.TahunAnggaran) (model.TahunAnggaran, error) {
	var out model.TahunAnggaran
	err := s.pool.QueryRow(ctx, `
		update public.tahun_anggaran
		set tahun = $2, keterangan = nullif($3, ''), updated_at = now()
		where id = $1::uuid
		returning id::text, tahun, coalesce(keterangan, ''), created_at, updated_at
	`, t.ID, t.Tahun, t.Keterangan).Scan(&out.ID, &out.Tahun, &out.Keterangan, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return model.TahunAnggaran{}, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) DeleteTahun(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `delete from public.tahun_anggaran where id = $1::uuid`, id)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateKategori(ctx context.Context, k model.KategoriAPBD) (model.KategoriAPBD, error) {
	var out model.KategoriAPBD
	err := s.pool.QueryRow(ctx, `
		insert into public.kategori_apbd (nama_kategori, deskripsi)
		values ($1, nullif($2, ''))
		returning id::text, nama_kategori, coalesce(deskripsi, ''), created_at, updated_at
	`, k.NamaKategori, k.Deskripsi).Scan(&out.ID, &out.NamaKategori, &out.Deskripsi, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return model.KategoriAPBD{}, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) ListKategori(ctx context.Context) ([]model.KategoriAPBD, error) {
	rows, err := s.pool.Query(ctx, `
		select id::text, nama_kategori, coalesce(deskripsi, ''), created_at, updated_at
		from public.kategori_apbd
		order by nama_kategori asc
	`)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []model.KategoriAPBD
	for rows.Next() {
		var k model.KategoriAPBD
		if err := rows.Scan(&k.ID, &k.NamaKategori, &k.Deskripsi, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, mapPgErr(err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (s *Store) UpdateKategori(ctx context.Context, k model.KategoriAPBD) (model.KategoriAPBD, error) {
	var out model.KategoriAPBD
	err := s.pool.QueryRow(ctx, `
		update public.kategori_apbd
		set nama_kategori = $2, deskripsi = nullif($3, ''), updated_at = now()
		where id = $1::uuid
		returning id::text, nama_kategori, coalesce(deskripsi, ''), created_at, updated_at
	`, k.ID, k.NamaKategori, k.Deskripsi).Scan(&out.ID, &out.NamaKategori, &out.Deskripsi, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return model.KategoriAPBD{}, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) DeleteKategori(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `delete from public.kategori_apbd where id = $1::uuid`, id)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

const transaksiColumns = `id::text, tahun_id::text, kategori_id::text, jenis, uraian, jumlah, tanggal, created_at, updated_at`

func (s *Store) CreateTransaksi(ctx context.Context, tr model.TransaksiAPBD) (model.TransaksiAPBD, error) {
	var out model.TransaksiAPBD
	err := s.pool.QueryRow(ctx, `
		insert into public.transaksi_apbd (tahun_id, kategori_id, jenis, uraian, jumlah, tanggal)
		values ($1::uuid, $2::uuid, $3, $4, $5, coalesce(nullif($6, '')::timestamptz, now()))
		returning `+transaksiColumns+`
	`, tr.TahunID, tr.KategoriID, string(tr.Jenis), tr.Uraian, tr.Jumlah, formatTanggal(tr)).Scan(
		&out.ID, &out.TahunID, &out.KategoriID, &out.Jenis, &out.Uraian, &out.Jumlah, &out.Tanggal, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return model.TransaksiAPBD{}, mapPgErr(err)
	}
	return out, nil
}

func formatTanggal(tr model.TransaksiAPBD) string {
	if tr.Tanggal.IsZero() {
		return ""
	}
	return tr.Tanggal.UTC().Format("2006-01-02T15:04:05Z07:00")
}

func (s *Store) GetTransaksi(ctx context.Context, id string) (*model.TransaksiAPBD, error) {
	var tr model.TransaksiAPBD
	err := s.pool.QueryRow(ctx, `
		select `+transaksiColumns+`
		from public.transaksi_apbd
		where id = $1::uuid
	`, id).Scan(
		&tr.ID, &tr.TahunID, &tr.KategoriID, &tr.Jenis, &tr.Uraian, &tr.Jumlah, &tr.Tanggal, &tr.CreatedAt, &tr.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgErr(err)
	}
	return &tr, nil
}

func (s *Store) ListTransaksi(ctx context.Context, f store.TransaksiFilter) ([]model.TransaksiAPBD, error) {
	query := `
		select ` + transaksiColumns + `
		from public.transaksi_apbd
	`
	var conds []string
	var args []any
	if f.TahunID != "" {
		args = append(args, f.TahunID)
		conds = append(conds, "tahun_id = $"+strconv.Itoa(len(args))+"::uuid")
	}
	if f.KategoriID != "" {
		args = append(args, f.KategoriID)
		conds = append(conds, "kategori_id = $"+strconv.Itoa(len(args))+"::uuid")
	}
	if f.Jenis != "" {
		args = append(args, string(f.Jenis))
		conds = append(conds, "jenis = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		query += " where " + strings.Join(conds, " and ")
	}
	query += " order by tanggal desc"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " limit $" + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []model.TransaksiAPBD
	for rows.Next() {
		var tr model.TransaksiAPBD
		if err := rows.Scan(
			&tr.ID, &tr.TahunID, &tr.KategoriID, &tr.Jenis, &tr.Uraian, &tr.Jumlah, &tr.Tanggal, &tr.CreatedAt, &tr.UpdatedAt,
		); err != nil {
			return nil, mapPgErr(err)
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTransaksi(ctx context.Context, tr model.TransaksiAPBD) (model.TransaksiAPBD, error) {
	var out model.TransaksiAPBD
	err := s.pool.QueryRow(ctx, `
		update public.transaksi_apbd
		set tahun_id = $2::uuid,
		    kategori_id = $3::uuid,
		    jenis = $4,
		    uraian = $5,
		    jumlah = $6,
		    tanggal = coalesce(nullif($7, '')::timestamptz, tanggal),
		    updated_at = now()
		where id = $1::uuid
		returning `+transaksiColumns+`
	`, tr.ID, tr.TahunID, tr.KategoriID, string(tr.Jenis), tr.Uraian, tr.Jumlah, formatTanggal(tr)).Scan(
		&out.ID, &out.TahunID, &out.KategoriID, &out.Jenis, &out.Uraian, &out.Jumlah, &out.Tanggal, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return model.TransaksiAPBD{}, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) DeleteTransaksi(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `delete from public.transaksi_apbd where id = $1::uuid`, id)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DashboardSummary(ctx context.Context, tahunID string) (*model.DashboardSummary, error) {
	sum := &model.DashboardSummary{}

	tahun, err := s.ListTahun(ctx)
	if err != nil {
		return nil, err
	}
	sum.Tahun = tahun

	query := `
		select k.id::text,
		       k.nama_kategori,
		       coalesce(sum(t.jumlah) filter (where t.jenis = 'pendapatan'), 0),
		       coalesce(sum(t.jumlah) filter (where t.jenis = 'belanja'), 0)
		from public.transaksi_apbd t
		join public.kategori_apbd k on k.id = t.kategori_id
	`
	var args []any
	if tahunID != "" {
		query += " where t.tahun_id = $1::uuid"
		args = append(args, tahunID)
	}
	query += `
		group by k.id, k.nama_kategori
		order by k.nama_kategori asc
	`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var kt model.KategoriTotal
		if err := rows.Scan(&kt.KategoriID, &kt.NamaKategori, &kt.Pendapatan, &kt.Belanja); err != nil {
			return nil, mapPgErr(err)
		}
		sum.TotalPendapatan += kt.Pendapatan
		sum.TotalBelanja += kt.Belanja
		sum.PerKategori = append(sum.PerKategori, kt)
	}
	return sum, rows.Err()
}

package postgres

import (
	"context"
	"errors"

	"bpkad-transparency/backend/internal/model"
	"bpkad-transparency/backend/internal/store"

	"github.com/jackc/pgx/v5"
)

func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	err := s.pool.QueryRow(ctx, `
		select id_admin::text, username, password, role, created_at, updated_at
		from public.admins
		where username = $1
	`, username).Scan(
		&a.IDAdmin,
		&a.Username,
		&a.Password,
		&a.Role,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapPgErr(err)
	}
	return &a, nil
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	var a model.Admin
	err := s.pool.QueryRow(ctx, `
		select id_admin::text, username, password, role, created_at, updated_at
		from public.admins
		where id_admin = $1::uuid
	`, id).Scan(
		&a.IDAdmin,
		&a.Username,
		&a.Password,
		&a.Role,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapPgErr(err)
	}
	return &a, nil
}

// UpdateAdminPassword replaces the stored credential in a single-row write;
// the row-level atomicity of the update is all the migration needs.
func (s *Store) UpdateAdminPassword(ctx context.Context, id string, newPassword string) error {
	tag, err := s.pool.Exec(ctx, `
		update public.admins
		set password = $2, updated_at = now()
		where id_admin = $1::uuid
	`, id, newPassword)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

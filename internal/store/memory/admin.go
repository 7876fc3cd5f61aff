package memory

import (
	"context"
	"strings"
	"time"

	"bpkad-transparency/backend/internal/model"
	"bpkad-transparency/backend/internal/store"
)

// CreateAdmin seeds an account. Accounts are provisioned out-of-band; the
// HTTP surface never creates them.
func (s *Store) CreateAdmin(_ context.Context, a model.Admin) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.TrimSpace(a.Username)
	if username == "" {
		return model.Admin{}, store.ErrConflict
	}

	for _, existing := range s.admins {
		if existing.Username == username {
			return model.Admin{}, store.ErrConflict
		}
	}

	now := time.Now().UTC()
	a.IDAdmin = newID()
	a.Username = username
	if a.Role == "" {
		a.Role = "admin"
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	s.admins[a.IDAdmin] = a
	return a, nil
}

func (s *Store) GetAdminByUsername(_ context.Context, username string) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Username lookup is case-sensitive.
	for _, a := range s.admins {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetAdminByID(_ context.Context, id string) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.admins[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (s *Store) UpdateAdminPassword(_ context.Context, id string, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.admins[id]
	if !ok {
		return store.ErrNotFound
	}
	a.Password = newPassword
	a.UpdatedAt = time.Now().UTC()
	s.admins[id] = a
	return nil
}

// DeleteAdmin exists for tests exercising tokens whose account vanished.
func (s *Store) DeleteAdmin(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.admins, id)
	return nil
}

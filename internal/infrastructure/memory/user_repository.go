package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.UserRoleRepository     = (*UserRoleRepo)(nil)
	_ repository.RegistrationRepository = (*RegistrationRepo)(nil)
)

// UserRepo usuarios en memoria.
type UserRepo struct {
	s *Store
}

// NewUserRepository construye el repositorio.
func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.usuarios {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	r.s.usuarios[u.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.usuarios[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.usuarios {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, hash string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.usuarios[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	return nil
}

func (r *UserRepo) ListWithRoles(_ context.Context) ([]*entity.UserWithRole, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.UserWithRole, 0, len(r.s.usuarios))
	for _, u := range r.s.usuarios {
		role, ok := r.s.roles[u.ID]
		if !ok {
			role = entity.RoleVisitante
		}
		out = append(out, &entity.UserWithRole{User: *u, Role: role})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// Delete borra el usuario y su rol.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.usuarios[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.usuarios, id)
	delete(r.s.roles, id)
	return nil
}

// UserRoleRepo roles en memoria.
type UserRoleRepo struct {
	s *Store
}

// NewUserRoleRepository construye el repositorio.
func NewUserRoleRepository(s *Store) *UserRoleRepo {
	return &UserRoleRepo{s: s}
}

func (r *UserRoleRepo) GetRole(_ context.Context, userID string) (string, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	role, ok := r.s.roles[userID]
	return role, ok, nil
}

func (r *UserRoleRepo) SetRole(_ context.Context, userID, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.usuarios[userID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.roles[userID] = role
	return nil
}

// RegistrationRepo estado del registro en memoria.
type RegistrationRepo struct {
	s *Store
}

// NewRegistrationRepository construye el repositorio.
func NewRegistrationRepository(s *Store) *RegistrationRepo {
	return &RegistrationRepo{s: s}
}

func (r *RegistrationRepo) Get(_ context.Context) (*entity.RegistrationStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st := r.s.registro
	return &st, nil
}

func (r *RegistrationRepo) Set(_ context.Context, st *entity.RegistrationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.registro = *st
	return nil
}

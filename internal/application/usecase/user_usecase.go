package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios, roles y apertura del registro.
type UserUseCase struct {
	repo         repository.UserRepository
	roles        repository.UserRoleRepository
	registration repository.RegistrationRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, roles repository.UserRoleRepository, registration repository.RegistrationRepository) *UserUseCase {
	return &UserUseCase{repo: repo, roles: roles, registration: registration}
}

// RoleOf devuelve el rol del usuario; sin fila en user_roles es visitante.
func (uc *UserUseCase) RoleOf(ctx context.Context, userID string) (string, error) {
	role, ok, err := uc.roles.GetRole(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok || !entity.ValidRole(role) {
		return entity.RoleVisitante, nil
	}
	return role, nil
}

// ListUsers lista usuarios con su rol.
func (uc *UserUseCase) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	list, err := uc.repo.ListWithRoles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *entityToUserResponse(&u.User, u.Role))
	}
	return out, nil
}

// SetRole reemplaza el rol del usuario.
func (uc *UserUseCase) SetRole(ctx context.Context, userID, role string) (*dto.UserResponse, error) {
	if !entity.ValidRole(role) {
		return nil, domain.Validationf("rol inválido: %s", role)
	}
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.roles.SetRole(ctx, userID, role); err != nil {
		return nil, err
	}
	return entityToUserResponse(user, role), nil
}

// DeleteUser elimina un usuario. Un admin no puede eliminarse a sí mismo.
func (uc *UserUseCase) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return domain.Conflictf("no puede eliminar su propio usuario")
	}
	return uc.repo.Delete(ctx, userID)
}

// RegistrationStatus indica si el alta de usuarios está abierta.
func (uc *UserUseCase) RegistrationStatus(ctx context.Context) (*dto.RegistrationStatusResponse, error) {
	st, err := uc.registration.Get(ctx)
	if err != nil {
		return nil, err
	}
	return toRegistrationResponse(st), nil
}

// SetRegistration abre o cierra el alta de usuarios.
func (uc *UserUseCase) SetRegistration(ctx context.Context, open bool, actor string) (*dto.RegistrationStatusResponse, error) {
	st := &entity.RegistrationStatus{IsOpen: open, UpdatedBy: actor, UpdatedAt: time.Now()}
	if err := uc.registration.Set(ctx, st); err != nil {
		return nil, err
	}
	return toRegistrationResponse(st), nil
}

func toRegistrationResponse(st *entity.RegistrationStatus) *dto.RegistrationStatusResponse {
	resp := &dto.RegistrationStatusResponse{IsOpen: st.IsOpen, UpdatedBy: st.UpdatedBy}
	if !st.UpdatedAt.IsZero() {
		at := st.UpdatedAt
		resp.UpdatedAt = &at
	}
	return resp
}

func entityToUserResponse(u *entity.User, role string) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

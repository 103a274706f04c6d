package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia de usuarios.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) error
	// ListWithRoles une usuarios con user_roles; sin fila el rol es visitante.
	ListWithRoles(ctx context.Context) ([]*entity.UserWithRole, error)
	Delete(ctx context.Context, id string) error
}

// UserRoleRepository define el puerto de persistencia de roles.
type UserRoleRepository interface {
	// GetRole devuelve ("", false, nil) si el usuario no tiene fila.
	GetRole(ctx context.Context, userID string) (string, bool, error)
	SetRole(ctx context.Context, userID, role string) error
}

// RegistrationRepository persiste si el alta de usuarios está abierta.
type RegistrationRepository interface {
	Get(ctx context.Context) (*entity.RegistrationStatus, error)
	Set(ctx context.Context, st *entity.RegistrationStatus) error
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.UserRoleRepository     = (*UserRoleRepo)(nil)
	_ repository.RegistrationRepository = (*RegistrationRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. El email es único sin distinguir mayúsculas.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return domain.StoreError("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `
		SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email; (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `
		SELECT id, email, password_hash, created_at, updated_at FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepo) findOne(ctx context.Context, query, arg string) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreError("get user", err)
	}
	return &u, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, hash, at)
	if err != nil {
		return domain.StoreError("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListWithRoles usuarios con su rol; sin fila en user_roles el rol es visitante.
func (r *UserRepo) ListWithRoles(ctx context.Context) ([]*entity.UserWithRole, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.created_at, u.updated_at, COALESCE(ur.role, $1)
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		ORDER BY u.email`
	rows, err := r.q.Query(ctx, query, entity.RoleVisitante)
	if err != nil {
		return nil, domain.StoreError("list users", err)
	}
	defer rows.Close()

	out := []*entity.UserWithRole{}
	for rows.Next() {
		var u entity.UserWithRole
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &u.Role); err != nil {
			return nil, domain.StoreError("scan user", err)
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list users", err)
	}
	return out, nil
}

// Delete borra el usuario; su rol cae por ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return domain.StoreError("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UserRoleRepo roles de usuario sobre PostgreSQL.
type UserRoleRepo struct {
	q Querier
}

// NewUserRoleRepository construye el adaptador.
func NewUserRoleRepository(q Querier) *UserRoleRepo {
	return &UserRoleRepo{q: q}
}

func (r *UserRoleRepo) GetRole(ctx context.Context, userID string) (string, bool, error) {
	var role string
	err := r.q.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, domain.StoreError("get role", err)
	}
	return role, true, nil
}

func (r *UserRoleRepo) SetRole(ctx context.Context, userID, role string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`, userID, role)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return domain.StoreError("set role", err)
	}
	return nil
}

// RegistrationRepo fila única con el estado del registro de usuarios.
type RegistrationRepo struct {
	q Querier
}

// NewRegistrationRepository construye el adaptador.
func NewRegistrationRepository(q Querier) *RegistrationRepo {
	return &RegistrationRepo{q: q}
}

// Get devuelve el estado; si la fila no existe el registro se considera abierto.
func (r *RegistrationRepo) Get(ctx context.Context) (*entity.RegistrationStatus, error) {
	var st entity.RegistrationStatus
	err := r.q.QueryRow(ctx,
		`SELECT is_open, updated_by, updated_at FROM registro_usuarios WHERE id = 1`).
		Scan(&st.IsOpen, &st.UpdatedBy, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.RegistrationStatus{IsOpen: true}, nil
		}
		return nil, domain.StoreError("get registro", err)
	}
	return &st, nil
}

func (r *RegistrationRepo) Set(ctx context.Context, st *entity.RegistrationStatus) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO registro_usuarios (id, is_open, updated_by, updated_at) VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET is_open = EXCLUDED.is_open,
			updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`,
		st.IsOpen, st.UpdatedBy, st.UpdatedAt)
	if err != nil {
		return domain.StoreError("set registro", err)
	}
	return nil
}

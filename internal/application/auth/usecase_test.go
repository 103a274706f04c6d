package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Equipos-api/internal/application/auth"
	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/memory"
	"github.com/jhoicas/Equipos-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(s *memory.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewUserRepository(s), memory.NewUserRoleRepository(s),
		memory.NewRegistrationRepository(s), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "equipos-api-test"})
}

func TestRegisterYLogin(t *testing.T) {
	ctx := context.Background()
	uc := newAuth(memory.NewStore())

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: " Ana@Empresa.com ", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@empresa.com", user.Email)
	assert.Equal(t, entity.RoleVisitante, user.Role)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@empresa.com", Password: "otroSecreto"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@empresa.com", Password: "secreto123"})
	require.NoError(t, err)
	id, email, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, "ana@empresa.com", email)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@empresa.com", Password: "mal"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@empresa.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_Cerrado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, memory.NewRegistrationRepository(s).Set(ctx, &entity.RegistrationStatus{IsOpen: false}))

	_, err := newAuth(s).RegisterUser(ctx, dto.RegisterRequest{Email: "ana@empresa.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrRegistrationClosed)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	uc := newAuth(memory.NewStore())
	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@empresa.com", Password: "secreto123"})
	require.NoError(t, err)

	err = uc.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{CurrentPassword: "incorrecta", NewPassword: "nuevaClave1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, uc.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{CurrentPassword: "secreto123", NewPassword: "nuevaClave1"}))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@empresa.com", Password: "nuevaClave1"})
	assert.NoError(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	uc := newAuth(s)

	created, err := uc.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = uc.EnsureAdmin(ctx, "admin@empresa.com", "admin12345")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "admin@empresa.com", "admin12345")
	require.NoError(t, err)
	assert.False(t, created)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@empresa.com", Password: "admin12345"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)
}

package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
)

// roleResolver es el contrato mínimo que necesita el middleware para resolver el rol.
// Lo implementa *usecase.UserUseCase; el uso de interfaz evita el import circular.
type roleResolver interface {
	RoleOf(ctx context.Context, userID string) (string, error)
}

// LoadRole resuelve el rol del usuario contra user_roles en cada petición y lo deja en
// c.Locals. Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUserID).
//
// Comportamiento:
//   - 401 si no hay user_id en el contexto.
//   - 503 si falla la consulta del rol.
func LoadRole(roles roleResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}
		role, err := roles.RoleOf(c.UserContext(), userID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "ROLE_CHECK_FAILED",
				Message: "no se pudo verificar el rol, intente más tarde",
			})
		}
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Debe usarse DESPUÉS de LoadRole.
//   - 401 MISSING_ROLE si no se cargó rol.
//   - 403 FORBIDDEN si el rol no está permitido.
func RequireRole(allowed ...string) fiber.Handler {
	set := make(map[string]bool, len(allowed))
	for _, r := range allowed {
		set[r] = true
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "MISSING_ROLE",
				Message: "rol no disponible en el contexto",
			})
		}
		if !set[role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol '" + role + "' no tiene acceso a este recurso",
			})
		}
		return c.Next()
	}
}

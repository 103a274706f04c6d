package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/usecase"
)

// UserHandler administración de usuarios, roles y estado del registro.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios con su rol
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListUsers(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetRole godoc
// @Summary      Cambiar el rol de un usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del usuario"
// @Param        body  body  dto.SetRoleRequest  true  "Rol nuevo"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	var in dto.SetRoleRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SetRole(c.UserContext(), c.Params("id"), in.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Tags         users
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteUser(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegistrationStatus godoc
// @Summary      Estado del registro de usuarios
// @Tags         users
// @Produce      json
// @Success      200  {object}  dto.RegistrationStatusResponse
// @Router       /api/registration-status [get]
func (h *UserHandler) RegistrationStatus(c *fiber.Ctx) error {
	out, err := h.uc.RegistrationStatus(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetRegistrationStatus godoc
// @Summary      Abrir o cerrar el registro de usuarios
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistrationStatusRequest  true  "is_open"
// @Success      200   {object}  dto.RegistrationStatusResponse
// @Router       /api/registration-status [put]
func (h *UserHandler) SetRegistrationStatus(c *fiber.Ctx) error {
	var in dto.RegistrationStatusRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SetRegistration(c.UserContext(), *in.IsOpen, GetEmail(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/usecase"
	"github.com/jhoicas/Equipos-api/internal/domain"
)

// BusinessUnitHandler unidades de negocio y su lista de usuarios habilitados.
type BusinessUnitHandler struct {
	uc *usecase.BusinessUnitUseCase
}

// NewBusinessUnitHandler construye el handler.
func NewBusinessUnitHandler(uc *usecase.BusinessUnitUseCase) *BusinessUnitHandler {
	return &BusinessUnitHandler{uc: uc}
}

// List godoc
// @Summary      Listar unidades de negocio
// @Tags         business-units
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BusinessUnitResponse
// @Router       /api/business-units [get]
func (h *BusinessUnitHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Visible godoc
// @Summary      Unidades sobre las que el usuario puede operar
// @Tags         business-units
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BusinessUnitResponse
// @Router       /api/business-units/visible [get]
func (h *BusinessUnitHandler) Visible(c *fiber.Ctx) error {
	list, err := h.uc.VisibleUnits(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewBusinessUnitResponses(list))
}

// Create godoc
// @Summary      Crear unidad de negocio
// @Tags         business-units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BusinessUnitRequest  true  "Nombre y usuarios habilitados"
// @Success      201   {object}  dto.BusinessUnitResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/business-units [post]
func (h *BusinessUnitHandler) Create(c *fiber.Ctx) error {
	var in dto.BusinessUnitRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar unidad de negocio
// @Tags         business-units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string                   true  "Nombre actual"
// @Param        body  body  dto.BusinessUnitRequest  true  "Nombre y usuarios habilitados"
// @Success      200   {object}  dto.BusinessUnitResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/business-units/{name} [put]
func (h *BusinessUnitHandler) Update(c *fiber.Ctx) error {
	name, err := unitName(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.BusinessUnitRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), name, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar unidad de negocio
// @Tags         business-units
// @Security     Bearer
// @Param        name  path  string  true  "Nombre"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business-units/{name} [delete]
func (h *BusinessUnitHandler) Delete(c *fiber.Ctx) error {
	name, err := unitName(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), name); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BlockAll godoc
// @Summary      Bloquear todas las unidades
// @Tags         business-units
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/business-units/block-all [post]
func (h *BusinessUnitHandler) BlockAll(c *fiber.Ctx) error {
	n, err := h.uc.BlockAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

// UnblockAll godoc
// @Summary      Desbloquear todas las unidades
// @Tags         business-units
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/business-units/unblock-all [post]
func (h *BusinessUnitHandler) UnblockAll(c *fiber.Ctx) error {
	n, err := h.uc.UnblockAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

// unitName el nombre llega URL-encoded ("Planta%20Norte").
func unitName(c *fiber.Ctx) (string, error) {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return "", domain.Validationf("nombre de unidad inválido")
	}
	return name, nil
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Equipos-api/internal/application/assignment"
	"github.com/jhoicas/Equipos-api/internal/application/catalog"
	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/usecase"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/loan"
)

// EquipmentHandler catálogo de equipos, carga masiva y disponibilidad.
type EquipmentHandler struct {
	uc       *usecase.EquipmentUseCase
	importer *catalog.Importer
	resolver *assignment.Resolver
}

// NewEquipmentHandler construye el handler.
func NewEquipmentHandler(uc *usecase.EquipmentUseCase, importer *catalog.Importer, resolver *assignment.Resolver) *EquipmentHandler {
	return &EquipmentHandler{uc: uc, importer: importer, resolver: resolver}
}

// List godoc
// @Summary      Listar equipos
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  false  "Tipo de equipo"
// @Success      200   {array}  dto.EquipmentResponse
// @Router       /api/equipment [get]
func (h *EquipmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("type"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener equipo por código
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código"
// @Success      200   {object}  dto.EquipmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/equipment/{code} [get]
func (h *EquipmentHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear equipo
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EquipmentRequest  true  "Datos del equipo"
// @Success      201   {object}  dto.EquipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipment [post]
func (h *EquipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.EquipmentRequest
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
// @Summary      Actualizar equipo
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string                      true  "Código"
// @Param        body  body  dto.UpdateEquipmentRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.EquipmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/equipment/{code} [put]
func (h *EquipmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEquipmentRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("code"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar equipo
// @Description  Solo si no tiene asignaciones registradas.
// @Tags         equipment
// @Security     Bearer
// @Param        code  path  string  true  "Código"
// @Success      204
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipment/{code} [delete]
func (h *EquipmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("code")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Types godoc
// @Summary      Tipos de equipo del catálogo
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/equipment/types [get]
func (h *EquipmentHandler) Types(c *fiber.Ctx) error {
	out, err := h.uc.Types(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Capacities godoc
// @Summary      Capacidades declaradas para un tipo
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  true  "Tipo de equipo"
// @Success      200   {array}  string
// @Router       /api/equipment/capacities [get]
func (h *EquipmentHandler) Capacities(c *fiber.Ctx) error {
	out, err := h.uc.Capacities(c.UserContext(), c.Query("type"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Available godoc
// @Summary      Equipos libres en un período
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        type     query  string  true   "Tipo de equipo"
// @Param        from     query  string  true   "AAAA-MM-DD"
// @Param        to       query  string  true   "AAAA-MM-DD"
// @Param        exclude  query  string  false  "Código a excluir"
// @Success      200  {array}   dto.EquipmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/equipment/available [get]
func (h *EquipmentHandler) Available(c *fiber.Ctx) error {
	var q dto.AvailabilityQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	from, _ := loan.ParseDate(q.From)
	to, _ := loan.ParseDate(q.To)
	list, err := h.resolver.AvailableEquipment(c.UserContext(), q.Type, from, to, q.Exclude)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewEquipmentResponses(list))
}

// Import godoc
// @Summary      Carga masiva de equipos
// @Description  Archivo .xlsx o .csv en el campo "file". Inserta o actualiza por código.
// @Tags         equipment
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Planilla de equipos"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/equipment/import [post]
func (h *EquipmentHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, domain.Validationf("falta el archivo en el campo file"))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, domain.Validationf("no se pudo leer el archivo"))
	}
	defer f.Close()

	out, err := h.importer.Import(c.UserContext(), fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Equipos-api/internal/application/assignment"
	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/report"
	"github.com/jhoicas/Equipos-api/internal/application/usecase"
)

// RequestHandler maneja solicitudes de equipos, su historial y el equipo disponible para cada una.
type RequestHandler struct {
	uc       *usecase.RequestUseCase
	resolver *assignment.Resolver
	reports  *report.ReportUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *usecase.RequestUseCase, resolver *assignment.Resolver, reports *report.ReportUseCase) *RequestHandler {
	return &RequestHandler{uc: uc, resolver: resolver, reports: reports}
}

// Create godoc
// @Summary      Crear solicitudes
// @Description  Una fila por unidad pedida.
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestsRequest  true  "Datos de la solicitud"
// @Success      201   {array}   dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestsRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar solicitudes visibles
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        business_unit  query  string  false  "Unidad de negocio"
// @Param        type           query  string  false  "Tipo de equipo"
// @Param        month          query  string  false  "AAAA-MM"
// @Param        unassigned     query  bool    false  "Solo sin equipo"
// @Param        limit          query  int     false  "Límite"  default(100)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.RequestListResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	var q dto.RequestFilterQuery
	if err := c.QueryParser(&q); err != nil {
		return writeError(c, errInvalidQuery)
	}
	q.DefaultPage()
	if err := validateQuery(&q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar solicitud
// @Description  Solo si no tiene equipo asignado.
// @Tags         requests
// @Security     Bearer
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [delete]
func (h *RequestHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), GetIdentity(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateStartDate godoc
// @Summary      Cargar fecha de inicio real
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                         true  "ID de la solicitud"
// @Param        body  body  dto.UpdateStartDateRequest  true  "start_date vacío elimina el ajuste"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/start-date [patch]
func (h *RequestHandler) UpdateStartDate(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateStartDateRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateStartDate(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Available godoc
// @Summary      Equipos disponibles para la solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      200  {array}   dto.EquipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/available [get]
func (h *RequestHandler) Available(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.resolver.AvailableForRequest(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewEquipmentResponses(list))
}

// History godoc
// @Summary      Historial de movimientos
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/history [get]
func (h *RequestHandler) History(c *fiber.Ctx) error {
	id, err := h.readable(c)
	if err != nil {
		return writeError(c, err)
	}
	req, chain, err := h.resolver.History(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.HistoryResponse{
		Request:     *dto.NewRequestResponse(req),
		Assignments: dto.NewAssignmentResponses(chain),
	})
}

// HistoryPDF godoc
// @Summary      Historial de movimientos en PDF
// @Tags         requests
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/history.pdf [get]
func (h *RequestHandler) HistoryPDF(c *fiber.Ctx) error {
	id, err := h.readable(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, name, err := h.reports.RequestHistoryPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/pdf", name, doc)
}

// readable valida el :id y que la identidad pueda ver la solicitud.
func (h *RequestHandler) readable(c *fiber.Ctx) (int64, error) {
	id, err := pathID(c)
	if err != nil {
		return 0, err
	}
	if _, err := h.uc.Get(c.UserContext(), GetIdentity(c), id); err != nil {
		return 0, err
	}
	return id, nil
}

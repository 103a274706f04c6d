package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Equipos-api/internal/application/assignment"
	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/report"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/loan"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AssignmentHandler asignación, reemplazo y retiro de equipos (taller y admin).
type AssignmentHandler struct {
	resolver *assignment.Resolver
	reports  *report.ReportUseCase
}

// NewAssignmentHandler construye el handler.
func NewAssignmentHandler(resolver *assignment.Resolver, reports *report.ReportUseCase) *AssignmentHandler {
	return &AssignmentHandler{resolver: resolver, reports: reports}
}

// Assign godoc
// @Summary      Asignar equipo a una solicitud
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignRequest  true  "Solicitud y equipo"
// @Success      201   {object}  dto.AssignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assignments [post]
func (h *AssignmentHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	a, err := h.resolver.Assign(c.UserContext(), assignment.AssignInput{
		RequestID:     in.RequestID,
		EquipmentCode: in.EquipmentCode,
		Actor:         GetEmail(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAssignmentResponse(a))
}

// List godoc
// @Summary      Listar asignaciones
// @Tags         assignments
// @Security     Bearer
// @Produce      json
// @Param        business_unit  query  string  false  "Unidad de negocio"
// @Param        request_id     query  int     false  "Solicitud"
// @Param        active         query  bool    false  "Solo activas"
// @Param        limit          query  int     false  "Límite"  default(100)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.AssignmentResponse
// @Router       /api/assignments [get]
func (h *AssignmentHandler) List(c *fiber.Ctx) error {
	var q dto.AssignmentFilterQuery
	if err := c.QueryParser(&q); err != nil {
		return writeError(c, errInvalidQuery)
	}
	q.DefaultPage()
	if err := validateQuery(&q); err != nil {
		return writeError(c, err)
	}
	list, err := h.resolver.List(c.UserContext(), repository.AssignmentFilter{
		BusinessUnit: q.BusinessUnit,
		RequestID:    q.RequestID,
		ActiveOnly:   q.ActiveOnly,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAssignmentResponses(list))
}

// ReplacementCandidates godoc
// @Summary      Equipos que pueden reemplazar al asignado
// @Tags         assignments
// @Security     Bearer
// @Produce      json
// @Param        id              path   int     true  "ID de la asignación"
// @Param        effective_date  query  string  true  "AAAA-MM-DD"
// @Success      200  {array}   dto.EquipmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/assignments/{id}/replacement-candidates [get]
func (h *AssignmentHandler) ReplacementCandidates(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	eff, err := loan.ParseDate(c.Query("effective_date"))
	if err != nil {
		return writeError(c, domain.Validationf("effective_date debe tener formato AAAA-MM-DD"))
	}
	list, err := h.resolver.AvailableForReplacement(c.UserContext(), id, eff)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewEquipmentResponses(list))
}

// Replace godoc
// @Summary      Reemplazar el equipo de una asignación
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                 true  "ID de la asignación activa"
// @Param        body  body  dto.ReplaceRequest  true  "Equipo nuevo, fecha efectiva y motivo"
// @Success      201   {object}  dto.AssignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/assignments/{id}/replace [post]
func (h *AssignmentHandler) Replace(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ReplaceRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	eff, err := loan.ParseDate(in.EffectiveDate)
	if err != nil {
		return writeError(c, domain.Validationf("effective_date debe tener formato AAAA-MM-DD"))
	}
	a, err := h.resolver.Replace(c.UserContext(), assignment.ReplaceInput{
		AssignmentID:     id,
		NewEquipmentCode: in.EquipmentCode,
		EffectiveDate:    eff,
		Reason:           in.Reason,
		Actor:            GetEmail(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAssignmentResponse(a))
}

// Withdraw godoc
// @Summary      Retirar el equipo de una asignación
// @Description  Recorta la solicitud a la fecha de retiro y genera una nueva por el resto del período.
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "ID de la asignación activa"
// @Param        body  body  dto.WithdrawRequest  true  "Fecha de retiro"
// @Success      200   {object}  dto.WithdrawResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/assignments/{id}/withdraw [post]
func (h *AssignmentHandler) Withdraw(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.WithdrawRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	rd, err := loan.ParseDate(in.RetireDate)
	if err != nil {
		return writeError(c, domain.Validationf("retire_date debe tener formato AAAA-MM-DD"))
	}
	res, err := h.resolver.Withdraw(c.UserContext(), assignment.WithdrawInput{
		AssignmentID: id,
		RetireDate:   rd,
		Actor:        GetEmail(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.WithdrawResponse{
		Closed:   *dto.NewAssignmentResponse(res.Closed),
		Request:  *dto.NewRequestResponse(res.Request),
		FollowUp: dto.NewRequestResponse(res.FollowUp),
	})
}

// Delete godoc
// @Summary      Eliminar asignación
// @Tags         assignments
// @Security     Bearer
// @Param        id   path  int  true  "ID de la asignación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.resolver.DeleteAssignment(c.UserContext(), id, GetEmail(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export godoc
// @Summary      Exportar asignaciones a XLSX
// @Tags         assignments
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        business_unit  query  string  false  "Unidad de negocio"
// @Param        active         query  bool    false  "Solo activas"
// @Success      200  {file}  file
// @Router       /api/assignments/export.xlsx [get]
func (h *AssignmentHandler) Export(c *fiber.Ctx) error {
	var q dto.AssignmentFilterQuery
	if err := c.QueryParser(&q); err != nil {
		return writeError(c, errInvalidQuery)
	}
	// La exportación no pagina.
	q.Limit, q.Offset = 0, 0
	data, name, err := h.reports.AssignmentsXLSX(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, xlsxContentType, name, data)
}

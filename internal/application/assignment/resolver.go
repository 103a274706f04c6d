// Package assignment implementa el ciclo de vida de las asignaciones de equipos:
// disponibilidad, asignación, reemplazo, retiro y borrado administrativo.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/loan"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
	"github.com/jhoicas/Equipos-api/pkg/logger"
)

// Resolver decide qué equipos se pueden asignar y mantiene la cadena de asignaciones
// de cada solicitud. Todas las operaciones de varios pasos corren dentro de txRunner.
type Resolver struct {
	txRunner    TxRunner
	equipRepo   repository.EquipmentRepository
	requestRepo repository.RequestRepository
	assignRepo  repository.AssignmentRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewResolver construye el resolver. Los repositorios se usan para las lecturas
// fuera de transacción (consultas de disponibilidad e historial).
func NewResolver(
	txRunner TxRunner,
	equipRepo repository.EquipmentRepository,
	requestRepo repository.RequestRepository,
	assignRepo repository.AssignmentRepository,
	log *logger.Logger,
) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		txRunner:    txRunner,
		equipRepo:   equipRepo,
		requestRepo: requestRepo,
		assignRepo:  assignRepo,
		log:         log.Component("assignment"),
		now:         time.Now,
	}
}

// AssignInput entrada de Assign.
type AssignInput struct {
	RequestID     int64
	EquipmentCode string
	Actor         string
}

// ReplaceInput entrada de Replace.
type ReplaceInput struct {
	AssignmentID     int64
	NewEquipmentCode string
	EffectiveDate    time.Time
	Reason           string
	Actor            string
}

// WithdrawInput entrada de Withdraw.
type WithdrawInput struct {
	AssignmentID int64
	RetireDate   time.Time
	Actor        string
}

// WithdrawResult resultado del retiro. FollowUp es nil si no quedaba período por cubrir.
type WithdrawResult struct {
	Closed   *entity.Assignment
	Request  *entity.Request
	FollowUp *entity.Request
}

// AvailableEquipment devuelve los equipos del tipo pedido sin asignaciones que se
// solapen con [from, to]. excludeCode vacío no excluye nada. Sin resultados no es error.
func (r *Resolver) AvailableEquipment(ctx context.Context, equipmentType string, from, to time.Time, excludeCode string) ([]*entity.Equipment, error) {
	equipmentType = strings.TrimSpace(equipmentType)
	if equipmentType == "" {
		return nil, domain.Validationf("el tipo de equipo es requerido")
	}
	from, to = loan.NormalizeDate(from), loan.NormalizeDate(to)
	if from.After(to) {
		return nil, domain.Validationf("la fecha desde (%s) no puede ser posterior a la fecha hasta (%s)",
			loan.FormatDate(from), loan.FormatDate(to))
	}
	return available(ctx, r.equipRepo, r.requestRepo, r.assignRepo, equipmentType, from, to, excludeCode)
}

// AvailableForRequest disponibilidad para una solicitud, desde su fecha de inicio efectiva.
func (r *Resolver) AvailableForRequest(ctx context.Context, requestID int64) ([]*entity.Equipment, error) {
	req, err := r.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.NotFoundf("la solicitud %d no existe", requestID)
	}
	return r.AvailableEquipment(ctx, req.Type, req.EffectiveFrom(), req.DateTo, "")
}

// AvailableForReplacement candidatos para reemplazar el equipo de una asignación activa
// a partir de effectiveDate. El equipo actual no se ofrece.
func (r *Resolver) AvailableForReplacement(ctx context.Context, assignmentID int64, effectiveDate time.Time) ([]*entity.Equipment, error) {
	if effectiveDate.IsZero() {
		return nil, domain.Validationf("la fecha efectiva es requerida")
	}
	old, req, err := loadActive(ctx, r.requestRepo, r.assignRepo, assignmentID)
	if err != nil {
		return nil, err
	}
	eff := loan.NormalizeDate(effectiveDate)
	if err := withinWindow(eff, old.StartDate, req.DateTo, "la fecha efectiva"); err != nil {
		return nil, err
	}
	return r.AvailableEquipment(ctx, req.Type, eff, req.DateTo, old.EquipmentCode)
}

// Assign crea la asignación inicial de una solicitud, cubriendo desde su inicio
// efectivo hasta su fecha hasta, y actualiza el equipo asignado de la solicitud.
func (r *Resolver) Assign(ctx context.Context, in AssignInput) (*entity.Assignment, error) {
	code := strings.TrimSpace(in.EquipmentCode)
	if in.RequestID <= 0 {
		return nil, domain.Validationf("la solicitud es requerida")
	}
	if code == "" {
		return nil, domain.Validationf("el código de equipo es requerido")
	}

	var created *entity.Assignment
	wrote := false
	err := r.txRunner.Run(ctx, func(
		equipos repository.EquipmentRepository,
		solicitudes repository.RequestRepository,
		asignaciones repository.AssignmentRepository,
	) error {
		req, err := solicitudes.GetByID(ctx, in.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.NotFoundf("la solicitud %d no existe", in.RequestID)
		}
		active, err := asignaciones.ActiveByRequest(ctx, req.ID)
		if err != nil {
			return err
		}
		if active != nil {
			return domain.Conflictf("ya existe una asignación activa para la solicitud %d (equipo %s)", req.ID, active.EquipmentCode)
		}
		chain, err := asignaciones.ListByRequest(ctx, req.ID)
		if err != nil {
			return err
		}
		for _, prev := range chain {
			if prev.Status == entity.AssignmentWithdrawn {
				return domain.Conflictf("la solicitud %d ya tuvo un equipo retirado (asignación %d); el resto del período corresponde a su continuación", req.ID, prev.ID)
			}
		}

		from, to := req.EffectiveFrom(), req.DateTo
		if err := checkFree(ctx, equipos, solicitudes, asignaciones, code, req.Type, from, to); err != nil {
			return err
		}

		a := &entity.Assignment{
			EquipmentCode: code,
			RequestID:     req.ID,
			StartDate:     loan.NormalizeDate(from),
			EndDate:       datePtr(to),
			AssignedBy:    in.Actor,
			AssignedAt:    r.now(),
			Status:        entity.AssignmentActive,
		}
		if err := asignaciones.Create(ctx, a); err != nil {
			return err
		}
		wrote = true

		req.AssignedEquipment = &code
		if err := solicitudes.Update(ctx, req); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, r.fail("assign", wrote, err, in.RequestID, 0)
	}
	r.log.Info().Int64("solicitud", in.RequestID).Str("equipo", code).Int64("asignacion", created.ID).
		Str("actor", in.Actor).Msg("equipo asignado")
	return created, nil
}

// Replace cierra la asignación activa en EffectiveDate y abre otra con el nuevo equipo
// desde esa fecha hasta el fin de la solicitud. La disponibilidad del nuevo equipo se
// verifica antes de cualquier escritura.
func (r *Resolver) Replace(ctx context.Context, in ReplaceInput) (*entity.Assignment, error) {
	code := strings.TrimSpace(in.NewEquipmentCode)
	reason := strings.TrimSpace(in.Reason)
	switch {
	case in.AssignmentID <= 0:
		return nil, domain.Validationf("la asignación es requerida")
	case code == "":
		return nil, domain.Validationf("el código del equipo de reemplazo es requerido")
	case in.EffectiveDate.IsZero():
		return nil, domain.Validationf("la fecha efectiva es requerida")
	case reason == "":
		return nil, domain.Validationf("el motivo del reemplazo es requerido")
	}
	eff := loan.NormalizeDate(in.EffectiveDate)

	var created *entity.Assignment
	var requestID int64
	wrote := false
	err := r.txRunner.Run(ctx, func(
		equipos repository.EquipmentRepository,
		solicitudes repository.RequestRepository,
		asignaciones repository.AssignmentRepository,
	) error {
		old, req, err := loadActive(ctx, solicitudes, asignaciones, in.AssignmentID)
		if err != nil {
			return err
		}
		requestID = req.ID
		if err := withinWindow(eff, old.StartDate, req.DateTo, "la fecha efectiva"); err != nil {
			return err
		}
		if code == old.EquipmentCode {
			return domain.Validationf("el equipo de reemplazo debe ser distinto del asignado (%s)", code)
		}
		if err := checkFree(ctx, equipos, solicitudes, asignaciones, code, req.Type, eff, req.DateTo); err != nil {
			return err
		}

		if err := asignaciones.Close(ctx, old.ID, eff, entity.AssignmentReplaced); err != nil {
			return err
		}
		wrote = true

		oldID := old.ID
		a := &entity.Assignment{
			EquipmentCode:     code,
			RequestID:         req.ID,
			StartDate:         eff,
			EndDate:           datePtr(req.DateTo),
			IsReplacement:     true,
			ReplacedID:        &oldID,
			ReplacementReason: reason,
			AssignedBy:        in.Actor,
			AssignedAt:        r.now(),
			Status:            entity.AssignmentActive,
		}
		if err := asignaciones.Create(ctx, a); err != nil {
			return err
		}

		req.AssignedEquipment = &code
		if err := solicitudes.Update(ctx, req); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, r.fail("replace", wrote, err, requestID, in.AssignmentID)
	}
	r.log.Info().Int64("solicitud", requestID).Int64("reemplazada", in.AssignmentID).
		Int64("asignacion", created.ID).Str("equipo", code).Str("motivo", reason).
		Str("actor", in.Actor).Msg("equipo reemplazado")
	return created, nil
}

// Withdraw cierra la asignación en RetireDate, recorta la solicitud hasta esa fecha y
// genera una solicitud nueva, sin equipo, por el resto del período original.
func (r *Resolver) Withdraw(ctx context.Context, in WithdrawInput) (*WithdrawResult, error) {
	if in.AssignmentID <= 0 {
		return nil, domain.Validationf("la asignación es requerida")
	}
	if in.RetireDate.IsZero() {
		return nil, domain.Validationf("la fecha de retiro es requerida")
	}
	rd := loan.NormalizeDate(in.RetireDate)

	var res WithdrawResult
	var requestID int64
	wrote := false
	err := r.txRunner.Run(ctx, func(
		_ repository.EquipmentRepository,
		solicitudes repository.RequestRepository,
		asignaciones repository.AssignmentRepository,
	) error {
		a, req, err := loadActive(ctx, solicitudes, asignaciones, in.AssignmentID)
		if err != nil {
			return err
		}
		requestID = req.ID
		if err := withinWindow(rd, a.StartDate, req.DateTo, "la fecha de retiro"); err != nil {
			return err
		}
		originalTo := loan.NormalizeDate(req.DateTo)

		if err := asignaciones.Close(ctx, a.ID, rd, entity.AssignmentWithdrawn); err != nil {
			return err
		}
		wrote = true
		a.EndDate = datePtr(rd)
		a.Status = entity.AssignmentWithdrawn

		// Con un inicio real anterior a la fecha desde, la ventana se corre para que desde <= hasta.
		req.DateTo = rd
		if rd.Before(req.DateFrom) {
			req.DateFrom = rd
		}
		req.AssignedEquipment = nil
		if err := solicitudes.Update(ctx, req); err != nil {
			return err
		}
		res.Closed, res.Request = a, req

		if !rd.Before(originalTo) {
			return nil
		}
		follow := &entity.Request{
			BusinessUnit: req.BusinessUnit,
			Type:         req.Type,
			Capacity:     req.Capacity,
			Quantity:     1,
			DateFrom:     rd,
			DateTo:       originalTo,
			Notes:        fmt.Sprintf("Esta solicitud reemplaza a la %d", req.ID),
			CreatorEmail: req.CreatorEmail,
			CreatedAt:    r.now(),
		}
		if err := solicitudes.CreateBatch(ctx, []*entity.Request{follow}); err != nil {
			return err
		}
		res.FollowUp = follow
		return nil
	})
	if err != nil {
		return nil, r.fail("withdraw", wrote, err, requestID, in.AssignmentID)
	}
	ev := r.log.Info().Int64("solicitud", requestID).Int64("asignacion", in.AssignmentID).
		Str("fecha_retiro", loan.FormatDate(rd)).Str("actor", in.Actor)
	if res.FollowUp != nil {
		ev = ev.Int64("nueva_solicitud", res.FollowUp.ID)
	}
	ev.Msg("equipo retirado")
	return &res, nil
}

// DeleteAssignment borra una asignación. Si la borrada era la activa, el equipo asignado
// de la solicitud se limpia. Las vecinas de la cadena se conservan.
func (r *Resolver) DeleteAssignment(ctx context.Context, assignmentID int64, actor string) error {
	var requestID int64
	wrote := false
	err := r.txRunner.Run(ctx, func(
		_ repository.EquipmentRepository,
		solicitudes repository.RequestRepository,
		asignaciones repository.AssignmentRepository,
	) error {
		a, err := asignaciones.GetByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.NotFoundf("la asignación %d no existe", assignmentID)
		}
		requestID = a.RequestID
		req, err := solicitudes.GetByID(ctx, a.RequestID)
		if err != nil {
			return err
		}
		if err := asignaciones.Delete(ctx, a.ID); err != nil {
			return err
		}
		wrote = true

		if req == nil || !req.HasAssignedEquipment() || a.Status != entity.AssignmentActive {
			return nil
		}
		req.AssignedEquipment = nil
		return solicitudes.Update(ctx, req)
	})
	if err != nil {
		return r.fail("delete", wrote, err, requestID, assignmentID)
	}
	r.log.Info().Int64("solicitud", requestID).Int64("asignacion", assignmentID).Str("actor", actor).
		Msg("asignación eliminada")
	return nil
}

// List asignaciones filtradas, ordenadas por inicio.
func (r *Resolver) List(ctx context.Context, f repository.AssignmentFilter) ([]*entity.Assignment, error) {
	return r.assignRepo.List(ctx, f)
}

// History devuelve la cadena de asignaciones de la solicitud en orden cronológico.
func (r *Resolver) History(ctx context.Context, requestID int64) (*entity.Request, []*entity.Assignment, error) {
	req, err := r.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if req == nil {
		return nil, nil, domain.NotFoundf("la solicitud %d no existe", requestID)
	}
	chain, err := r.assignRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	return req, chain, nil
}

// fail traduce el error de una operación de varios pasos. Si ya hubo una escritura y
// el runner no deshace, el estado quedó a medias y se reporta como fallo parcial.
func (r *Resolver) fail(op string, wrote bool, err error, requestID, assignmentID int64) error {
	if wrote && !r.txRunner.Atomic() && !errors.Is(err, domain.ErrPartialFailure) {
		r.log.Error().Err(err).Str("op", op).Int64("solicitud", requestID).Int64("asignacion", assignmentID).
			Msg("fallo parcial: requiere conciliación manual")
		return fmt.Errorf("%w: %s quedó incompleto en la solicitud %d: %w", domain.ErrPartialFailure, op, requestID, err)
	}
	switch {
	case errors.Is(err, domain.ErrConflict):
		r.log.Warn().Str("op", op).Int64("solicitud", requestID).Msg(domain.UserMessage(err))
	case errors.Is(err, domain.ErrStore):
		r.log.Error().Err(err).Str("op", op).Int64("solicitud", requestID).Msg("error del almacenamiento")
	}
	return err
}

// loadActive carga una asignación activa junto con su solicitud.
func loadActive(ctx context.Context, solicitudes repository.RequestRepository, asignaciones repository.AssignmentRepository, id int64) (*entity.Assignment, *entity.Request, error) {
	a, err := asignaciones.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if a == nil {
		return nil, nil, domain.NotFoundf("la asignación %d no existe", id)
	}
	if !a.IsActive() {
		return nil, nil, domain.Conflictf("la asignación %d ya está cerrada (%s)", id, a.Status)
	}
	req, err := solicitudes.GetByID(ctx, a.RequestID)
	if err != nil {
		return nil, nil, err
	}
	if req == nil {
		return nil, nil, domain.NotFoundf("la solicitud %d no existe", a.RequestID)
	}
	return a, req, nil
}

func withinWindow(d, start, end time.Time, label string) error {
	start, end = loan.NormalizeDate(start), loan.NormalizeDate(end)
	if d.Before(start) || d.After(end) {
		return domain.Validationf("%s (%s) debe estar entre %s y %s", label,
			loan.FormatDate(d), loan.FormatDate(start), loan.FormatDate(end))
	}
	return nil
}

// checkFree bloquea el equipo y verifica que sea del tipo pedido y esté libre en [from, to].
func checkFree(
	ctx context.Context,
	equipos repository.EquipmentRepository,
	solicitudes repository.RequestRepository,
	asignaciones repository.AssignmentRepository,
	code, equipmentType string,
	from, to time.Time,
) error {
	eq, err := equipos.LockByCode(ctx, code)
	if err != nil {
		return err
	}
	if eq == nil {
		return domain.NotFoundf("el equipo %s no existe", code)
	}
	if eq.Type != equipmentType {
		return domain.Validationf("el equipo %s es de tipo %q y la solicitud pide %q", code, eq.Type, equipmentType)
	}
	free, err := availableAmong(ctx, solicitudes, asignaciones, []*entity.Equipment{eq}, from, to)
	if err != nil {
		return err
	}
	if len(free) == 0 {
		return domain.Conflictf("el equipo %s no está disponible entre %s y %s", code,
			loan.FormatDate(from), loan.FormatDate(to))
	}
	return nil
}

func available(
	ctx context.Context,
	equipos repository.EquipmentRepository,
	solicitudes repository.RequestRepository,
	asignaciones repository.AssignmentRepository,
	equipmentType string,
	from, to time.Time,
	excludeCode string,
) ([]*entity.Equipment, error) {
	all, err := equipos.List(ctx, repository.EquipmentFilter{Type: equipmentType})
	if err != nil {
		return nil, err
	}
	candidates := make([]*entity.Equipment, 0, len(all))
	for _, eq := range all {
		if eq.Type != equipmentType || (excludeCode != "" && eq.Code == excludeCode) {
			continue
		}
		candidates = append(candidates, eq)
	}
	return availableAmong(ctx, solicitudes, asignaciones, candidates, from, to)
}

// availableAmong filtra candidates contra sus asignaciones. Las abiertas se resuelven
// contra el fecha_hasta de su solicitud.
func availableAmong(
	ctx context.Context,
	solicitudes repository.RequestRepository,
	asignaciones repository.AssignmentRepository,
	candidates []*entity.Equipment,
	from, to time.Time,
) ([]*entity.Equipment, error) {
	if len(candidates) == 0 {
		return []*entity.Equipment{}, nil
	}
	codes := make([]string, len(candidates))
	for i, eq := range candidates {
		codes[i] = eq.Code
	}
	rows, err := asignaciones.ListByEquipment(ctx, codes)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string][]*entity.Assignment, len(codes))
	var openReqIDs []int64
	for _, a := range rows {
		byCode[a.EquipmentCode] = append(byCode[a.EquipmentCode], a)
		if a.EndDate == nil {
			openReqIDs = append(openReqIDs, a.RequestID)
		}
	}
	dateTo := map[int64]time.Time{}
	if len(openReqIDs) > 0 {
		reqs, err := solicitudes.GetByIDs(ctx, openReqIDs)
		if err != nil {
			return nil, err
		}
		for _, req := range reqs {
			dateTo[req.ID] = req.DateTo
		}
	}
	lookup := func(id int64) (time.Time, bool) {
		t, ok := dateTo[id]
		return t, ok
	}
	return loan.FilterAvailable(candidates, byCode, lookup, from, to), nil
}

func datePtr(t time.Time) *time.Time {
	d := loan.NormalizeDate(t)
	return &d
}

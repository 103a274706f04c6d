package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/loan"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

// workshopNote marca las solicitudes cargadas por taller en nombre de una unidad.
const workshopNote = "Creado por taller"

// RequestUseCase alta, consulta, ajuste y baja de solicitudes de equipos.
type RequestUseCase struct {
	requests    repository.RequestRepository
	assignments repository.AssignmentRepository
	units       *BusinessUnitUseCase
	now         func() time.Time
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(
	requests repository.RequestRepository,
	assignments repository.AssignmentRepository,
	units *BusinessUnitUseCase,
) *RequestUseCase {
	return &RequestUseCase{requests: requests, assignments: assignments, units: units, now: time.Now}
}

// Create valida la solicitud y la expande en una fila por unidad pedida.
func (uc *RequestUseCase) Create(ctx context.Context, actor entity.Identity, in dto.CreateRequestsRequest) ([]dto.RequestResponse, error) {
	from, err := loan.ParseDate(in.DateFrom)
	if err != nil {
		return nil, domain.Validationf("fecha desde inválida: %s", in.DateFrom)
	}
	to, err := loan.ParseDate(in.DateTo)
	if err != nil {
		return nil, domain.Validationf("fecha hasta inválida: %s", in.DateTo)
	}
	if from.After(to) {
		return nil, domain.Validationf("la fecha desde (%s) no puede ser posterior a la fecha hasta (%s)", in.DateFrom, in.DateTo)
	}
	unit := strings.TrimSpace(in.BusinessUnit)
	equipmentType := strings.TrimSpace(in.Type)
	if unit == "" || equipmentType == "" {
		return nil, domain.Validationf("unidad de negocio y tipo son requeridos")
	}
	qty := in.Quantity
	if qty <= 0 {
		qty = 1
	}

	ok, err := uc.units.CanActOn(ctx, actor, unit)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}

	notes := strings.TrimSpace(in.Notes)
	if actor.IsWorkshop() {
		if notes == "" {
			notes = workshopNote
		} else {
			notes = workshopNote + " - " + notes
		}
	}

	now := uc.now()
	rows := make([]*entity.Request, qty)
	for i := range rows {
		rows[i] = &entity.Request{
			BusinessUnit: unit,
			Type:         equipmentType,
			Capacity:     strings.TrimSpace(in.Capacity),
			Quantity:     1,
			DateFrom:     from,
			DateTo:       to,
			Notes:        notes,
			CreatorEmail: actor.Email,
			CreatedAt:    now,
		}
	}
	if err := uc.requests.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}
	return dto.NewRequestResponses(rows), nil
}

// List aplica la visibilidad del rol: taller y admin ven todo, solicitante solo lo que
// creó dentro de sus unidades visibles, visitante nada.
func (uc *RequestUseCase) List(ctx context.Context, actor entity.Identity, q dto.RequestFilterQuery) (*dto.RequestListResponse, error) {
	q.DefaultPage()
	resp := &dto.RequestListResponse{
		Items: []dto.RequestResponse{},
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	f := repository.RequestFilter{
		Type:           q.Type,
		OnlyUnassigned: q.OnlyUnassigned,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}
	if q.BusinessUnit != "" {
		f.BusinessUnits = []string{q.BusinessUnit}
	}
	if q.Month != "" {
		start, err := time.Parse("2006-01", q.Month)
		if err != nil {
			return nil, domain.Validationf("mes inválido: %s", q.Month)
		}
		end := start.AddDate(0, 1, -1)
		f.MonthStart, f.MonthEnd = &start, &end
	}

	switch {
	case actor.IsWorkshop():
	case actor.Role == entity.RoleSolicitante:
		visible, err := uc.units.VisibleUnits(ctx, actor)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(visible))
		for _, b := range visible {
			if q.BusinessUnit == "" || b.Name == q.BusinessUnit {
				names = append(names, b.Name)
			}
		}
		if len(names) == 0 {
			return resp, nil
		}
		f.BusinessUnits = names
		f.CreatorEmail = actor.Email
	default:
		return resp, nil
	}

	list, err := uc.requests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	resp.Items = dto.NewRequestResponses(list)
	return resp, nil
}

// Get devuelve una solicitud. Un solicitante solo accede a las que creó.
func (uc *RequestUseCase) Get(ctx context.Context, actor entity.Identity, id int64) (*dto.RequestResponse, error) {
	req, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return dto.NewRequestResponse(req), nil
}

// UpdateStartDate carga (o elimina, con fecha vacía) la fecha de inicio real de la solicitud.
// No se permite mientras la solicitud tenga una asignación activa.
func (uc *RequestUseCase) UpdateStartDate(ctx context.Context, id int64, in dto.UpdateStartDateRequest) (*dto.RequestResponse, error) {
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.NotFoundf("la solicitud %d no existe", id)
	}
	active, err := uc.assignments.ActiveByRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.Conflictf("la solicitud %d tiene una asignación activa; reemplace o retire el equipo", id)
	}

	if in.StartDate == "" {
		req.StartOverride = nil
	} else {
		d, err := loan.ParseDate(in.StartDate)
		if err != nil {
			return nil, domain.Validationf("fecha de inicio inválida: %s", in.StartDate)
		}
		if d.After(req.DateTo) {
			return nil, domain.Validationf("la fecha de inicio (%s) no puede ser posterior a la fecha hasta (%s)",
				in.StartDate, loan.FormatDate(req.DateTo))
		}
		if d.Before(req.DateFrom) {
			return nil, domain.Validationf("la fecha de inicio (%s) no puede ser anterior a la fecha desde (%s)",
				in.StartDate, loan.FormatDate(req.DateFrom))
		}
		req.StartOverride = &d
	}
	if err := uc.requests.Update(ctx, req); err != nil {
		return nil, err
	}
	return dto.NewRequestResponse(req), nil
}

// Delete elimina una solicitud sin equipo asignado.
func (uc *RequestUseCase) Delete(ctx context.Context, actor entity.Identity, id int64) error {
	req, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}
	active, err := uc.assignments.ActiveByRequest(ctx, id)
	if err != nil {
		return err
	}
	if active != nil || req.HasAssignedEquipment() {
		return domain.Conflictf("la solicitud %d tiene equipo asignado", id)
	}
	return uc.requests.Delete(ctx, id)
}

func (uc *RequestUseCase) load(ctx context.Context, actor entity.Identity, id int64) (*entity.Request, error) {
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.NotFoundf("la solicitud %d no existe", id)
	}
	if !actor.IsWorkshop() && !strings.EqualFold(req.CreatorEmail, actor.Email) {
		return nil, domain.ErrForbidden
	}
	return req, nil
}

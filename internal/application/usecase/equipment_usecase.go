package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

// EquipmentUseCase CRUD del catálogo de equipos.
type EquipmentUseCase struct {
	repo        repository.EquipmentRepository
	assignments repository.AssignmentRepository
	requests    repository.RequestRepository
}

// NewEquipmentUseCase construye el caso de uso.
func NewEquipmentUseCase(
	repo repository.EquipmentRepository,
	assignments repository.AssignmentRepository,
	requests repository.RequestRepository,
) *EquipmentUseCase {
	return &EquipmentUseCase{repo: repo, assignments: assignments, requests: requests}
}

// List lista el catálogo (opcionalmente por tipo) con la unidad de la asignación activa de cada equipo.
func (uc *EquipmentUseCase) List(ctx context.Context, equipmentType string) ([]dto.EquipmentResponse, error) {
	list, err := uc.repo.List(ctx, repository.EquipmentFilter{Type: strings.TrimSpace(equipmentType)})
	if err != nil {
		return nil, err
	}
	if err := uc.annotate(ctx, list); err != nil {
		return nil, err
	}
	return dto.NewEquipmentResponses(list), nil
}

// Get obtiene un equipo por código.
func (uc *EquipmentUseCase) Get(ctx context.Context, code string) (*dto.EquipmentResponse, error) {
	eq, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if eq == nil {
		return nil, domain.NotFoundf("el equipo %s no existe", code)
	}
	if err := uc.annotate(ctx, []*entity.Equipment{eq}); err != nil {
		return nil, err
	}
	return dto.NewEquipmentResponse(eq), nil
}

// Create da de alta un equipo nuevo; ErrDuplicate si el código ya existe.
func (uc *EquipmentUseCase) Create(ctx context.Context, in dto.EquipmentRequest) (*dto.EquipmentResponse, error) {
	eq := &entity.Equipment{
		Code:             strings.TrimSpace(in.Code),
		Type:             strings.TrimSpace(in.Type),
		DeclaredCapacity: strings.TrimSpace(in.DeclaredCapacity),
		DetailA:          in.DetailA,
		DetailB:          in.DetailB,
	}
	if eq.Code == "" || eq.Type == "" {
		return nil, domain.Validationf("código y tipo de equipo son requeridos")
	}
	existing, err := uc.repo.GetByCode(ctx, eq.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el equipo %s ya existe", domain.ErrDuplicate, eq.Code)
	}
	if err := uc.repo.Upsert(ctx, eq); err != nil {
		return nil, err
	}
	return dto.NewEquipmentResponse(eq), nil
}

// Update actualiza los campos enviados.
func (uc *EquipmentUseCase) Update(ctx context.Context, code string, in dto.UpdateEquipmentRequest) (*dto.EquipmentResponse, error) {
	eq, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if eq == nil {
		return nil, domain.NotFoundf("el equipo %s no existe", code)
	}
	if in.Type != nil {
		eq.Type = strings.TrimSpace(*in.Type)
	}
	if in.DeclaredCapacity != nil {
		eq.DeclaredCapacity = strings.TrimSpace(*in.DeclaredCapacity)
	}
	if in.DetailA != nil {
		eq.DetailA = *in.DetailA
	}
	if in.DetailB != nil {
		eq.DetailB = *in.DetailB
	}
	if eq.Type == "" {
		return nil, domain.Validationf("el tipo de equipo es requerido")
	}
	if err := uc.repo.Upsert(ctx, eq); err != nil {
		return nil, err
	}
	return dto.NewEquipmentResponse(eq), nil
}

// Delete elimina un equipo sin historial de asignaciones.
func (uc *EquipmentUseCase) Delete(ctx context.Context, code string) error {
	rows, err := uc.assignments.ListByEquipment(ctx, []string{code})
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return domain.Conflictf("el equipo %s tiene %d asignaciones registradas", code, len(rows))
	}
	return uc.repo.Delete(ctx, code)
}

// Types tipos de equipo del catálogo (para el formulario de solicitud).
func (uc *EquipmentUseCase) Types(ctx context.Context) ([]string, error) {
	return uc.repo.Types(ctx)
}

// Capacities capacidades declaradas para un tipo.
func (uc *EquipmentUseCase) Capacities(ctx context.Context, equipmentType string) ([]string, error) {
	if strings.TrimSpace(equipmentType) == "" {
		return nil, domain.Validationf("el tipo de equipo es requerido")
	}
	return uc.repo.Capacities(ctx, equipmentType)
}

// annotate completa CurrentBusinessUnit desde las asignaciones activas.
func (uc *EquipmentUseCase) annotate(ctx context.Context, list []*entity.Equipment) error {
	if len(list) == 0 {
		return nil
	}
	codes := make([]string, len(list))
	for i, e := range list {
		codes[i] = e.Code
	}
	rows, err := uc.assignments.ListByEquipment(ctx, codes)
	if err != nil {
		return err
	}
	reqByCode := map[string]int64{}
	var ids []int64
	for _, a := range rows {
		if a.IsActive() {
			reqByCode[a.EquipmentCode] = a.RequestID
			ids = append(ids, a.RequestID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	reqs, err := uc.requests.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	unitByReq := make(map[int64]string, len(reqs))
	for _, r := range reqs {
		unitByReq[r.ID] = r.BusinessUnit
	}
	for _, e := range list {
		if id, ok := reqByCode[e.Code]; ok {
			e.CurrentBusinessUnit = unitByReq[id]
		}
	}
	return nil
}

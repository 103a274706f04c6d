package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/loan"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

// AssignmentRepo asignaciones en memoria.
type AssignmentRepo struct {
	s *Store
}

// NewAssignmentRepository construye el repositorio.
func NewAssignmentRepository(s *Store) *AssignmentRepo {
	return &AssignmentRepo{s: s}
}

func (r *AssignmentRepo) Create(_ context.Context, a *entity.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.solicitudes[a.RequestID]; !ok {
		return domain.NotFoundf("la solicitud %d no existe", a.RequestID)
	}
	if _, ok := r.s.equipos[a.EquipmentCode]; !ok {
		return domain.NotFoundf("el equipo %s no existe", a.EquipmentCode)
	}
	r.s.nextAssignmentID++
	a.ID = r.s.nextAssignmentID
	r.s.asignaciones[a.ID] = cloneAssignment(a)
	return nil
}

func (r *AssignmentRepo) GetByID(_ context.Context, id int64) (*entity.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.asignaciones[id]
	if !ok {
		return nil, nil
	}
	return cloneAssignment(a), nil
}

func (r *AssignmentRepo) ListByEquipment(_ context.Context, codes []string) ([]*entity.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	return r.s.collect(func(a *entity.Assignment) bool { return want[a.EquipmentCode] }), nil
}

func (r *AssignmentRepo) ListByRequest(_ context.Context, requestID int64) ([]*entity.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.collect(func(a *entity.Assignment) bool { return a.RequestID == requestID }), nil
}

// ActiveByRequest devuelve la asignación activa más reciente, o nil.
func (r *AssignmentRepo) ActiveByRequest(_ context.Context, requestID int64) (*entity.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.s.collect(func(a *entity.Assignment) bool { return a.RequestID == requestID && a.IsActive() })
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[len(rows)-1], nil
}

func (r *AssignmentRepo) List(_ context.Context, f repository.AssignmentFilter) ([]*entity.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.s.collect(func(a *entity.Assignment) bool {
		if f.RequestID != 0 && a.RequestID != f.RequestID {
			return false
		}
		if f.ActiveOnly && !a.IsActive() {
			return false
		}
		if f.BusinessUnit != "" {
			req, ok := r.s.solicitudes[a.RequestID]
			if !ok || req.BusinessUnit != f.BusinessUnit {
				return false
			}
		}
		return true
	})
	return paginate(rows, f.Limit, f.Offset), nil
}

func (r *AssignmentRepo) Close(_ context.Context, id int64, end time.Time, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.asignaciones[id]
	if !ok {
		return domain.NotFoundf("la asignación %d no existe", id)
	}
	d := loan.NormalizeDate(end)
	a.EndDate = &d
	a.Status = status
	return nil
}

func (r *AssignmentRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.asignaciones[id]; !ok {
		return domain.NotFoundf("la asignación %d no existe", id)
	}
	r.s.dropAssignment(id)
	return nil
}

// collect copia las asignaciones que cumplen keep, ordenadas por inicio e ID.
// Requiere el lock tomado.
func (s *Store) collect(keep func(*entity.Assignment) bool) []*entity.Assignment {
	out := []*entity.Assignment{}
	for _, a := range s.asignaciones {
		if keep(a) {
			out = append(out, cloneAssignment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// hasAssignments indica si la solicitud tiene alguna asignación. Requiere el lock tomado.
func (s *Store) hasAssignments(requestID int64) bool {
	for _, a := range s.asignaciones {
		if a.RequestID == requestID {
			return true
		}
	}
	return false
}

// dropAssignment borra y deja sin referencia a las que la reemplazaban. Requiere el lock tomado.
func (s *Store) dropAssignment(id int64) {
	delete(s.asignaciones, id)
	for _, a := range s.asignaciones {
		if a.ReplacedID != nil && *a.ReplacedID == id {
			a.ReplacedID = nil
		}
	}
}

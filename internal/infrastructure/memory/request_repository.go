package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo solicitudes en memoria.
type RequestRepo struct {
	s *Store
}

// NewRequestRepository construye el repositorio.
func NewRequestRepository(s *Store) *RequestRepo {
	return &RequestRepo{s: s}
}

// CreateBatch asigna ID correlativos a cada fila.
func (r *RequestRepo) CreateBatch(_ context.Context, reqs []*entity.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range reqs {
		r.s.nextRequestID++
		req.ID = r.s.nextRequestID
		r.s.solicitudes[req.ID] = cloneRequest(req)
	}
	return nil
}

func (r *RequestRepo) GetByID(_ context.Context, id int64) (*entity.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.solicitudes[id]
	if !ok {
		return nil, nil
	}
	return cloneRequest(req), nil
}

// GetByIDs omite los ID inexistentes.
func (r *RequestRepo) GetByIDs(_ context.Context, ids []int64) ([]*entity.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Request, 0, len(ids))
	seen := map[int64]bool{}
	for _, id := range ids {
		if req, ok := r.s.solicitudes[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, cloneRequest(req))
		}
	}
	return out, nil
}

// List aplica los filtros y ordena de la más reciente a la más antigua.
func (r *RequestRepo) List(_ context.Context, f repository.RequestFilter) ([]*entity.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	units := map[string]bool{}
	for _, u := range f.BusinessUnits {
		units[u] = true
	}
	out := []*entity.Request{}
	for _, req := range r.s.solicitudes {
		switch {
		case len(units) > 0 && !units[req.BusinessUnit]:
			continue
		case f.CreatorEmail != "" && req.CreatorEmail != f.CreatorEmail:
			continue
		case f.Type != "" && req.Type != f.Type:
			continue
		case f.OnlyUnassigned && (req.HasAssignedEquipment() || r.s.hasAssignments(req.ID)):
			continue
		case f.MonthStart != nil && req.DateTo.Before(*f.MonthStart):
			continue
		case f.MonthEnd != nil && req.DateFrom.After(*f.MonthEnd):
			continue
		}
		out = append(out, cloneRequest(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *RequestRepo) Update(_ context.Context, req *entity.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.solicitudes[req.ID]; !ok {
		return domain.NotFoundf("la solicitud %d no existe", req.ID)
	}
	r.s.solicitudes[req.ID] = cloneRequest(req)
	return nil
}

// Delete borra la solicitud y sus asignaciones.
func (r *RequestRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.solicitudes[id]; !ok {
		return domain.NotFoundf("la solicitud %d no existe", id)
	}
	delete(r.s.solicitudes, id)
	for aid, a := range r.s.asignaciones {
		if a.RequestID == id {
			r.s.dropAssignment(aid)
		}
	}
	return nil
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(rows) {
			return rows[:0]
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

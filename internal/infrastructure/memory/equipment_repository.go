package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var _ repository.EquipmentRepository = (*EquipmentRepo)(nil)

// EquipmentRepo catálogo de equipos en memoria.
type EquipmentRepo struct {
	s *Store
}

// NewEquipmentRepository construye el repositorio.
func NewEquipmentRepository(s *Store) *EquipmentRepo {
	return &EquipmentRepo{s: s}
}

// List devuelve el catálogo ordenado por código.
func (r *EquipmentRepo) List(_ context.Context, f repository.EquipmentFilter) ([]*entity.Equipment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Equipment, 0, len(r.s.equipos))
	for _, e := range r.s.equipos {
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		out = append(out, cloneEquipment(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *EquipmentRepo) GetByCode(_ context.Context, code string) (*entity.Equipment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.equipos[code]
	if !ok {
		return nil, nil
	}
	return cloneEquipment(e), nil
}

// LockByCode sin transacciones no hay bloqueo: equivale a GetByCode.
func (r *EquipmentRepo) LockByCode(ctx context.Context, code string) (*entity.Equipment, error) {
	return r.GetByCode(ctx, code)
}

func (r *EquipmentRepo) Upsert(_ context.Context, eq *entity.Equipment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	c := cloneEquipment(eq)
	c.CurrentBusinessUnit = ""
	if prev, ok := r.s.equipos[eq.Code]; ok {
		c.CreatedAt = prev.CreatedAt
	} else {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.s.equipos[eq.Code] = c
	eq.CreatedAt, eq.UpdatedAt = c.CreatedAt, c.UpdatedAt
	return nil
}

func (r *EquipmentRepo) Delete(_ context.Context, code string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.equipos[code]; !ok {
		return domain.NotFoundf("el equipo %s no existe", code)
	}
	delete(r.s.equipos, code)
	return nil
}

// Types tipos distintos del catálogo, ordenados.
func (r *EquipmentRepo) Types(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := map[string]bool{}
	for _, e := range r.s.equipos {
		if e.Type != "" {
			set[e.Type] = true
		}
	}
	return sortedKeys(set), nil
}

// Capacities capacidades declaradas distintas para un tipo.
func (r *EquipmentRepo) Capacities(_ context.Context, equipmentType string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := map[string]bool{}
	for _, e := range r.s.equipos {
		if e.Type == equipmentType && e.DeclaredCapacity != "" {
			set[e.DeclaredCapacity] = true
		}
	}
	return sortedKeys(set), nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

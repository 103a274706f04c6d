package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var _ repository.BusinessUnitRepository = (*BusinessUnitRepo)(nil)

// BusinessUnitRepo unidades de negocio en memoria.
type BusinessUnitRepo struct {
	s *Store
}

// NewBusinessUnitRepository construye el repositorio.
func NewBusinessUnitRepository(s *Store) *BusinessUnitRepo {
	return &BusinessUnitRepo{s: s}
}

func (r *BusinessUnitRepo) List(_ context.Context) ([]*entity.BusinessUnit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.BusinessUnit, 0, len(r.s.unidades))
	for _, b := range r.s.unidades {
		out = append(out, cloneUnit(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *BusinessUnitRepo) GetByName(_ context.Context, name string) (*entity.BusinessUnit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.unidades[name]
	if !ok {
		return nil, nil
	}
	return cloneUnit(b), nil
}

func (r *BusinessUnitRepo) Create(_ context.Context, bu *entity.BusinessUnit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.unidades[bu.Name]; ok {
		return fmt.Errorf("%w: la unidad %q ya existe", domain.ErrDuplicate, bu.Name)
	}
	r.s.unidades[bu.Name] = cloneUnit(bu)
	return nil
}

func (r *BusinessUnitRepo) Update(_ context.Context, name string, bu *entity.BusinessUnit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.unidades[name]; !ok {
		return domain.NotFoundf("la unidad %q no existe", name)
	}
	if bu.Name != name {
		if _, ok := r.s.unidades[bu.Name]; ok {
			return fmt.Errorf("%w: la unidad %q ya existe", domain.ErrDuplicate, bu.Name)
		}
		delete(r.s.unidades, name)
	}
	r.s.unidades[bu.Name] = cloneUnit(bu)
	return nil
}

func (r *BusinessUnitRepo) Delete(_ context.Context, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.unidades[name]; !ok {
		return domain.NotFoundf("la unidad %q no existe", name)
	}
	delete(r.s.unidades, name)
	return nil
}

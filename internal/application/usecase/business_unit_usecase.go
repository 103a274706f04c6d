package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

// BusinessUnitUseCase administra unidades de negocio y decide qué unidades ve cada usuario.
type BusinessUnitUseCase struct {
	repo repository.BusinessUnitRepository
}

// NewBusinessUnitUseCase construye el caso de uso.
func NewBusinessUnitUseCase(repo repository.BusinessUnitRepository) *BusinessUnitUseCase {
	return &BusinessUnitUseCase{repo: repo}
}

// List devuelve todas las unidades.
func (uc *BusinessUnitUseCase) List(ctx context.Context) ([]dto.BusinessUnitResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewBusinessUnitResponses(list), nil
}

// Create crea una unidad.
func (uc *BusinessUnitUseCase) Create(ctx context.Context, in dto.BusinessUnitRequest) (*dto.BusinessUnitResponse, error) {
	bu, err := toBusinessUnit(in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, bu); err != nil {
		return nil, err
	}
	return dto.NewBusinessUnitResponse(bu), nil
}

// Update reemplaza nombre y lista de usuarios de la unidad name.
func (uc *BusinessUnitUseCase) Update(ctx context.Context, name string, in dto.BusinessUnitRequest) (*dto.BusinessUnitResponse, error) {
	bu, err := toBusinessUnit(in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, name, bu); err != nil {
		return nil, err
	}
	return dto.NewBusinessUnitResponse(bu), nil
}

// Delete elimina una unidad.
func (uc *BusinessUnitUseCase) Delete(ctx context.Context, name string) error {
	return uc.repo.Delete(ctx, name)
}

// BlockAll agrega "Bloqueado" a todas las unidades. Devuelve cuántas cambiaron.
func (uc *BusinessUnitUseCase) BlockAll(ctx context.Context) (int, error) {
	return uc.rewriteAll(ctx, func(b *entity.BusinessUnit) bool {
		if b.IsBlocked() {
			return false
		}
		b.AuthorizedUsers = append(b.AuthorizedUsers, entity.BlockedSentinel)
		return true
	})
}

// UnblockAll quita "Bloqueado" de todas las unidades. Devuelve cuántas cambiaron.
func (uc *BusinessUnitUseCase) UnblockAll(ctx context.Context) (int, error) {
	return uc.rewriteAll(ctx, func(b *entity.BusinessUnit) bool {
		if !b.IsBlocked() {
			return false
		}
		kept := b.AuthorizedUsers[:0]
		for _, u := range b.AuthorizedUsers {
			if u != entity.BlockedSentinel {
				kept = append(kept, u)
			}
		}
		b.AuthorizedUsers = kept
		return true
	})
}

func (uc *BusinessUnitUseCase) rewriteAll(ctx context.Context, change func(*entity.BusinessUnit) bool) (int, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, b := range list {
		if !change(b) {
			continue
		}
		if err := uc.repo.Update(ctx, b.Name, b); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// VisibleUnits unidades sobre las que la identidad puede operar: taller y admin todas,
// solicitante las abiertas o que lo incluyen (nunca las bloqueadas), visitante ninguna.
func (uc *BusinessUnitUseCase) VisibleUnits(ctx context.Context, id entity.Identity) ([]*entity.BusinessUnit, error) {
	if id.Role == entity.RoleVisitante || id.Role == "" {
		return []*entity.BusinessUnit{}, nil
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if id.IsWorkshop() {
		return list, nil
	}
	out := make([]*entity.BusinessUnit, 0, len(list))
	for _, b := range list {
		if b.Allows(id.Email) {
			out = append(out, b)
		}
	}
	return out, nil
}

// CanActOn indica si la identidad puede operar sobre la unidad name.
func (uc *BusinessUnitUseCase) CanActOn(ctx context.Context, id entity.Identity, name string) (bool, error) {
	units, err := uc.VisibleUnits(ctx, id)
	if err != nil {
		return false, err
	}
	for _, b := range units {
		if b.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func toBusinessUnit(in dto.BusinessUnitRequest) (*entity.BusinessUnit, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validationf("el nombre de la unidad es requerido")
	}
	seen := map[string]bool{}
	var users []string
	for _, u := range in.AuthorizedUsers {
		u = strings.TrimSpace(u)
		if u != entity.BlockedSentinel {
			u = strings.ToLower(u)
		}
		if u == "" || seen[u] {
			continue
		}
		if strings.Contains(u, ",") {
			return nil, domain.Validationf("el usuario %q no puede contener comas", u)
		}
		seen[u] = true
		users = append(users, u)
	}
	return &entity.BusinessUnit{Name: name, AuthorizedUsers: users}, nil
}

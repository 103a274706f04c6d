package repository

import (
	"context"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// BusinessUnitRepository define el puerto de persistencia de unidades de negocio.
type BusinessUnitRepository interface {
	List(ctx context.Context) ([]*entity.BusinessUnit, error)
	GetByName(ctx context.Context, name string) (*entity.BusinessUnit, error)
	Create(ctx context.Context, bu *entity.BusinessUnit) error
	// Update reemplaza la unidad identificada por name (permite renombrar).
	Update(ctx context.Context, name string, bu *entity.BusinessUnit) error
	Delete(ctx context.Context, name string) error
}

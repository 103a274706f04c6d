package repository

import (
	"context"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// EquipmentFilter filtros para listar el catálogo. Type vacío = todos.
type EquipmentFilter struct {
	Type string
}

// EquipmentRepository define el puerto de persistencia del catálogo de equipos.
// GetByCode y LockByCode devuelven (nil, nil) si el equipo no existe.
type EquipmentRepository interface {
	List(ctx context.Context, f EquipmentFilter) ([]*entity.Equipment, error)
	GetByCode(ctx context.Context, code string) (*entity.Equipment, error)
	// LockByCode lee el equipo bloqueando la fila hasta el fin de la transacción.
	LockByCode(ctx context.Context, code string) (*entity.Equipment, error)
	Upsert(ctx context.Context, eq *entity.Equipment) error
	Delete(ctx context.Context, code string) error
	Types(ctx context.Context) ([]string, error)
	Capacities(ctx context.Context, equipmentType string) ([]string, error)
}

package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// RequestFilter filtros para listar solicitudes.
type RequestFilter struct {
	BusinessUnits  []string // vacío = todas
	CreatorEmail   string
	Type           string
	MonthStart     *time.Time // solicitudes cuya ventana cruza [MonthStart, MonthEnd]
	MonthEnd       *time.Time
	OnlyUnassigned bool // sin equipo y sin ninguna asignación, de cualquier estado
	Limit          int
	Offset         int
}

// RequestRepository define el puerto de persistencia de solicitudes.
type RequestRepository interface {
	// CreateBatch inserta todas las filas y completa sus ID.
	CreateBatch(ctx context.Context, reqs []*entity.Request) error
	GetByID(ctx context.Context, id int64) (*entity.Request, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Request, error)
	List(ctx context.Context, f RequestFilter) ([]*entity.Request, error)
	Update(ctx context.Context, r *entity.Request) error
	Delete(ctx context.Context, id int64) error
}

package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// AssignmentFilter filtros para listar asignaciones.
type AssignmentFilter struct {
	BusinessUnit string
	RequestID    int64
	ActiveOnly   bool
	Limit        int
	Offset       int
}

// AssignmentRepository define el puerto de persistencia de asignaciones.
type AssignmentRepository interface {
	Create(ctx context.Context, a *entity.Assignment) error
	GetByID(ctx context.Context, id int64) (*entity.Assignment, error)
	// ListByEquipment devuelve todas las asignaciones (históricas y activas) de esos equipos.
	ListByEquipment(ctx context.Context, codes []string) ([]*entity.Assignment, error)
	// ListByRequest devuelve la cadena de la solicitud ordenada por inicio.
	ListByRequest(ctx context.Context, requestID int64) ([]*entity.Assignment, error)
	ActiveByRequest(ctx context.Context, requestID int64) (*entity.Assignment, error)
	List(ctx context.Context, f AssignmentFilter) ([]*entity.Assignment, error)
	// Close fija la fecha de fin y el estado de cierre.
	Close(ctx context.Context, id int64, end time.Time, status string) error
	// Delete elimina la asignación; las vecinas de la cadena pierden la referencia.
	Delete(ctx context.Context, id int64) error
}

package assignment

import (
	"context"

	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

// TxRunner ejecuta una función con repositorios atados a una misma unidad de trabajo.
// Atomic indica si un error dentro de fn deshace las escrituras ya hechas; si no
// lo es, el resolver reporta ErrPartialFailure cuando falla un paso intermedio.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		equipos repository.EquipmentRepository,
		solicitudes repository.RequestRepository,
		asignaciones repository.AssignmentRepository,
	) error) error
	Atomic() bool
}

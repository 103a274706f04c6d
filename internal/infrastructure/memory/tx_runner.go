package memory

import (
	"context"

	"github.com/jhoicas/Equipos-api/internal/application/assignment"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var _ assignment.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn con los repositorios del Store. Cada escritura es inmediata:
// un error a mitad de fn no deshace lo anterior.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con los repositorios en memoria.
func (r *TxRunner) Run(ctx context.Context, fn func(
	equipos repository.EquipmentRepository,
	solicitudes repository.RequestRepository,
	asignaciones repository.AssignmentRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(NewEquipmentRepository(r.s), NewRequestRepository(r.s), NewAssignmentRepository(r.s))
}

// Atomic siempre false: no hay rollback en memoria.
func (r *TxRunner) Atomic() bool { return false }

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Equipos-api/internal/application/assignment"
	"github.com/jhoicas/Equipos-api/internal/application/catalog"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var (
	_ assignment.TxRunner = (*TxRunner)(nil)
	_ catalog.TxRunner    = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Atomic: una falla a mitad del callback revierte todo.
func (r *TxRunner) Atomic() bool { return true }

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	equipos repository.EquipmentRepository,
	solicitudes repository.RequestRepository,
	asignaciones repository.AssignmentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.StoreError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewEquipmentRepository(tx), NewRequestRepository(tx), NewAssignmentRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isExclusionViolation(err) {
			return domain.Conflictf("el equipo ya está asignado en un período que se superpone")
		}
		return domain.StoreError("commit transaction", err)
	}
	return nil
}

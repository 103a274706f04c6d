package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var _ repository.EquipmentRepository = (*EquipmentRepo)(nil)

const equipmentColumns = `codigo, tipo_de_equipos, capacidad_informada, detalle_planilla_mpt, detalles, created_at, updated_at`

// EquipmentRepo implementación del puerto EquipmentRepository sobre PostgreSQL (usable con pool o tx).
type EquipmentRepo struct {
	q Querier
}

// NewEquipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEquipmentRepository(q Querier) *EquipmentRepo {
	return &EquipmentRepo{q: q}
}

// List devuelve el catálogo ordenado por código.
func (r *EquipmentRepo) List(ctx context.Context, f repository.EquipmentFilter) ([]*entity.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipos`
	var args []any
	if f.Type != "" {
		query += ` WHERE tipo_de_equipos = $1`
		args = append(args, f.Type)
	}
	query += ` ORDER BY codigo`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError("list equipos", err)
	}
	defer rows.Close()

	out := []*entity.Equipment{}
	for rows.Next() {
		var e entity.Equipment
		if err := scanEquipment(rows, &e); err != nil {
			return nil, domain.StoreError("scan equipo", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list equipos", err)
	}
	return out, nil
}

// GetByCode obtiene un equipo por código; (nil, nil) si no existe.
func (r *EquipmentRepo) GetByCode(ctx context.Context, code string) (*entity.Equipment, error) {
	return r.findOne(ctx, `SELECT `+equipmentColumns+` FROM equipos WHERE codigo = $1`, code)
}

// LockByCode igual que GetByCode pero con FOR UPDATE: dentro de una tx serializa
// las asignaciones concurrentes del mismo equipo.
func (r *EquipmentRepo) LockByCode(ctx context.Context, code string) (*entity.Equipment, error) {
	return r.findOne(ctx, `SELECT `+equipmentColumns+` FROM equipos WHERE codigo = $1 FOR UPDATE`, code)
}

func (r *EquipmentRepo) findOne(ctx context.Context, query, code string) (*entity.Equipment, error) {
	var e entity.Equipment
	err := scanEquipment(r.q.QueryRow(ctx, query, code), &e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreError("get equipo", err)
	}
	return &e, nil
}

// Upsert inserta o actualiza por código conservando created_at.
func (r *EquipmentRepo) Upsert(ctx context.Context, eq *entity.Equipment) error {
	query := `
		INSERT INTO equipos (codigo, tipo_de_equipos, capacidad_informada, detalle_planilla_mpt, detalles)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (codigo) DO UPDATE SET
			tipo_de_equipos      = EXCLUDED.tipo_de_equipos,
			capacidad_informada  = EXCLUDED.capacidad_informada,
			detalle_planilla_mpt = EXCLUDED.detalle_planilla_mpt,
			detalles             = EXCLUDED.detalles,
			updated_at           = now()
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query, eq.Code, eq.Type, eq.DeclaredCapacity, eq.DetailA, eq.DetailB).
		Scan(&eq.CreatedAt, &eq.UpdatedAt)
	if err != nil {
		return domain.StoreError("upsert equipo", err)
	}
	return nil
}

// Delete falla con Conflict si el equipo tiene asignaciones registradas.
func (r *EquipmentRepo) Delete(ctx context.Context, code string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM equipos WHERE codigo = $1`, code)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflictf("el equipo %s tiene asignaciones registradas", code)
		}
		return domain.StoreError("delete equipo", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("el equipo %s no existe", code)
	}
	return nil
}

// Types tipos distintos del catálogo.
func (r *EquipmentRepo) Types(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `
		SELECT DISTINCT tipo_de_equipos FROM equipos
		WHERE tipo_de_equipos <> '' ORDER BY tipo_de_equipos`)
}

// Capacities capacidades declaradas distintas para un tipo.
func (r *EquipmentRepo) Capacities(ctx context.Context, equipmentType string) ([]string, error) {
	return r.distinct(ctx, `
		SELECT DISTINCT capacidad_informada FROM equipos
		WHERE tipo_de_equipos = $1 AND capacidad_informada <> '' ORDER BY capacidad_informada`, equipmentType)
}

func (r *EquipmentRepo) distinct(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError("distinct equipos", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, domain.StoreError("distinct equipos", err)
	}
	return out, nil
}

func scanEquipment(row pgx.Row, e *entity.Equipment) error {
	return row.Scan(&e.Code, &e.Type, &e.DeclaredCapacity, &e.DetailA, &e.DetailB, &e.CreatedAt, &e.UpdatedAt)
}

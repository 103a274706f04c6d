package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)

var assignmentColumns = []string{
	"a.id", "a.codigo_equipo", "a.solicitud_id", "a.inicio", "a.fin", "a.es_reemplazo", "a.reemplaza_a",
	"a.motivo_reemplazo", "a.asignado_por", "a.asignado_en", "a.estado",
}

// AssignmentRepo asignaciones sobre PostgreSQL (usable con pool o tx).
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

// Create inserta la asignación. El constraint de exclusión rechaza solapes del mismo equipo.
func (r *AssignmentRepo) Create(ctx context.Context, a *entity.Assignment) error {
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}
	if a.Status == "" {
		a.Status = entity.AssignmentActive
	}
	query := `
		INSERT INTO asignaciones (codigo_equipo, solicitud_id, inicio, fin, es_reemplazo, reemplaza_a,
			motivo_reemplazo, asignado_por, asignado_en, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		a.EquipmentCode, a.RequestID, a.StartDate, a.EndDate, a.IsReplacement, a.ReplacedID,
		a.ReplacementReason, a.AssignedBy, a.AssignedAt, a.Status,
	).Scan(&a.ID)
	if err != nil {
		switch {
		case isExclusionViolation(err):
			return domain.Conflictf("el equipo %s no está disponible en el período solicitado", a.EquipmentCode)
		case isUniqueViolation(err):
			return domain.Conflictf("ya existe una asignación activa para la solicitud %d", a.RequestID)
		case isForeignKeyViolation(err):
			return domain.NotFoundf("la solicitud %d o el equipo %s no existe", a.RequestID, a.EquipmentCode)
		}
		return domain.StoreError("insert asignacion", err)
	}
	return nil
}

func (r *AssignmentRepo) GetByID(ctx context.Context, id int64) (*entity.Assignment, error) {
	query, args, err := r.selectBase().Where(sq.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, domain.StoreError("build get asignacion", err)
	}
	var a entity.Assignment
	if err := scanAssignment(r.q.QueryRow(ctx, query, args...), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreError("get asignacion", err)
	}
	return &a, nil
}

// ListByEquipment historial completo de esos equipos.
func (r *AssignmentRepo) ListByEquipment(ctx context.Context, codes []string) ([]*entity.Assignment, error) {
	if len(codes) == 0 {
		return []*entity.Assignment{}, nil
	}
	return r.query(ctx, r.selectBase().Where(sq.Eq{"a.codigo_equipo": codes}))
}

func (r *AssignmentRepo) ListByRequest(ctx context.Context, requestID int64) ([]*entity.Assignment, error) {
	return r.query(ctx, r.selectBase().Where(sq.Eq{"a.solicitud_id": requestID}))
}

// ActiveByRequest devuelve la asignación activa o (nil, nil).
func (r *AssignmentRepo) ActiveByRequest(ctx context.Context, requestID int64) (*entity.Assignment, error) {
	list, err := r.query(ctx, r.selectBase().
		Where(sq.Eq{"a.solicitud_id": requestID, "a.estado": entity.AssignmentActive}))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[len(list)-1], nil
}

func (r *AssignmentRepo) List(ctx context.Context, f repository.AssignmentFilter) ([]*entity.Assignment, error) {
	b := r.selectBase()
	if f.RequestID != 0 {
		b = b.Where(sq.Eq{"a.solicitud_id": f.RequestID})
	}
	if f.ActiveOnly {
		b = b.Where(sq.Eq{"a.estado": entity.AssignmentActive})
	}
	if f.BusinessUnit != "" {
		b = b.Join("solicitudes s ON s.id = a.solicitud_id").Where(sq.Eq{"s.unidad_de_negocio": f.BusinessUnit})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}
	return r.query(ctx, b)
}

func (r *AssignmentRepo) Close(ctx context.Context, id int64, end time.Time, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE asignaciones SET fin = $2, estado = $3 WHERE id = $1`, id, end, status)
	if err != nil {
		return domain.StoreError("close asignacion", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("la asignación %d no existe", id)
	}
	return nil
}

// Delete borra la asignación; reemplaza_a de las vecinas queda NULL por ON DELETE SET NULL.
func (r *AssignmentRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM asignaciones WHERE id = $1`, id)
	if err != nil {
		return domain.StoreError("delete asignacion", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("la asignación %d no existe", id)
	}
	return nil
}

func (r *AssignmentRepo) selectBase() sq.SelectBuilder {
	return psql.Select(assignmentColumns...).From("asignaciones a").OrderBy("a.inicio", "a.id")
}

func (r *AssignmentRepo) query(ctx context.Context, b sq.SelectBuilder) ([]*entity.Assignment, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.StoreError("build list asignaciones", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError("list asignaciones", err)
	}
	defer rows.Close()

	out := []*entity.Assignment{}
	for rows.Next() {
		var a entity.Assignment
		if err := scanAssignment(rows, &a); err != nil {
			return nil, domain.StoreError("scan asignacion", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list asignaciones", err)
	}
	return out, nil
}

func scanAssignment(row pgx.Row, a *entity.Assignment) error {
	return row.Scan(
		&a.ID, &a.EquipmentCode, &a.RequestID, &a.StartDate, &a.EndDate, &a.IsReplacement, &a.ReplacedID,
		&a.ReplacementReason, &a.AssignedBy, &a.AssignedAt, &a.Status,
	)
}

package postgres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

var requestColumns = []string{
	"id", "unidad_de_negocio", "tipo_de_equipos", "capacidad", "unidades", "fecha_desde", "fecha_hasta",
	"fecha_inicio_real", "observaciones", "email_creador", "equipo_asignado", "created_at",
}

// RequestRepo solicitudes sobre PostgreSQL (usable con pool o tx).
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

// CreateBatch inserta todas las filas en una sola sentencia y completa ID y created_at.
func (r *RequestRepo) CreateBatch(ctx context.Context, reqs []*entity.Request) error {
	if len(reqs) == 0 {
		return nil
	}
	b := psql.Insert("solicitudes").Columns(
		"unidad_de_negocio", "tipo_de_equipos", "capacidad", "unidades", "fecha_desde", "fecha_hasta",
		"fecha_inicio_real", "observaciones", "email_creador", "equipo_asignado",
	)
	for _, req := range reqs {
		b = b.Values(req.BusinessUnit, req.Type, req.Capacity, req.Quantity, req.DateFrom, req.DateTo,
			req.StartOverride, req.Notes, req.CreatorEmail, req.AssignedEquipment)
	}
	query, args, err := b.Suffix("RETURNING id, created_at").ToSql()
	if err != nil {
		return domain.StoreError("build insert solicitudes", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return domain.StoreError("insert solicitudes", err)
	}
	defer rows.Close()
	// Postgres devuelve RETURNING en el orden de VALUES.
	i := 0
	for rows.Next() {
		if i >= len(reqs) {
			break
		}
		if err := rows.Scan(&reqs[i].ID, &reqs[i].CreatedAt); err != nil {
			return domain.StoreError("insert solicitudes", err)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return domain.StoreError("insert solicitudes", err)
	}
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id int64) (*entity.Request, error) {
	query, args, err := psql.Select(requestColumns...).From("solicitudes").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, domain.StoreError("build get solicitud", err)
	}
	var req entity.Request
	if err := scanRequest(r.q.QueryRow(ctx, query, args...), &req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreError("get solicitud", err)
	}
	return &req, nil
}

// GetByIDs omite los ID inexistentes.
func (r *RequestRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Request, error) {
	if len(ids) == 0 {
		return []*entity.Request{}, nil
	}
	return r.query(ctx, psql.Select(requestColumns...).From("solicitudes").Where(sq.Eq{"id": ids}).OrderBy("id"))
}

// List ordena de la más reciente a la más antigua.
func (r *RequestRepo) List(ctx context.Context, f repository.RequestFilter) ([]*entity.Request, error) {
	b := psql.Select(requestColumns...).From("solicitudes").OrderBy("id DESC")
	if len(f.BusinessUnits) > 0 {
		b = b.Where(sq.Eq{"unidad_de_negocio": f.BusinessUnits})
	}
	if f.CreatorEmail != "" {
		b = b.Where(sq.Eq{"email_creador": f.CreatorEmail})
	}
	if f.Type != "" {
		b = b.Where(sq.Eq{"tipo_de_equipos": f.Type})
	}
	if f.OnlyUnassigned {
		b = b.Where(sq.Or{sq.Eq{"equipo_asignado": nil}, sq.Eq{"equipo_asignado": ""}}).
			Where("NOT EXISTS (SELECT 1 FROM asignaciones a WHERE a.solicitud_id = solicitudes.id)")
	}
	if f.MonthStart != nil {
		b = b.Where(sq.GtOrEq{"fecha_hasta": *f.MonthStart})
	}
	if f.MonthEnd != nil {
		b = b.Where(sq.LtOrEq{"fecha_desde": *f.MonthEnd})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}
	return r.query(ctx, b)
}

func (r *RequestRepo) Update(ctx context.Context, req *entity.Request) error {
	query, args, err := psql.Update("solicitudes").
		Set("unidad_de_negocio", req.BusinessUnit).
		Set("tipo_de_equipos", req.Type).
		Set("capacidad", req.Capacity).
		Set("unidades", req.Quantity).
		Set("fecha_desde", req.DateFrom).
		Set("fecha_hasta", req.DateTo).
		Set("fecha_inicio_real", req.StartOverride).
		Set("observaciones", req.Notes).
		Set("email_creador", req.CreatorEmail).
		Set("equipo_asignado", req.AssignedEquipment).
		Where(sq.Eq{"id": req.ID}).
		ToSql()
	if err != nil {
		return domain.StoreError("build update solicitud", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return domain.StoreError("update solicitud", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("la solicitud %d no existe", req.ID)
	}
	return nil
}

// Delete borra la solicitud; sus asignaciones caen por ON DELETE CASCADE.
func (r *RequestRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM solicitudes WHERE id = $1`, id)
	if err != nil {
		return domain.StoreError("delete solicitud", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("la solicitud %d no existe", id)
	}
	return nil
}

func (r *RequestRepo) query(ctx context.Context, b sq.SelectBuilder) ([]*entity.Request, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.StoreError("build list solicitudes", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError("list solicitudes", err)
	}
	defer rows.Close()

	out := []*entity.Request{}
	for rows.Next() {
		var req entity.Request
		if err := scanRequest(rows, &req); err != nil {
			return nil, domain.StoreError("scan solicitud", err)
		}
		out = append(out, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list solicitudes", err)
	}
	return out, nil
}

func scanRequest(row pgx.Row, req *entity.Request) error {
	return row.Scan(
		&req.ID, &req.BusinessUnit, &req.Type, &req.Capacity, &req.Quantity, &req.DateFrom, &req.DateTo,
		&req.StartOverride, &req.Notes, &req.CreatorEmail, &req.AssignedEquipment, &req.CreatedAt,
	)
}

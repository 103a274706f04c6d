package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var _ repository.BusinessUnitRepository = (*BusinessUnitRepo)(nil)

// BusinessUnitRepo unidades de negocio; la lista de habilitados se guarda separada por comas.
type BusinessUnitRepo struct {
	q Querier
}

// NewBusinessUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessUnitRepository(q Querier) *BusinessUnitRepo {
	return &BusinessUnitRepo{q: q}
}

func (r *BusinessUnitRepo) List(ctx context.Context) ([]*entity.BusinessUnit, error) {
	rows, err := r.q.Query(ctx, `SELECT nombre, usuarios_habilitados FROM unidades_de_negocio ORDER BY nombre`)
	if err != nil {
		return nil, domain.StoreError("list unidades", err)
	}
	defer rows.Close()

	out := []*entity.BusinessUnit{}
	for rows.Next() {
		var name, users string
		if err := rows.Scan(&name, &users); err != nil {
			return nil, domain.StoreError("scan unidad", err)
		}
		out = append(out, &entity.BusinessUnit{Name: name, AuthorizedUsers: entity.SplitUsers(users)})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list unidades", err)
	}
	return out, nil
}

func (r *BusinessUnitRepo) GetByName(ctx context.Context, name string) (*entity.BusinessUnit, error) {
	var users string
	err := r.q.QueryRow(ctx,
		`SELECT usuarios_habilitados FROM unidades_de_negocio WHERE nombre = $1`, name).Scan(&users)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.StoreError("get unidad", err)
	}
	return &entity.BusinessUnit{Name: name, AuthorizedUsers: entity.SplitUsers(users)}, nil
}

func (r *BusinessUnitRepo) Create(ctx context.Context, bu *entity.BusinessUnit) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO unidades_de_negocio (nombre, usuarios_habilitados) VALUES ($1, $2)`,
		bu.Name, entity.JoinUsers(bu.AuthorizedUsers))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la unidad %q ya existe", domain.ErrDuplicate, bu.Name)
		}
		return domain.StoreError("insert unidad", err)
	}
	return nil
}

// Update reemplaza nombre y lista; las solicitudes históricas conservan el nombre anterior.
func (r *BusinessUnitRepo) Update(ctx context.Context, name string, bu *entity.BusinessUnit) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE unidades_de_negocio SET nombre = $2, usuarios_habilitados = $3 WHERE nombre = $1`,
		name, bu.Name, entity.JoinUsers(bu.AuthorizedUsers))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la unidad %q ya existe", domain.ErrDuplicate, bu.Name)
		}
		return domain.StoreError("update unidad", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("la unidad %q no existe", name)
	}
	return nil
}

func (r *BusinessUnitRepo) Delete(ctx context.Context, name string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM unidades_de_negocio WHERE nombre = $1`, name)
	if err != nil {
		return domain.StoreError("delete unidad", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("la unidad %q no existe", name)
	}
	return nil
}

package postgres

import (
	"errors"
	"fmt"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodigosDePostgres(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})
	assert.True(t, isExclusionViolation(wrapped))
	assert.False(t, isUniqueViolation(wrapped))

	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.Equal(t, "", pgCode(errors.New("connection reset")))
}

func TestPlaceholdersDollar(t *testing.T) {
	query, args, err := psql.Select("id").From("solicitudes").
		Where(sq.Eq{"unidad_de_negocio": "Planta Norte"}).
		Where(sq.Eq{"id": []int64{1, 2}}).
		ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM solicitudes WHERE unidad_de_negocio = $1 AND id IN ($2,$3)", query)
	assert.Equal(t, []interface{}{"Planta Norte", int64(1), int64(2)}, args)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "postgres://app:xxxxx@db:5432/equipos", redactURL("postgres://app:secreto@db:5432/equipos"))
}

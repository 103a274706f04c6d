package postgres

import (
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

// psql builder de squirrel con placeholders $1, $2...
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if code := pgCode(err); code != "" {
		return code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isExclusionViolation detecta el rechazo del constraint de no solapamiento (23P01).
func isExclusionViolation(err error) bool {
	return pgCode(err) == "23P01" // exclusion_violation
}

// isForeignKeyViolation detecta referencias a filas inexistentes (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503" // foreign_key_violation
}

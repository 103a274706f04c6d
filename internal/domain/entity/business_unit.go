package entity

import "strings"

// BlockedSentinel valor reservado en la lista de usuarios habilitados que bloquea la unidad.
const BlockedSentinel = "Bloqueado"

// BusinessUnit unidad de negocio que origina solicitudes.
type BusinessUnit struct {
	Name string
	// AuthorizedUsers emails habilitados; vacío = abierta a todos.
	AuthorizedUsers []string
}

// IsBlocked indica si la unidad tiene el valor "Bloqueado" en su lista.
func (b *BusinessUnit) IsBlocked() bool {
	for _, u := range b.AuthorizedUsers {
		if u == BlockedSentinel {
			return true
		}
	}
	return false
}

// Allows indica si un solicitante con ese email puede operar sobre la unidad.
func (b *BusinessUnit) Allows(email string) bool {
	if b.IsBlocked() {
		return false
	}
	if len(b.AuthorizedUsers) == 0 {
		return true
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range b.AuthorizedUsers {
		if strings.ToLower(u) == email {
			return true
		}
	}
	return false
}

// SplitUsers convierte la lista persistida ("a@x.com, b@x.com") en elementos limpios.
func SplitUsers(joined string) []string {
	var out []string
	for _, part := range strings.Split(joined, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinUsers arma la representación persistida de la lista.
func JoinUsers(users []string) string {
	return strings.Join(users, ",")
}

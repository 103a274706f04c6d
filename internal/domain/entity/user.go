package entity

import "time"

// Roles válidos. La ausencia de fila en user_roles equivale a RoleVisitante.
const (
	RoleAdmin       = "admin"
	RoleSolicitante = "solicitante"
	RoleTaller      = "taller"
	RoleVisitante   = "visitante"
)

// ValidRole indica si r pertenece al conjunto cerrado de roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleSolicitante, RoleTaller, RoleVisitante:
		return true
	}
	return false
}

// User cuenta de acceso.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserWithRole usuario junto con su rol efectivo.
type UserWithRole struct {
	User
	Role string
}

// Identity quién está operando: id, email y rol resueltos por el middleware.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsWorkshop indica si la identidad tiene privilegios de taller (taller o admin).
func (i Identity) IsWorkshop() bool {
	return i.Role == RoleTaller || i.Role == RoleAdmin
}

// RegistrationStatus indica si el alta de usuarios está abierta.
type RegistrationStatus struct {
	IsOpen    bool
	UpdatedBy string
	UpdatedAt time.Time
}

package dto

import "time"

// RegisterRequest entrada para registro (auth). El usuario nuevo queda como visitante.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ChangePasswordRequest body para POST /api/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetRoleRequest body para PUT /api/users/:id/role.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,role"`
}

// RegistrationStatusRequest body para PUT /api/registration-status.
type RegistrationStatusRequest struct {
	IsOpen *bool `json:"is_open" validate:"required"`
}

// RegistrationStatusResponse estado del registro de usuarios.
type RegistrationStatusResponse struct {
	IsOpen    bool       `json:"is_open"`
	UpdatedBy string     `json:"updated_by,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

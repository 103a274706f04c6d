package dto

import "github.com/jhoicas/Equipos-api/internal/domain/entity"

// BusinessUnitRequest alta o edición de una unidad. Lista vacía = abierta a todos.
type BusinessUnitRequest struct {
	Name            string   `json:"name" validate:"required,max=200"`
	AuthorizedUsers []string `json:"authorized_users" validate:"omitempty,dive,max=200"`
}

// BusinessUnitResponse salida de una unidad de negocio.
type BusinessUnitResponse struct {
	Name            string   `json:"name"`
	AuthorizedUsers []string `json:"authorized_users"`
	Blocked         bool     `json:"blocked"`
}

// NewBusinessUnitResponse mapea la entidad a su salida HTTP.
func NewBusinessUnitResponse(b *entity.BusinessUnit) *BusinessUnitResponse {
	users := b.AuthorizedUsers
	if users == nil {
		users = []string{}
	}
	return &BusinessUnitResponse{Name: b.Name, AuthorizedUsers: users, Blocked: b.IsBlocked()}
}

// NewBusinessUnitResponses mapea una lista.
func NewBusinessUnitResponses(list []*entity.BusinessUnit) []BusinessUnitResponse {
	out := make([]BusinessUnitResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *NewBusinessUnitResponse(b))
	}
	return out
}

package dto

import (
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// CreateRequestsRequest body para POST /api/requests. Quantity > 1 genera una fila por unidad.
type CreateRequestsRequest struct {
	BusinessUnit string `json:"business_unit" validate:"required,max=200"`
	Type         string `json:"type" validate:"required,max=200"`
	Capacity     string `json:"capacity" validate:"omitempty,max=100"`
	Quantity     int    `json:"quantity" validate:"min=1,max=50"`
	DateFrom     string `json:"date_from" validate:"required,date"`
	DateTo       string `json:"date_to" validate:"required,date"`
	Notes        string `json:"notes" validate:"omitempty,max=1000"`
}

// RequestFilterQuery query string de GET /api/requests.
type RequestFilterQuery struct {
	BusinessUnit   string `query:"business_unit"`
	Type           string `query:"type"`
	Month          string `query:"month" validate:"omitempty,month"` // AAAA-MM
	OnlyUnassigned bool   `query:"unassigned"`
	PageRequest
}

// UpdateStartDateRequest body para PATCH /api/requests/:id/start-date. Vacío elimina el ajuste.
type UpdateStartDateRequest struct {
	StartDate string `json:"start_date" validate:"omitempty,date"`
}

// RequestResponse salida de una solicitud.
type RequestResponse struct {
	ID                int64     `json:"id"`
	BusinessUnit      string    `json:"business_unit"`
	Type              string    `json:"type"`
	Capacity          string    `json:"capacity"`
	Quantity          int       `json:"quantity"`
	DateFrom          string    `json:"date_from"`
	DateTo            string    `json:"date_to"`
	StartOverride     *string   `json:"start_override,omitempty"`
	EffectiveFrom     string    `json:"effective_from"`
	Notes             string    `json:"notes"`
	CreatorEmail      string    `json:"creator_email"`
	AssignedEquipment *string   `json:"assigned_equipment"`
	CreatedAt         time.Time `json:"created_at"`
}

// RequestListResponse listado paginado de solicitudes.
type RequestListResponse struct {
	Items []RequestResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// NewRequestResponse mapea la entidad a su salida HTTP.
func NewRequestResponse(r *entity.Request) *RequestResponse {
	if r == nil {
		return nil
	}
	return &RequestResponse{
		ID:                r.ID,
		BusinessUnit:      r.BusinessUnit,
		Type:              r.Type,
		Capacity:          r.Capacity,
		Quantity:          r.Quantity,
		DateFrom:          formatDate(r.DateFrom),
		DateTo:            formatDate(r.DateTo),
		StartOverride:     formatDatePtr(r.StartOverride),
		EffectiveFrom:     formatDate(r.EffectiveFrom()),
		Notes:             r.Notes,
		CreatorEmail:      r.CreatorEmail,
		AssignedEquipment: r.AssignedEquipment,
		CreatedAt:         r.CreatedAt,
	}
}

// NewRequestResponses mapea una lista.
func NewRequestResponses(list []*entity.Request) []RequestResponse {
	out := make([]RequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *NewRequestResponse(r))
	}
	return out
}

package dto

import (
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// AssignRequest body para POST /api/assignments.
type AssignRequest struct {
	RequestID     int64  `json:"request_id" validate:"required,gt=0"`
	EquipmentCode string `json:"equipment_code" validate:"required,max=100"`
}

// ReplaceRequest body para POST /api/assignments/:id/replace.
type ReplaceRequest struct {
	EquipmentCode string `json:"equipment_code" validate:"required,max=100"`
	EffectiveDate string `json:"effective_date" validate:"required,date"`
	Reason        string `json:"reason" validate:"required,max=500"`
}

// WithdrawRequest body para POST /api/assignments/:id/withdraw.
type WithdrawRequest struct {
	RetireDate string `json:"retire_date" validate:"required,date"`
}

// AvailabilityQuery query string de GET /api/equipment/available.
type AvailabilityQuery struct {
	Type    string `query:"type" validate:"required"`
	From    string `query:"from" validate:"required,date"`
	To      string `query:"to" validate:"required,date"`
	Exclude string `query:"exclude"`
}

// AssignmentFilterQuery query string de GET /api/assignments.
type AssignmentFilterQuery struct {
	BusinessUnit string `query:"business_unit"`
	RequestID    int64  `query:"request_id" validate:"min=0"`
	ActiveOnly   bool   `query:"active"`
	PageRequest
}

// AssignmentResponse salida de una asignación.
type AssignmentResponse struct {
	ID                int64     `json:"id"`
	EquipmentCode     string    `json:"equipment_code"`
	RequestID         int64     `json:"request_id"`
	StartDate         string    `json:"start_date"`
	EndDate           *string   `json:"end_date"`
	IsReplacement     bool      `json:"is_replacement"`
	ReplacedID        *int64    `json:"replaced_id"`
	ReplacementReason string    `json:"replacement_reason,omitempty"`
	AssignedBy        string    `json:"assigned_by"`
	AssignedAt        time.Time `json:"assigned_at"`
	Status            string    `json:"status"`
}

// WithdrawResponse resultado del retiro; FollowUp es null si no quedó período por cubrir.
type WithdrawResponse struct {
	Closed   AssignmentResponse `json:"closed"`
	Request  RequestResponse    `json:"request"`
	FollowUp *RequestResponse   `json:"follow_up"`
}

// HistoryResponse solicitud con su cadena de asignaciones.
type HistoryResponse struct {
	Request     RequestResponse      `json:"request"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// NewAssignmentResponse mapea la entidad a su salida HTTP.
func NewAssignmentResponse(a *entity.Assignment) *AssignmentResponse {
	if a == nil {
		return nil
	}
	return &AssignmentResponse{
		ID:                a.ID,
		EquipmentCode:     a.EquipmentCode,
		RequestID:         a.RequestID,
		StartDate:         formatDate(a.StartDate),
		EndDate:           formatDatePtr(a.EndDate),
		IsReplacement:     a.IsReplacement,
		ReplacedID:        a.ReplacedID,
		ReplacementReason: a.ReplacementReason,
		AssignedBy:        a.AssignedBy,
		AssignedAt:        a.AssignedAt,
		Status:            a.Status,
	}
}

// NewAssignmentResponses mapea una lista.
func NewAssignmentResponses(list []*entity.Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *NewAssignmentResponse(a))
	}
	return out
}

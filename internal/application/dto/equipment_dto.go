package dto

import (
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// EquipmentRequest alta o reemplazo completo de un equipo.
type EquipmentRequest struct {
	Code             string `json:"code" validate:"required,max=100"`
	Type             string `json:"type" validate:"required,max=200"`
	DeclaredCapacity string `json:"declared_capacity" validate:"omitempty,max=100"`
	DetailA          string `json:"detail_a" validate:"omitempty,max=1000"`
	DetailB          string `json:"detail_b" validate:"omitempty,max=1000"`
}

// UpdateEquipmentRequest actualización parcial; el código viene en la ruta.
type UpdateEquipmentRequest struct {
	Type             *string `json:"type" validate:"omitempty,min=1,max=200"`
	DeclaredCapacity *string `json:"declared_capacity" validate:"omitempty,max=100"`
	DetailA          *string `json:"detail_a" validate:"omitempty,max=1000"`
	DetailB          *string `json:"detail_b" validate:"omitempty,max=1000"`
}

// EquipmentResponse salida de un equipo. CurrentBusinessUnit se calcula con la asignación activa.
type EquipmentResponse struct {
	Code                string    `json:"code"`
	Type                string    `json:"type"`
	DeclaredCapacity    string    `json:"declared_capacity"`
	DetailA             string    `json:"detail_a"`
	DetailB             string    `json:"detail_b"`
	CurrentBusinessUnit string    `json:"current_business_unit,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ImportResponse resultado de la carga masiva.
type ImportResponse struct {
	Imported int                 `json:"imported"`
	Items    []EquipmentResponse `json:"items"`
}

// NewEquipmentResponse mapea la entidad a su salida HTTP.
func NewEquipmentResponse(e *entity.Equipment) *EquipmentResponse {
	if e == nil {
		return nil
	}
	return &EquipmentResponse{
		Code:                e.Code,
		Type:                e.Type,
		DeclaredCapacity:    e.DeclaredCapacity,
		DetailA:             e.DetailA,
		DetailB:             e.DetailB,
		CurrentBusinessUnit: e.CurrentBusinessUnit,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

// NewEquipmentResponses mapea una lista.
func NewEquipmentResponses(list []*entity.Equipment) []EquipmentResponse {
	out := make([]EquipmentResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *NewEquipmentResponse(e))
	}
	return out
}

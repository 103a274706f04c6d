package entity

import "time"

// Request es una solicitud de un equipo (una unidad por fila) para un rango de fechas.
type Request struct {
	ID           int64
	BusinessUnit string
	Type         string
	Capacity     string
	Quantity     int // siempre 1: las solicitudes de N unidades se expanden en N filas
	DateFrom     time.Time
	DateTo       time.Time
	// StartOverride fecha de inicio real cargada por taller; si está presente
	// reemplaza a DateFrom para calcular disponibilidad y asignar.
	StartOverride *time.Time
	Notes         string
	CreatorEmail  string
	// AssignedEquipment puntero vivo al equipo asignado (equipo_asignado).
	AssignedEquipment *string
	CreatedAt         time.Time
}

// EffectiveFrom devuelve la fecha desde la que la solicitud necesita equipo.
func (r *Request) EffectiveFrom() time.Time {
	if r.StartOverride != nil {
		return *r.StartOverride
	}
	return r.DateFrom
}

// HasAssignedEquipment indica si el puntero de equipo asignado está cargado.
func (r *Request) HasAssignedEquipment() bool {
	return r.AssignedEquipment != nil && *r.AssignedEquipment != ""
}

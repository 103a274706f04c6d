package entity

import "time"

// Estados de una asignación.
const (
	AssignmentActive    = "activa"
	AssignmentReplaced  = "reemplazada" // cerrada por un reemplazo de equipo
	AssignmentWithdrawn = "retirada"    // cerrada por retiro del equipo
)

// Assignment vincula un equipo con una solicitud durante [StartDate, EndDate].
type Assignment struct {
	ID            int64
	EquipmentCode string
	RequestID     int64
	StartDate     time.Time
	// EndDate nil mientras la asignación está abierta; para conflictos se toma
	// el fecha_hasta de la solicitud.
	EndDate       *time.Time
	IsReplacement bool
	// ReplacedID referencia débil a la asignación anterior de la cadena.
	ReplacedID        *int64
	ReplacementReason string
	AssignedBy        string
	AssignedAt        time.Time
	Status            string
}

// IsActive indica si la asignación no fue cerrada por reemplazo ni retiro.
func (a *Assignment) IsActive() bool {
	return a.Status == AssignmentActive
}

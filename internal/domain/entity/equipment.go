package entity

import "time"

// Equipment representa un equipo físico del catálogo, identificado por su código.
type Equipment struct {
	Code             string // codigo
	Type             string // tipo_de_equipos
	DeclaredCapacity string // capacidad_informada, texto libre ("2500 kg")
	DetailA          string // detalle_planilla_mpt
	DetailB          string // detalles
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// CurrentBusinessUnit se calcula al leer, a partir de la asignación activa.
	// No se persiste: vacío si el equipo no está asignado.
	CurrentBusinessUnit string
}

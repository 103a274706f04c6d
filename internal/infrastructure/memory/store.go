// Package memory implementa los repositorios en memoria del proceso (STORE=memory).
// Sirve para desarrollo local y pruebas; no tiene transacciones.
package memory

import (
	"sync"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex

	equipos      map[string]*entity.Equipment
	solicitudes  map[int64]*entity.Request
	asignaciones map[int64]*entity.Assignment
	unidades     map[string]*entity.BusinessUnit
	usuarios     map[string]*entity.User
	roles        map[string]string
	registro     entity.RegistrationStatus

	nextRequestID    int64
	nextAssignmentID int64
}

// NewStore crea un almacén vacío con el registro de usuarios abierto.
func NewStore() *Store {
	return &Store{
		equipos:      make(map[string]*entity.Equipment),
		solicitudes:  make(map[int64]*entity.Request),
		asignaciones: make(map[int64]*entity.Assignment),
		unidades:     make(map[string]*entity.BusinessUnit),
		usuarios:     make(map[string]*entity.User),
		roles:        make(map[string]string),
		registro:     entity.RegistrationStatus{IsOpen: true},
	}
}

func cloneEquipment(e *entity.Equipment) *entity.Equipment {
	c := *e
	return &c
}

func cloneRequest(r *entity.Request) *entity.Request {
	c := *r
	if r.StartOverride != nil {
		d := *r.StartOverride
		c.StartOverride = &d
	}
	if r.AssignedEquipment != nil {
		s := *r.AssignedEquipment
		c.AssignedEquipment = &s
	}
	return &c
}

func cloneAssignment(a *entity.Assignment) *entity.Assignment {
	c := *a
	if a.EndDate != nil {
		d := *a.EndDate
		c.EndDate = &d
	}
	if a.ReplacedID != nil {
		id := *a.ReplacedID
		c.ReplacedID = &id
	}
	return &c
}

func cloneUnit(b *entity.BusinessUnit) *entity.BusinessUnit {
	c := *b
	c.AuthorizedUsers = append([]string(nil), b.AuthorizedUsers...)
	return &c
}

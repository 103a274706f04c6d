// Package loan reúne las reglas puras de préstamo de equipos: solapamiento de
// períodos y disponibilidad de un equipo frente a sus asignaciones.
package loan

import (
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// NormalizeDate descarta hora y zona: todas las fechas del dominio son días calendario en UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta una fecha AAAA-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(t), nil
}

// FormatDate formatea como AAAA-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Overlaps indica si los intervalos cerrados [startA, endA] y [startB, endB]
// comparten al menos un día. Hay conflicto salvo que uno termine antes de que
// empiece el otro; un día de borde compartido es conflicto.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	startA, endA = NormalizeDate(startA), NormalizeDate(endA)
	startB, endB = NormalizeDate(startB), NormalizeDate(endB)
	return !(endA.Before(startB) || endB.Before(startA))
}

// EffectiveEnd devuelve el fin de la asignación a efectos de conflicto:
// una asignación abierta sigue viva hasta el fecha_hasta de su solicitud.
func EffectiveEnd(a *entity.Assignment, requestDateTo time.Time) time.Time {
	if a.EndDate != nil {
		return *a.EndDate
	}
	return requestDateTo
}

// RequestDateTo resuelve el fecha_hasta de la solicitud dueña de una asignación.
type RequestDateTo func(requestID int64) (time.Time, bool)

// ConflictsWith indica si alguna asignación del equipo se solapa con [from, to].
// Si una asignación abierta no tiene solicitud resoluble se considera conflictiva.
func ConflictsWith(assignments []*entity.Assignment, dateTo RequestDateTo, from, to time.Time) bool {
	for _, a := range assignments {
		var end time.Time
		if a.EndDate != nil {
			end = *a.EndDate
		} else {
			reqTo, ok := dateTo(a.RequestID)
			if !ok {
				return true
			}
			end = reqTo
		}
		if Overlaps(a.StartDate, end, from, to) {
			return true
		}
	}
	return false
}

// FilterAvailable devuelve, en el orden recibido, los equipos sin conflicto en
// [from, to]. byCode agrupa las asignaciones por código de equipo.
func FilterAvailable(candidates []*entity.Equipment, byCode map[string][]*entity.Assignment, dateTo RequestDateTo, from, to time.Time) []*entity.Equipment {
	out := make([]*entity.Equipment, 0, len(candidates))
	for _, eq := range candidates {
		if !ConflictsWith(byCode[eq.Code], dateTo, from, to) {
			out = append(out, eq)
		}
	}
	return out
}

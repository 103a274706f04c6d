// Package report arma los documentos descargables: historial en PDF y asignaciones en XLSX.
package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
)

var assignmentHeader = []string{
	"ID", "Equipo", "Solicitud", "Unidad de negocio", "Tipo", "Inicio", "Fin",
	"Estado", "Reemplazo", "Reemplaza a", "Motivo", "Asignó", "Fecha de asignación",
}

// ReportUseCase genera reportes a partir del historial y de las asignaciones.
type ReportUseCase struct {
	history     HistorySource
	assignments repository.AssignmentRepository
	requests    repository.RequestRepository
	pdf         HistoryPDFGenerator
	sheets      SpreadsheetWriter
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	history HistorySource,
	assignments repository.AssignmentRepository,
	requests repository.RequestRepository,
	pdf HistoryPDFGenerator,
	sheets SpreadsheetWriter,
) *ReportUseCase {
	return &ReportUseCase{history: history, assignments: assignments, requests: requests, pdf: pdf, sheets: sheets, now: time.Now}
}

// RequestHistoryPDF devuelve el PDF del historial de movimientos de la solicitud y su nombre de archivo.
func (uc *ReportUseCase) RequestHistoryPDF(ctx context.Context, requestID int64) ([]byte, string, error) {
	req, chain, err := uc.history.History(ctx, requestID)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.pdf.GenerateHistoryPDF(ctx, req, chain, uc.now())
	if err != nil {
		return nil, "", fmt.Errorf("pdf historial solicitud %d: %w", requestID, err)
	}
	return doc, fmt.Sprintf("historial_solicitud_%d.pdf", requestID), nil
}

// AssignmentsXLSX exporta las asignaciones filtradas. Sin límite explícito exporta todas.
func (uc *ReportUseCase) AssignmentsXLSX(ctx context.Context, q dto.AssignmentFilterQuery) ([]byte, string, error) {
	list, err := uc.assignments.List(ctx, repository.AssignmentFilter{
		BusinessUnit: q.BusinessUnit,
		RequestID:    q.RequestID,
		ActiveOnly:   q.ActiveOnly,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
	if err != nil {
		return nil, "", err
	}
	reqs, err := uc.requestsFor(ctx, list)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]string, 0, len(list)+1)
	rows = append(rows, assignmentHeader)
	for _, a := range list {
		rows = append(rows, assignmentRow(a, reqs[a.RequestID]))
	}
	var buf bytes.Buffer
	if err := uc.sheets.Write(&buf, "Asignaciones", rows); err != nil {
		return nil, "", fmt.Errorf("xlsx asignaciones: %w", err)
	}
	return buf.Bytes(), fmt.Sprintf("asignaciones_%s.xlsx", uc.now().Format(time.DateOnly)), nil
}

func (uc *ReportUseCase) requestsFor(ctx context.Context, list []*entity.Assignment) (map[int64]*entity.Request, error) {
	ids := make([]int64, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.RequestID)
	}
	out := make(map[int64]*entity.Request, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	reqs, err := uc.requests.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range reqs {
		out[r.ID] = r
	}
	return out, nil
}

func assignmentRow(a *entity.Assignment, req *entity.Request) []string {
	unit, typ := "", ""
	if req != nil {
		unit, typ = req.BusinessUnit, req.Type
	}
	end := ""
	if a.EndDate != nil {
		end = a.EndDate.Format(time.DateOnly)
	}
	replaced := ""
	if a.ReplacedID != nil {
		replaced = strconv.FormatInt(*a.ReplacedID, 10)
	}
	repl := "No"
	if a.IsReplacement {
		repl = "Sí"
	}
	assignedAt := ""
	if !a.AssignedAt.IsZero() {
		assignedAt = a.AssignedAt.Format("2006-01-02 15:04")
	}
	return []string{
		strconv.FormatInt(a.ID, 10), a.EquipmentCode, strconv.FormatInt(a.RequestID, 10), unit, typ,
		a.StartDate.Format(time.DateOnly), end, a.Status, repl, replaced, a.ReplacementReason,
		a.AssignedBy, assignedAt,
	}
}

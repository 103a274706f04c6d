package report_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Equipos-api/internal/application/assignment"
	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/report"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/memory"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/xlsx"
)

type fakePDF struct {
	req   *entity.Request
	chain []*entity.Assignment
}

func (f *fakePDF) GenerateHistoryPDF(_ context.Context, req *entity.Request, chain []*entity.Assignment, _ time.Time) ([]byte, error) {
	f.req, f.chain = req, chain
	return []byte("%PDF-fake"), nil
}

func setup(t *testing.T) (*report.ReportUseCase, *fakePDF, int64) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	equipos := memory.NewEquipmentRepository(s)
	requests := memory.NewRequestRepository(s)
	assigns := memory.NewAssignmentRepository(s)
	require.NoError(t, equipos.Upsert(ctx, &entity.Equipment{Code: "E1", Type: "Zorra"}))
	require.NoError(t, equipos.Upsert(ctx, &entity.Equipment{Code: "E2", Type: "Zorra"}))
	req := &entity.Request{BusinessUnit: "Planta Norte", Type: "Zorra", Quantity: 1,
		DateFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), DateTo: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, requests.CreateBatch(ctx, []*entity.Request{req}))

	res := assignment.NewResolver(memory.NewTxRunner(s), equipos, requests, assigns, nil)
	a1, err := res.Assign(ctx, assignment.AssignInput{RequestID: req.ID, EquipmentCode: "E1", Actor: "taller@empresa.com"})
	require.NoError(t, err)
	_, err = res.Replace(ctx, assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E2",
		EffectiveDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Reason: "rotura", Actor: "taller@empresa.com"})
	require.NoError(t, err)

	pdf := &fakePDF{}
	return report.NewReportUseCase(res, assigns, requests, pdf, xlsx.NewWriter()), pdf, req.ID
}

func TestRequestHistoryPDF(t *testing.T) {
	uc, pdf, id := setup(t)
	doc, name, err := uc.RequestHistoryPDF(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), doc)
	assert.Equal(t, "historial_solicitud_1.pdf", name)
	assert.Equal(t, id, pdf.req.ID)
	assert.Len(t, pdf.chain, 2)

	_, _, err = uc.RequestHistoryPDF(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssignmentsXLSX(t *testing.T) {
	uc, _, _ := setup(t)
	data, name, err := uc.AssignmentsXLSX(context.Background(), dto.AssignmentFilterQuery{BusinessUnit: "Planta Norte"})
	require.NoError(t, err)
	assert.Contains(t, name, "asignaciones_")

	rows, err := xlsx.NewReader().ReadRows(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Equipo", rows[0][1])
	assert.Equal(t, "E1", rows[1][1])
	assert.Equal(t, "reemplazada", rows[1][7])
	assert.Equal(t, "E2", rows[2][1])
	assert.Equal(t, "Sí", rows[2][8])
	assert.Equal(t, "rotura", rows[2][10])

	data, _, err = uc.AssignmentsXLSX(context.Background(), dto.AssignmentFilterQuery{BusinessUnit: "Otra"})
	require.NoError(t, err)
	rows, err = xlsx.NewReader().ReadRows(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

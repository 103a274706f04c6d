package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

func TestGenerateHistoryPDF(t *testing.T) {
	end := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	prev := int64(1)
	req := &entity.Request{
		ID: 7, BusinessUnit: "Planta Norte", Type: "Zorra", Capacity: "2500 kg",
		DateFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Notes:    "Creado por taller",
	}
	chain := []*entity.Assignment{
		{ID: 1, EquipmentCode: "E1", RequestID: 7, StartDate: req.DateFrom, EndDate: &end, Status: entity.AssignmentReplaced},
		{ID: 2, EquipmentCode: "E2", RequestID: 7, StartDate: end.AddDate(0, 0, 1), IsReplacement: true,
			ReplacedID: &prev, ReplacementReason: "rotura", Status: entity.AssignmentActive},
	}

	doc, err := NewMarotoPDFGenerator().GenerateHistoryPDF(context.Background(), req, chain, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestGenerateHistoryPDF_SinAsignaciones(t *testing.T) {
	req := &entity.Request{ID: 3, Type: "Zorra", DateFrom: time.Now(), DateTo: time.Now()}
	doc, err := NewMarotoPDFGenerator().GenerateHistoryPDF(context.Background(), req, nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, doc)

	_, err = NewMarotoPDFGenerator().GenerateHistoryPDF(context.Background(), nil, nil, time.Now())
	assert.Error(t, err)
}

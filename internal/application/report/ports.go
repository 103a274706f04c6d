package report

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// HistoryPDFGenerator genera el PDF del historial de una solicitud.
type HistoryPDFGenerator interface {
	GenerateHistoryPDF(ctx context.Context, req *entity.Request, chain []*entity.Assignment, generatedAt time.Time) ([]byte, error)
}

// SpreadsheetWriter escribe una tabla en una hoja de cálculo.
type SpreadsheetWriter interface {
	Write(w io.Writer, sheet string, rows [][]string) error
}

// HistorySource provee la solicitud y su cadena de asignaciones.
type HistorySource interface {
	History(ctx context.Context, requestID int64) (*entity.Request, []*entity.Assignment, error)
}

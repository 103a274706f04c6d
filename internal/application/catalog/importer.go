// Package catalog implementa la carga masiva del catálogo de equipos desde CSV o XLSX.
package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
	"github.com/jhoicas/Equipos-api/pkg/logger"
)

// TxRunner unidad de trabajo para el upsert de todas las filas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		equipos repository.EquipmentRepository,
		solicitudes repository.RequestRepository,
		asignaciones repository.AssignmentRepository,
	) error) error
}

// SheetReader lee las filas de la primera hoja de un libro XLSX.
type SheetReader interface {
	ReadRows(r io.Reader) ([][]string, error)
}

// Importer valida el archivo completo y, si todas las filas son válidas, hace upsert por código.
type Importer struct {
	txRunner TxRunner
	repo     repository.EquipmentRepository
	sheets   SheetReader
	maxBytes int64
	log      *logger.Logger
}

// NewImporter construye el importador. maxBytes <= 0 no limita el tamaño.
func NewImporter(txRunner TxRunner, repo repository.EquipmentRepository, sheets SheetReader, maxBytes int64, log *logger.Logger) *Importer {
	if log == nil {
		log = logger.Nop()
	}
	return &Importer{txRunner: txRunner, repo: repo, sheets: sheets, maxBytes: maxBytes, log: log.Component("catalog")}
}

// columnas aceptadas (en minúsculas, espacios como "_") -> campo
var headerAliases = map[string]string{
	"codigo":               "codigo",
	"código":               "codigo",
	"code":                 "codigo",
	"tipo_de_equipos":      "tipo_de_equipos",
	"tipo":                 "tipo_de_equipos",
	"type":                 "tipo_de_equipos",
	"capacidad_informada":  "capacidad_informada",
	"declared_capacity":    "capacidad_informada",
	"detalle_planilla_mpt": "detalle_planilla_mpt",
	"detail_a":             "detalle_planilla_mpt",
	"detalles":             "detalles",
	"detail_b":             "detalles",
}

var requiredColumns = []string{"codigo", "tipo_de_equipos"}

// Import lee filename (por su extensión: .csv o .xlsx) y carga las filas.
func (im *Importer) Import(ctx context.Context, filename string, r io.Reader) (*dto.ImportResponse, error) {
	data, err := im.readAll(r)
	if err != nil {
		return nil, err
	}
	rows, err := im.parse(filename, data)
	if err != nil {
		return nil, err
	}
	items, err := ToEquipment(rows)
	if err != nil {
		return nil, err
	}

	err = im.txRunner.Run(ctx, func(equipos repository.EquipmentRepository, _ repository.RequestRepository, _ repository.AssignmentRepository) error {
		for _, eq := range items {
			if err := equipos.Upsert(ctx, eq); err != nil {
				return fmt.Errorf("código %s: %w", eq.Code, err)
			}
		}
		return nil
	})
	if err != nil {
		im.log.Error().Err(err).Str("archivo", filename).Msg("importación de equipos fallida")
		return nil, err
	}

	all, err := im.repo.List(ctx, repository.EquipmentFilter{})
	if err != nil {
		return nil, err
	}
	im.log.Info().Str("archivo", filename).Int("filas", len(items)).Msg("equipos importados")
	return &dto.ImportResponse{Imported: len(items), Items: dto.NewEquipmentResponses(all)}, nil
}

func (im *Importer) readAll(r io.Reader) ([]byte, error) {
	if im.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, im.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > im.maxBytes {
		return nil, domain.Validationf("el archivo supera el máximo de %d bytes", im.maxBytes)
	}
	return data, nil
}

func (im *Importer) parse(filename string, data []byte) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		if im.sheets == nil {
			return nil, domain.Validationf("formato de archivo no soportado: %s", ext)
		}
		rows, err := im.sheets.ReadRows(bytes.NewReader(data))
		if err != nil {
			return nil, domain.Validationf("archivo XLSX inválido: %v", err)
		}
		return rows, nil
	case ".csv", ".txt", "":
		return ParseCSV(data)
	default:
		return nil, domain.Validationf("formato de archivo no soportado: %s", ext)
	}
}

// ParseCSV decodifica texto delimitado. Acepta UTF-8 (con o sin BOM) y Windows-1252,
// y separador coma o punto y coma.
func ParseCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, domain.Validationf("codificación de archivo no soportada")
		}
		data = decoded
	}
	first, _, _ := bytes.Cut(data, []byte("\n"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		cr.Comma = ';'
	}
	rows, err := cr.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, domain.Validationf("CSV inválido en la línea %d: %v", perr.Line, perr.Err)
		}
		return nil, domain.Validationf("CSV inválido: %v", err)
	}
	return rows, nil
}

// ToEquipment convierte filas (la primera es el encabezado) en equipos. Si alguna fila
// no trae un campo obligatorio se rechaza el lote completo.
func ToEquipment(rows [][]string) ([]*entity.Equipment, error) {
	if len(rows) == 0 {
		return nil, domain.Validationf("el archivo está vacío")
	}
	index := map[string]int{}
	for i, h := range rows[0] {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		if field, ok := headerAliases[key]; ok {
			if _, dup := index[field]; !dup {
				index[field] = i
			}
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, domain.Validationf("falta la columna obligatoria: %s", col)
		}
	}

	cell := func(row []string, field string) string {
		i, ok := index[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []*entity.Equipment
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := n + 2
		eq := &entity.Equipment{
			Code:             cell(row, "codigo"),
			Type:             cell(row, "tipo_de_equipos"),
			DeclaredCapacity: cell(row, "capacidad_informada"),
			DetailA:          cell(row, "detalle_planilla_mpt"),
			DetailB:          cell(row, "detalles"),
		}
		if eq.Code == "" {
			return nil, domain.Validationf("fila %d: falta el campo obligatorio codigo", line)
		}
		if eq.Type == "" {
			return nil, domain.Validationf("fila %d: falta el campo obligatorio tipo_de_equipos", line)
		}
		out = append(out, eq)
	}
	if len(out) == 0 {
		return nil, domain.Validationf("el archivo no tiene filas de datos")
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

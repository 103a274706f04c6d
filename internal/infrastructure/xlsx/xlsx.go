// Package xlsx lee y escribe libros de Excel con excelize.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Reader lee la primera hoja de un libro.
type Reader struct{}

// NewReader construye el lector.
func NewReader() *Reader { return &Reader{} }

// ReadRows devuelve las filas de la primera hoja como texto.
func (Reader) ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir libro: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el libro no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	return rows, nil
}

// Writer escribe tablas en una hoja; la primera fila va en negrita.
type Writer struct{}

// NewWriter construye el escritor.
func NewWriter() *Writer { return &Writer{} }

// Write delega en WriteRows.
func (Writer) Write(w io.Writer, sheet string, rows [][]string) error {
	return WriteRows(w, sheet, rows)
}

// WriteRows genera un libro con una sola hoja llamada sheet.
func WriteRows(w io.Writer, sheet string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("nombre de hoja: %w", err)
		}
	}

	width := 0
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		vals := make([]interface{}, len(row))
		for j, v := range row {
			vals[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("fila %d: %w", i+1, err)
		}
		if len(row) > width {
			width = len(row)
		}
	}

	if len(rows) > 0 && width > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(width, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return err
		}
		lastCol, _ := excelize.ColumnNumberToName(width)
		if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
			return err
		}
	}
	return f.Write(w)
}

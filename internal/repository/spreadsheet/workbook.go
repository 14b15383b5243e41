// Package spreadsheet parses uploaded xlsx workbooks into typed cell grids.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/moradafish/dashboard/internal/domain/models"
)

// ErrEmptyFile is returned for zero-length uploads.
var ErrEmptyFile = errors.New("empty spreadsheet file")

// Sheet is one worksheet of a parsed workbook.
type Sheet struct {
	Name string
	Grid models.Grid
}

// Workbook holds every worksheet in workbook order.
type Workbook struct {
	Sheets []Sheet
}

// ParseWorkbook reads xlsx bytes. Numeric cells, date-formatted ones included,
// come back as numbers so date serials survive untouched; text cells come back
// as strings.
func ParseWorkbook(data []byte) (*Workbook, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	wb := &Workbook{}
	for _, name := range file.GetSheetList() {
		grid, err := readSheet(file, name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Grid: grid})
	}
	return wb, nil
}

// Names lists the worksheet names in order.
func (w *Workbook) Names() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

func readSheet(file *excelize.File, name string) (models.Grid, error) {
	rows, err := file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	grid := make(models.Grid, len(rows))
	for r, values := range rows {
		row := make(models.Row, len(values))
		for c, value := range values {
			if strings.TrimSpace(value) == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			kind, err := file.GetCellType(name, ref)
			if err != nil {
				return nil, err
			}
			row[c] = typedCell(kind, value)
		}
		grid[r] = row
	}
	return grid, nil
}

func typedCell(kind excelize.CellType, value string) models.Cell {
	switch kind {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool, excelize.CellTypeError:
		return models.StringCell(value)
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		return models.NumberCell(n)
	}
	return models.StringCell(value)
}

package models

import (
	"strconv"
	"strings"
	"time"
)

// CellKind enumerates the primitive values a spreadsheet cell can hold.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellDate
)

// Cell is a single spreadsheet value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Time time.Time
}

// Row is one spreadsheet row.
type Row []Cell

// Grid is a parsed worksheet, rows by columns.
type Grid []Row

// StringCell builds a text cell. Blank text yields an empty cell.
func StringCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellString, Str: s}
}

// NumberCell builds a numeric cell.
func NumberCell(n float64) Cell {
	return Cell{Kind: CellNumber, Num: n}
}

// DateCell builds a native date cell.
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Time: t}
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// Text renders the cell the way a spreadsheet would display a raw value.
func (c Cell) Text() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellDate:
		return FormatDate(c.Time)
	default:
		return ""
	}
}

// At returns the cell at column idx, or an empty cell when out of range.
func (r Row) At(idx int) Cell {
	if idx < 0 || idx >= len(r) {
		return Cell{}
	}
	return r[idx]
}

// IsBlank reports whether every cell of the row is empty or whitespace.
func (r Row) IsBlank() bool {
	for _, c := range r {
		if strings.TrimSpace(c.Text()) != "" {
			return false
		}
	}
	return true
}

// Width is the length of the longest row.
func (g Grid) Width() int {
	w := 0
	for _, r := range g {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

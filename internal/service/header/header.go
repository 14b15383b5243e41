// Package header locates the header block of a fileting-yield spreadsheet and
// maps its columns onto semantic fields.
package header

import (
	"fmt"
	"strings"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/normalize"
)

const (
	scanRows       = 120
	strongScore    = 3
	maxStackedRows = 2
)

// Result describes where the header is and how columns map to fields.
type Result struct {
	Row                int                  `json:"header_row"`
	Span               int                  `json:"header_span"`
	Labels             []string             `json:"labels"`
	Mapping            models.ColumnMapping `json:"mapping"`
	Inferred           bool                 `json:"inferred"`
	NeedsManualMapping bool                 `json:"needs_manual_mapping"`
}

// LastRow is the index of the last header row; data starts right after it.
func (r Result) LastRow() int {
	return r.Row + r.Span - 1
}

// Engine matches header labels against an alias table.
type Engine struct {
	aliases map[models.Field]map[string]struct{}
}

// NewEngine folds the alias table once.
func NewEngine(aliases map[models.Field][]string) *Engine {
	folded := make(map[models.Field]map[string]struct{}, len(aliases))
	for field, list := range aliases {
		set := make(map[string]struct{}, len(list))
		for _, a := range list {
			set[normalize.Text(a)] = struct{}{}
		}
		folded[field] = set
	}
	return &Engine{aliases: folded}
}

var defaultEngine = NewEngine(Aliases)

// Infer runs the default engine.
func Infer(grid models.Grid) Result {
	return defaultEngine.Infer(grid)
}

// Matches reports whether label is a known spelling of field.
func (e *Engine) Matches(field models.Field, label string) bool {
	_, ok := e.aliases[field][normalize.Text(label)]
	return ok
}

// Infer scans the leading rows for the best header candidate, merges stacked
// label rows, maps columns by alias and falls back to content inference when
// the date or worker column is unresolved.
func (e *Engine) Infer(grid models.Grid) Result {
	anchor := e.findHeaderRow(grid)
	span := e.stackedSpan(grid, anchor)

	fragments := columnFragments(grid, anchor, span)
	width := len(fragments)
	for _, row := range sampleRows(grid, anchor+span) {
		if len(row) > width {
			width = len(row)
		}
	}

	res := Result{
		Row:     anchor,
		Span:    span,
		Labels:  make([]string, width),
		Mapping: models.EmptyMapping(),
	}

	for i := 0; i < width; i++ {
		var frags []string
		if i < len(fragments) {
			frags = fragments[i]
		}
		label := strings.Join(frags, " ")
		if label == "" {
			label = fmt.Sprintf("(column %d)", i+1)
		}
		res.Labels[i] = label
	}

	for _, field := range models.Fields {
		for i, frags := range fragments {
			if e.matchesAny(field, candidates(frags)) {
				res.Mapping.Set(field, i)
				break
			}
		}
	}

	if !res.Mapping.Complete() {
		res.Inferred = inferFromContent(sampleRows(grid, res.LastRow()+1), &res.Mapping)
	}
	res.NeedsManualMapping = !res.Mapping.Complete()
	return res
}

func (e *Engine) findHeaderRow(grid models.Grid) int {
	best, bestScore := 0, -1
	for r := 0; r < len(grid) && r < scanRows; r++ {
		score := e.scoreRow(grid[r])
		if score > bestScore {
			best, bestScore = r, score
		}
		if score >= strongScore {
			break
		}
	}
	return best
}

func (e *Engine) scoreRow(row models.Row) int {
	cells := make([]string, 0, len(row))
	for _, c := range row {
		if v := normalize.CellText(c); v != "" {
			cells = append(cells, v)
		}
	}

	score := 0
	for _, field := range models.Fields {
		if e.matchesAny(field, cells) {
			score++
		}
	}
	return score
}

func (e *Engine) matchesAny(field models.Field, labels []string) bool {
	set := e.aliases[field]
	for _, l := range labels {
		if _, ok := set[normalize.Text(l)]; ok {
			return true
		}
	}
	return false
}

// stackedSpan counts the anchor plus up to two following label-only rows. A
// row joins the block only when it maps a field the block above it could not,
// so label-looking data rows stay in the data.
func (e *Engine) stackedSpan(grid models.Grid, anchor int) int {
	span := 1
	mapped := e.mappedFields(grid, anchor, span)
	for k := 1; k <= maxStackedRows; k++ {
		r := anchor + k
		if r >= len(grid) || !isLabelRow(grid[r]) {
			break
		}
		next := e.mappedFields(grid, anchor, span+1)
		if next <= mapped {
			break
		}
		span, mapped = span+1, next
	}
	return span
}

func (e *Engine) mappedFields(grid models.Grid, anchor, span int) int {
	fragments := columnFragments(grid, anchor, span)
	n := 0
	for _, field := range models.Fields {
		for _, frags := range fragments {
			if e.matchesAny(field, candidates(frags)) {
				n++
				break
			}
		}
	}
	return n
}

func isLabelRow(row models.Row) bool {
	if row.IsBlank() {
		return false
	}
	for _, c := range row {
		switch c.Kind {
		case models.CellEmpty:
			continue
		case models.CellString:
			if isDateShaped(c) || isNumericText(c.Str) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// columnFragments returns, per column, the non-empty label fragments of the
// header block from top to bottom.
func columnFragments(grid models.Grid, anchor, span int) [][]string {
	if anchor >= len(grid) {
		return nil
	}

	width := 0
	for r := anchor; r < anchor+span && r < len(grid); r++ {
		if len(grid[r]) > width {
			width = len(grid[r])
		}
	}

	out := make([][]string, width)
	for i := 0; i < width; i++ {
		for r := anchor; r < anchor+span && r < len(grid); r++ {
			text := strings.Join(strings.Fields(grid[r].At(i).Text()), " ")
			if text != "" {
				out[i] = append(out[i], text)
			}
		}
	}
	return out
}

// candidates lists every fragment alone plus every top-down cumulative join,
// which covers labels split across stacked cells.
func candidates(frags []string) []string {
	out := make([]string, 0, len(frags)*2)
	out = append(out, frags...)
	for n := 2; n <= len(frags); n++ {
		out = append(out, strings.Join(frags[:n], " "))
	}
	return out
}

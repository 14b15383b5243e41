package header

import (
	"regexp"
	"unicode"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/normalize"
)

const (
	sampleSize    = 30
	minShareShape = 0.6

	// Serials between 2000-01-01 and 2100-01-01; smaller numbers are weights.
	minDateSerial = 36526
	maxDateSerial = 73051
)

var numericText = regexp.MustCompile(`^[\s+\-]*[\d.,\s]*\d[\d.,\s]*%?\s*$`)

func sampleRows(grid models.Grid, start int) []models.Row {
	var out []models.Row
	for r := start; r < len(grid) && len(out) < sampleSize; r++ {
		if grid[r].IsBlank() {
			continue
		}
		out = append(out, grid[r])
	}
	return out
}

// inferFromContent fills missing date and worker columns from the shape of the
// data. It reports whether any column was assigned.
func inferFromContent(rows []models.Row, mapping *models.ColumnMapping) bool {
	if len(rows) == 0 {
		return false
	}

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	used := make(map[int]bool)
	for _, f := range models.Fields {
		if idx := mapping.Get(f); idx != models.Absent {
			used[idx] = true
		}
	}

	assigned := false
	if mapping.Date == models.Absent {
		if col := bestColumn(rows, width, used, isDateShaped); col != models.Absent {
			mapping.Date = col
			used[col] = true
			assigned = true
		}
	}
	if mapping.Worker == models.Absent {
		if col := bestColumn(rows, width, used, isNameShaped); col != models.Absent {
			mapping.Worker = col
			assigned = true
		}
	}
	return assigned
}

func bestColumn(rows []models.Row, width int, used map[int]bool, shaped func(models.Cell) bool) int {
	best, bestShare := models.Absent, 0.0
	for col := 0; col < width; col++ {
		if used[col] {
			continue
		}

		filled, hits := 0, 0
		for _, r := range rows {
			c := r.At(col)
			if c.IsEmpty() {
				continue
			}
			filled++
			if shaped(c) {
				hits++
			}
		}
		if filled == 0 {
			continue
		}

		share := float64(hits) / float64(filled)
		if share >= minShareShape && share > bestShare {
			best, bestShare = col, share
		}
	}
	return best
}

func isDateShaped(c models.Cell) bool {
	switch c.Kind {
	case models.CellDate:
		return true
	case models.CellNumber:
		return c.Num >= minDateSerial && c.Num < maxDateSerial
	case models.CellString:
		if isNumericText(c.Str) && !hasDateSeparator(c.Str) {
			return false
		}
		_, ok := normalize.ParseDate(c.Str)
		return ok
	}
	return false
}

func hasDateSeparator(s string) bool {
	for _, r := range s {
		if r == '/' || r == '-' {
			return true
		}
	}
	return false
}

func isNumericText(s string) bool {
	return numericText.MatchString(s)
}

func isNameShaped(c models.Cell) bool {
	if c.Kind != models.CellString || isDateShaped(c) || isNumericText(c.Str) {
		return false
	}

	letters, others := 0, 0
	for _, r := range c.Str {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsSpace(r):
		default:
			others++
		}
	}
	return letters >= 2 && letters >= others*2
}

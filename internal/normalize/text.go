package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/moradafish/dashboard/internal/domain/models"
)

var quoteReplacer = strings.NewReplacer(`"`, "", "“", "", "”", "", "'", "", "‘", "", "’", "")

// Text folds s into a comparison key: lowercase, no diacritics, no quotes,
// single spaces. Never use the result for display.
func Text(s string) string {
	lower := strings.ToLower(s)

	// transform.Chain keeps state, so it is built per call.
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, lower)
	if err != nil {
		folded = lower
	}

	folded = quoteReplacer.Replace(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// CellText folds the displayed value of a cell.
func CellText(c models.Cell) string {
	return Text(c.Text())
}

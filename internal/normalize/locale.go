package normalize

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/moradafish/dashboard/internal/domain/models"
)

// ParseLocaleNumber parses a pt-BR or en-US formatted number. Percent signs and
// whitespace are ignored. Empty or malformed input yields 0 and never an error:
// noisy spreadsheet cells are treated as zero.
func ParseLocaleNumber(raw string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "%", ""))
	if s == "" {
		return 0
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	n, err := strconv.ParseFloat(canonicalDecimal(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// canonicalDecimal rewrites s so that "." is the only decimal separator and
// thousands separators are gone. When both separators appear, the right-most
// one is the decimal separator.
func canonicalDecimal(s string) string {
	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")

	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// CellNumber applies the ParseLocaleNumber policy to any cell kind.
func CellNumber(c models.Cell) float64 {
	switch c.Kind {
	case models.CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return 0
		}
		return c.Num
	case models.CellString:
		return ParseLocaleNumber(c.Str)
	default:
		return 0
	}
}

// RatioFromPercent accepts either a percentage (85) or a ratio (0.85).
func RatioFromPercent(n float64) float64 {
	if n > 1 {
		return n / 100
	}
	return n
}

// PercentToRatio parses raw and converts it with RatioFromPercent.
func PercentToRatio(raw string) float64 {
	return RatioFromPercent(ParseLocaleNumber(raw))
}

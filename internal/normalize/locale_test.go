package normalize

import (
	"math"
	"testing"

	"github.com/moradafish/dashboard/internal/domain/models"
)

func TestParseLocaleNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"12", 12},
		{"12,5", 12.5},
		{" 12.5 ", 12.5},
		{"85%", 85},
		{"97,39 %", 97.39},
		{"1.234,56", 1234.56},
		{"1234.56", 1234.56},
		{"1,234.56", 1234.56},
		{"1.234.567", 1234567},
		{"1 234,5", 1234.5},
		{"-3,2", -3.2},
		{"NaN", 0},
		{"inf", 0},
	}

	for _, tt := range tests {
		got := ParseLocaleNumber(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseLocaleNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLocaleNumberEquivalentFormats(t *testing.T) {
	if ParseLocaleNumber("1.234,56") != ParseLocaleNumber("1234.56") {
		t.Fatalf("pt-BR and plain formats should parse to the same value")
	}
}

func TestCellNumber(t *testing.T) {
	if got := CellNumber(models.NumberCell(42.5)); got != 42.5 {
		t.Errorf("number cell: got %v", got)
	}
	if got := CellNumber(models.StringCell("42,5")); got != 42.5 {
		t.Errorf("string cell: got %v", got)
	}
	if got := CellNumber(models.Cell{}); got != 0 {
		t.Errorf("empty cell: got %v", got)
	}
	if got := CellNumber(models.NumberCell(math.NaN())); got != 0 {
		t.Errorf("NaN cell: got %v", got)
	}
}

func TestPercentToRatio(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"85", 0.85},
		{"0.85", 0.85},
		{"0,85", 0.85},
		{"100", 1},
		{"85%", 0.85},
		{"1", 1},
		{"", 0},
	}

	for _, tt := range tests {
		got := PercentToRatio(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PercentToRatio(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

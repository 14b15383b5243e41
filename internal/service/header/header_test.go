package header

import (
	"testing"

	"github.com/moradafish/dashboard/internal/domain/models"
)

func row(cells ...interface{}) models.Row {
	out := make(models.Row, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case string:
			out[i] = models.StringCell(v)
		case float64:
			out[i] = models.NumberCell(v)
		case int:
			out[i] = models.NumberCell(float64(v))
		case nil:
			out[i] = models.Cell{}
		}
	}
	return out
}

func TestInferCanonicalHeader(t *testing.T) {
	grid := models.Grid{
		row("Data", "Filetador", "Peixe recebido sem escama (kg)", "Filé produzido (kg)", "Correção", "% aprov. Sem escamas"),
		row(45873, "Maria Souza", 120.5, 70, 1.5, 97.4),
	}

	res := Infer(grid)
	want := models.ColumnMapping{Date: 0, Worker: 1, RawInput: 2, RawOutput: 3, Correction: 4, ApprovalOverride: 5}
	if res.Mapping != want {
		t.Fatalf("mapping = %+v, want %+v", res.Mapping, want)
	}
	if res.Row != 0 || res.Span != 1 || res.NeedsManualMapping || res.Inferred {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestInferShuffledColumns(t *testing.T) {
	grid := models.Grid{
		row("CORREÇÃO", "% aprov sem escamas", "Filé produzido", "Colaborador", "Peixe sem escama (kg)", "Dia"),
		row(0, 97, 70, "Maria Souza", 120, "04/08/2025"),
	}

	res := Infer(grid)
	want := models.ColumnMapping{Date: 5, Worker: 3, RawInput: 4, RawOutput: 2, Correction: 0, ApprovalOverride: 1}
	if res.Mapping != want {
		t.Fatalf("mapping = %+v, want %+v", res.Mapping, want)
	}
}

func TestInferSkipsTitleRows(t *testing.T) {
	grid := models.Grid{
		row("Rendimento filetador - agosto"),
		row(),
		row("Data", "Nome", "Peixe sem escama", "Filé produzido"),
		row(45873, "Maria Souza", 120, 70),
	}

	res := Infer(grid)
	if res.Row != 2 {
		t.Fatalf("header row = %d, want 2", res.Row)
	}
	if res.LastRow() != 2 {
		t.Errorf("last header row = %d, want 2", res.LastRow())
	}
	if res.Mapping.Date != 0 || res.Mapping.Worker != 1 {
		t.Errorf("mapping = %+v", res.Mapping)
	}
}

func TestInferStopsAtFirstStrongRow(t *testing.T) {
	grid := models.Grid{
		row("Data", "Filetador", "Filé produzido"),
		row("Data", "Filetador", "Filé produzido", "Correção", "Peixe sem escama"),
	}

	if res := Infer(grid); res.Row != 0 {
		t.Fatalf("header row = %d, want the first strong row", res.Row)
	}
}

func TestInferStackedHeader(t *testing.T) {
	grid := models.Grid{
		row("Data", "Filetador", "Peixe recebido", "Filé produzido"),
		row(nil, nil, "sem escama (kg)", "(kg)"),
		row(45873, "Maria Souza", 120, 70),
	}

	res := Infer(grid)
	if res.Span != 2 {
		t.Fatalf("span = %d, want 2", res.Span)
	}
	if res.Mapping.RawInput != 2 || res.Mapping.RawOutput != 3 {
		t.Errorf("mapping = %+v", res.Mapping)
	}
	if res.Labels[2] != "Peixe recebido sem escama (kg)" {
		t.Errorf("composite label = %q", res.Labels[2])
	}
	if res.LastRow() != 1 {
		t.Errorf("last header row = %d, want 1", res.LastRow())
	}
}

func TestInferKeepsLabelLikeDataRowsOutOfHeader(t *testing.T) {
	grid := models.Grid{
		row("Data", "Filetador", "Peixe sem escama", "Filé produzido"),
		row("ontem", "Maria Souza"),
		row("anteontem", "João da Silva"),
		row(45873, "Ana Lima", 98, 58),
	}

	res := Infer(grid)
	if res.Span != 1 || res.LastRow() != 0 {
		t.Fatalf("span = %d, last row = %d, want a single header row", res.Span, res.LastRow())
	}
	if res.Labels[1] != "Filetador" {
		t.Errorf("label = %q, data leaked into header", res.Labels[1])
	}
}

func TestInferFromContent(t *testing.T) {
	grid := models.Grid{
		row("Quando", "Quem", "Peixe sem escama", "Filé produzido"),
		row(45873, "Maria Souza", 120, 70),
		row(45874, "João da Silva", 100, 61),
		row(45875, "Ana Lima", 98, 58),
	}

	res := Infer(grid)
	if res.NeedsManualMapping {
		t.Fatalf("content inference should resolve date and worker, got %+v", res)
	}
	if !res.Inferred {
		t.Errorf("result should be flagged as inferred")
	}
	if res.Mapping.Date != 0 || res.Mapping.Worker != 1 {
		t.Errorf("mapping = %+v", res.Mapping)
	}
}

func TestInferWeightsAreNotDates(t *testing.T) {
	grid := models.Grid{
		row("Quem", "Peso"),
		row("Maria Souza", 120),
		row("Ana Lima", 98),
	}

	res := Infer(grid)
	if res.Mapping.Date != models.Absent {
		t.Fatalf("weights must not be read as date serials, mapping %+v", res.Mapping)
	}
	if !res.NeedsManualMapping {
		t.Errorf("missing date column should require manual mapping")
	}
}

func TestInferNeedsManualMapping(t *testing.T) {
	grid := models.Grid{
		row("A", "", "C"),
		row("x", 12, 13),
	}

	res := Infer(grid)
	if !res.NeedsManualMapping {
		t.Fatalf("expected manual mapping, got %+v", res)
	}
	want := []string{"A", "(column 2)", "C"}
	for i, l := range want {
		if res.Labels[i] != l {
			t.Errorf("label %d = %q, want %q", i, res.Labels[i], l)
		}
	}
}

func TestInferEmptyGrid(t *testing.T) {
	res := Infer(nil)
	if !res.NeedsManualMapping || res.Row != 0 {
		t.Fatalf("unexpected result for empty grid %+v", res)
	}
}

func TestMatches(t *testing.T) {
	e := NewEngine(Aliases)
	if !e.Matches(models.FieldWorker, "CRACHA") {
		t.Errorf("accent-free spelling should match")
	}
	if e.Matches(models.FieldDate, "filetador") {
		t.Errorf("worker alias must not match date")
	}
}

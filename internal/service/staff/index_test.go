package staff

import (
	"testing"

	"github.com/moradafish/dashboard/internal/domain/models"
)

func TestBuildIndexFirstNameWins(t *testing.T) {
	idx := BuildIndex([]models.StaffMember{
		{ID: "a", Name: "Maria Souza"},
		{ID: "b", Name: "MARIA SOUZA"},
	})

	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2", idx.Len())
	}
	if m := idx.byName["maria souza"]; m.ID != "a" {
		t.Errorf("byName kept %s, want a", m.ID)
	}
	if _, ok := idx.ByID("b"); !ok {
		t.Errorf("ByID should find every member")
	}
}

func TestBuildIndexIsIdempotent(t *testing.T) {
	members := testRegistry()
	a, b := BuildIndex(members), BuildIndex(members)

	if a.Len() != b.Len() {
		t.Fatalf("rebuilding changed the size")
	}
	for i, m := range a.Members() {
		if b.Members()[i].ID != m.ID {
			t.Errorf("member %d differs between builds", i)
		}
	}
}

func TestFiletadores(t *testing.T) {
	options := Filetadores(BuildIndex(testRegistry()))

	if len(options) != 3 {
		t.Fatalf("got %d options, want 3 fileting staff", len(options))
	}
	want := []string{"João da Silva", "Maria Souza (42)", "Mariana Souza Lima"}
	for i, o := range options {
		if o.Label != want[i] {
			t.Errorf("option %d = %q, want %q", i, o.Label, want[i])
		}
	}
}

func TestFiletadoresFallsBackToEveryone(t *testing.T) {
	options := Filetadores(BuildIndex([]models.StaffMember{
		{ID: "1", Name: "Carla", Role: "Recepção"},
		{ID: "2", Name: "Bruno", Role: "Limpeza"},
	}))
	if len(options) != 2 || options[0].Label != "Bruno" {
		t.Fatalf("unexpected fallback options %+v", options)
	}
}

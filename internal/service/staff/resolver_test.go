package staff

import (
	"testing"

	"github.com/moradafish/dashboard/internal/domain/models"
)

func testRegistry() []models.StaffMember {
	return []models.StaffMember{
		{ID: "s1", Name: "Maria Souza", Role: "Filetadora", BadgeCode: "0042"},
		{ID: "s2", Name: "João da Silva", Role: "Operador de Filetagem", Nickname: "Joãozinho"},
		{ID: "s3", Name: "Ana", Role: "Embalagem"},
		{ID: "s4", Name: "Mariana Souza Lima", Role: "Filetadora"},
	}
}

func TestResolve(t *testing.T) {
	idx := BuildIndex(testRegistry())
	r := NewResolver(DefaultTolerance)

	tests := []struct {
		name   string
		raw    string
		wantID string
	}{
		{"exact", "Maria Souza", "s1"},
		{"case and accents", "JOAO DA SILVA", "s2"},
		{"role prefix", "Filetador: Maria Souza", "s1"},
		{"role prefix with space", "Filetadora Maria Souza", "s1"},
		{"operator prefix", "Operador de filetagem - João da Silva", "s2"},
		{"parenthetical badge removed", "Maria Souza (0042)", "s1"},
		{"badge only", "(42)", "s1"},
		{"bare badge", "0042", "s1"},
		{"nickname", "joaozinho", "s2"},
		{"containment picks longest", "Mariana Souza Lima Neta", "s4"},
		{"input contained in name", "da Silva", "s2"},
		{"transposition", "Maria Suoza", "s1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.raw, idx)
			if !ok {
				t.Fatalf("Resolve(%q) found nothing, want %s", tt.raw, tt.wantID)
			}
			if got.ID != tt.wantID {
				t.Errorf("Resolve(%q) = %s, want %s", tt.raw, got.ID, tt.wantID)
			}
		})
	}
}

func TestResolveContainmentTieKeepsRegistryOrder(t *testing.T) {
	r := NewResolver(DefaultTolerance)
	members := []models.StaffMember{
		{ID: "t1", Name: "Ana Paula"},
		{ID: "t2", Name: "Paula Ana"},
	}

	got, ok := r.Resolve("Ana Paula Ana Lima", BuildIndex(members))
	if !ok || got.ID != "t1" {
		t.Fatalf("Resolve = %+v, %v, want t1", got, ok)
	}

	members[0], members[1] = members[1], members[0]
	got, ok = r.Resolve("Ana Paula Ana Lima", BuildIndex(members))
	if !ok || got.ID != "t2" {
		t.Fatalf("Resolve after reorder = %+v, %v, want t2", got, ok)
	}
}

func TestResolveMisses(t *testing.T) {
	idx := BuildIndex([]models.StaffMember{{ID: "s1", Name: "Maria Souza"}})
	r := NewResolver(DefaultTolerance)

	for _, raw := range []string{"Completely Different Name", "", "   ", "Filetador"} {
		if got, ok := r.Resolve(raw, idx); ok {
			t.Errorf("Resolve(%q) = %s, want no match", raw, got.ID)
		}
	}
}

func TestResolveRoleWordInsideName(t *testing.T) {
	idx := BuildIndex([]models.StaffMember{{ID: "f1", Name: "Filemon Araujo"}})
	got, ok := NewResolver(0).Resolve("Filemon Araujo", idx)
	if !ok || got.ID != "f1" {
		t.Fatalf("names starting with a role word must not be truncated, got %v %v", got, ok)
	}
}

func TestResolveToleranceIsConfigurable(t *testing.T) {
	idx := BuildIndex([]models.StaffMember{{ID: "s1", Name: "Maria Souza"}})

	if _, ok := NewResolver(1).Resolve("Maria Suoza", idx); ok {
		t.Errorf("distance 2 should exceed tolerance 1")
	}
	if _, ok := NewResolver(2).Resolve("Maria Suoza", idx); !ok {
		t.Errorf("distance 2 should be within tolerance 2")
	}
	if NewResolver(-1).Tolerance() != DefaultTolerance {
		t.Errorf("negative tolerance should select the default")
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	idx := BuildIndex(testRegistry())
	r := NewResolver(6)

	first, _ := r.Resolve("Mara Sousa", idx)
	for i := 0; i < 20; i++ {
		got, _ := r.Resolve("Mara Sousa", idx)
		if got.ID != first.ID {
			t.Fatalf("run %d resolved %s, first run resolved %s", i, got.ID, first.ID)
		}
	}
}

func TestResolveEmptyIndex(t *testing.T) {
	if _, ok := NewResolver(DefaultTolerance).Resolve("Maria", BuildIndex(nil)); ok {
		t.Fatalf("empty registry must never match")
	}
}

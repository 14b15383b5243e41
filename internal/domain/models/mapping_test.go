package models

import "testing"

func TestColumnMappingWithin(t *testing.T) {
	tests := []struct {
		name    string
		mapping ColumnMapping
		width   int
		want    bool
	}{
		{"identity only", ColumnMapping{Date: 0, Worker: 1, RawInput: Absent, RawOutput: Absent, Correction: Absent, ApprovalOverride: Absent}, 2, true},
		{"all columns", ColumnMapping{Date: 0, Worker: 1, RawInput: 2, RawOutput: 3, Correction: 4, ApprovalOverride: 5}, 6, true},
		{"negative index", ColumnMapping{Date: -7, Worker: 1, RawInput: Absent, RawOutput: Absent, Correction: Absent, ApprovalOverride: Absent}, 4, false},
		{"past width", ColumnMapping{Date: 0, Worker: 4, RawInput: Absent, RawOutput: Absent, Correction: Absent, ApprovalOverride: Absent}, 4, false},
		{"optional past width", ColumnMapping{Date: 0, Worker: 1, RawInput: 8, RawOutput: Absent, Correction: Absent, ApprovalOverride: Absent}, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mapping.Within(tt.width); got != tt.want {
				t.Errorf("Within(%d) = %v, want %v", tt.width, got, tt.want)
			}
		})
	}
}

func TestGridWidth(t *testing.T) {
	g := Grid{{StringCell("a")}, {StringCell("a"), StringCell("b"), StringCell("c")}, nil}
	if w := g.Width(); w != 3 {
		t.Fatalf("Width = %d, want 3", w)
	}
	if w := (Grid{}).Width(); w != 0 {
		t.Fatalf("empty Width = %d", w)
	}
}

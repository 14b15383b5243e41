package yield

import (
	"math"
	"testing"

	"github.com/moradafish/dashboard/internal/domain/models"
)

const tolerance = 0.01

func near(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func pct(v float64) *float64 {
	return &v
}

func TestEvaluateWithDailyApproval(t *testing.T) {
	rec := models.LedgerRecord{Date: "2025-08-04", RawInputKg: 100, RawOutputKg: 80, CorrectionKg: 5}
	approvals := models.ApprovalMap{"2025-08-04": {Date: "2025-08-04", MeanRatio: 0.9, Samples: 1}}

	m := Evaluate(rec, approvals)
	if !near(m.AdjustedInputKg, 111.11) {
		t.Errorf("adjusted input = %.4f, want 111.11", m.AdjustedInputKg)
	}
	if !near(m.AdjustedOutputKg, 75) {
		t.Errorf("adjusted output = %.4f, want 75", m.AdjustedOutputKg)
	}
	if !near(m.YieldPercent, 67.50) {
		t.Errorf("yield = %.4f, want 67.50", m.YieldPercent)
	}
	if m.ApprovalSource != SourceDaily {
		t.Errorf("source = %s, want daily", m.ApprovalSource)
	}
}

func TestEvaluateRatioFallbacks(t *testing.T) {
	tests := []struct {
		name       string
		rec        models.LedgerRecord
		approvals  models.ApprovalMap
		wantRatio  float64
		wantSource ApprovalSource
		wantInput  float64
	}{
		{
			name:       "daily wins over override",
			rec:        models.LedgerRecord{Date: "2025-08-04", RawInputKg: 90, ApprovalOverridePercent: pct(50)},
			approvals:  models.ApprovalMap{"2025-08-04": {MeanRatio: 0.9}},
			wantRatio:  0.9,
			wantSource: SourceDaily,
			wantInput:  100,
		},
		{
			name:       "override percent when no daily sample",
			rec:        models.LedgerRecord{Date: "2025-08-04", RawInputKg: 90, ApprovalOverridePercent: pct(90)},
			wantRatio:  0.9,
			wantSource: SourceOverride,
			wantInput:  100,
		},
		{
			name:       "override as ratio",
			rec:        models.LedgerRecord{Date: "2025-08-04", RawInputKg: 90, ApprovalOverridePercent: pct(0.9)},
			wantRatio:  0.9,
			wantSource: SourceOverride,
			wantInput:  100,
		},
		{
			name:       "non-positive daily falls back",
			rec:        models.LedgerRecord{Date: "2025-08-04", RawInputKg: 90, ApprovalOverridePercent: pct(90)},
			approvals:  models.ApprovalMap{"2025-08-04": {MeanRatio: 0}},
			wantRatio:  0.9,
			wantSource: SourceOverride,
			wantInput:  100,
		},
		{
			name:       "no ratio keeps input as is",
			rec:        models.LedgerRecord{Date: "2025-08-04", RawInputKg: 90},
			wantRatio:  0,
			wantSource: SourceNone,
			wantInput:  90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Evaluate(tt.rec, tt.approvals)
			if !near(m.ApprovalRatio, tt.wantRatio) || m.ApprovalSource != tt.wantSource {
				t.Errorf("ratio = %.4f (%s), want %.4f (%s)", m.ApprovalRatio, m.ApprovalSource, tt.wantRatio, tt.wantSource)
			}
			if !near(m.AdjustedInputKg, tt.wantInput) {
				t.Errorf("adjusted input = %.4f, want %.4f", m.AdjustedInputKg, tt.wantInput)
			}
		})
	}
}

func TestEvaluateZeroInputGuard(t *testing.T) {
	m := Evaluate(models.LedgerRecord{RawInputKg: 0, RawOutputKg: 10}, nil)
	if m.YieldPercent != 0 || math.IsNaN(m.YieldPercent) {
		t.Fatalf("yield = %v, want 0", m.YieldPercent)
	}
}

func TestEvaluateCorrectionNeverNegative(t *testing.T) {
	m := Evaluate(models.LedgerRecord{RawInputKg: 10, RawOutputKg: 2, CorrectionKg: 5}, nil)
	if m.AdjustedOutputKg != 0 {
		t.Fatalf("adjusted output = %v, want 0", m.AdjustedOutputKg)
	}
}

func TestComputeSortsAndTotals(t *testing.T) {
	records := []models.LedgerRecord{
		{Date: "2025-08-05", WorkerName: "Ana", RawInputKg: 50, RawOutputKg: 30},
		{Date: "2025-08-04", WorkerName: "Maria", RawInputKg: 100, RawOutputKg: 80, CorrectionKg: 5},
		{Date: "2025-08-04", WorkerName: "Bruno", RawInputKg: 0, RawOutputKg: 0},
	}
	approvals := models.ApprovalMap{"2025-08-04": {MeanRatio: 0.9}}

	rows, totals := Compute(records, approvals)
	order := []string{"Bruno", "Maria", "Ana"}
	for i, name := range order {
		if rows[i].WorkerName != name {
			t.Errorf("row %d = %s, want %s", i, rows[i].WorkerName, name)
		}
	}

	if totals.Records != 3 {
		t.Errorf("records = %d, want 3", totals.Records)
	}
	wantInput := 100/0.9 + 50
	if !near(totals.AdjustedInputKg, wantInput) {
		t.Errorf("total input = %.4f, want %.4f", totals.AdjustedInputKg, wantInput)
	}
	if !near(totals.AdjustedOutputKg, 105) {
		t.Errorf("total output = %.4f, want 105", totals.AdjustedOutputKg)
	}
	if !near(totals.YieldPercent, 100*105/wantInput) {
		t.Errorf("total yield = %.4f", totals.YieldPercent)
	}
}

func TestComputeEmpty(t *testing.T) {
	rows, totals := Compute(nil, nil)
	if len(rows) != 0 || totals.YieldPercent != 0 || totals.AdjustedInputKg != 0 {
		t.Fatalf("unexpected result %v %+v", rows, totals)
	}
}

func TestDailyApprovals(t *testing.T) {
	samples := []models.ScalingSample{
		{Date: "2025-08-04", ApprovalPercent: pct(98)},
		{Date: "2025-08-04", WithScalesKg: 100, WithoutScalesKg: 96},
		{Date: "2025-08-04"},
		{Date: "2025-08-05", ApprovalPercent: pct(0), WithScalesKg: 50, WithoutScalesKg: 45},
		{Date: "", ApprovalPercent: pct(90)},
	}

	got := DailyApprovals(samples)
	if len(got) != 2 {
		t.Fatalf("got %d dates, want 2", len(got))
	}
	if d := got["2025-08-04"]; !near(d.MeanRatio, 0.97) || d.Samples != 2 {
		t.Errorf("2025-08-04 = %+v, want mean 0.97 over 2 samples", d)
	}
	if d := got["2025-08-05"]; !near(d.MeanRatio, 0.9) {
		t.Errorf("2025-08-05 = %+v, want 0.9 from weights", d)
	}
}

// Package yield joins fileting ledger records with daily approval ratios and
// derives adjusted weights and yield percentages.
package yield

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/normalize"
)

// ApprovalSource tells where the effective approval ratio of a record came from.
type ApprovalSource string

const (
	SourceDaily    ApprovalSource = "daily"
	SourceOverride ApprovalSource = "override"
	SourceNone     ApprovalSource = "none"
)

// Metrics is a ledger record with its derived figures.
type Metrics struct {
	models.LedgerRecord
	ApprovalRatio    float64        `json:"approval_ratio"`
	ApprovalSource   ApprovalSource `json:"approval_source"`
	AdjustedInputKg  float64        `json:"adjusted_input_kg"`
	AdjustedOutputKg float64        `json:"adjusted_output_kg"`
	YieldPercent     float64        `json:"yield_percent"`
}

// Totals aggregates a set of metrics.
type Totals struct {
	Records          int     `json:"records"`
	AdjustedInputKg  float64 `json:"adjusted_input_kg"`
	AdjustedOutputKg float64 `json:"adjusted_output_kg"`
	YieldPercent     float64 `json:"yield_percent"`
}

// Compute derives per-record metrics sorted by (date, worker name) and the
// totals over all records. It is a pure function of its inputs.
func Compute(records []models.LedgerRecord, approvals models.ApprovalMap) ([]Metrics, Totals) {
	rows := make([]Metrics, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Evaluate(rec, approvals))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].WorkerName < rows[j].WorkerName
	})

	return rows, Summarize(rows)
}

// Evaluate computes the metrics of a single record.
func Evaluate(rec models.LedgerRecord, approvals models.ApprovalMap) Metrics {
	ratio, source := effectiveRatio(rec, approvals)

	adjustedInput := rec.RawInputKg
	if ratio > 0 {
		adjustedInput = rec.RawInputKg / ratio
	}

	adjustedOutput := rec.RawOutputKg - rec.CorrectionKg
	if adjustedOutput < 0 {
		adjustedOutput = 0
	}

	yieldPercent := 0.0
	if adjustedInput > 0 {
		yieldPercent = 100 * adjustedOutput / adjustedInput
	}

	return Metrics{
		LedgerRecord:     rec,
		ApprovalRatio:    ratio,
		ApprovalSource:   source,
		AdjustedInputKg:  adjustedInput,
		AdjustedOutputKg: adjustedOutput,
		YieldPercent:     yieldPercent,
	}
}

// effectiveRatio prefers the daily aggregate; the record's own override only
// fills in when no positive aggregate exists for that date.
func effectiveRatio(rec models.LedgerRecord, approvals models.ApprovalMap) (float64, ApprovalSource) {
	if daily, ok := approvals[rec.Date]; ok && daily.MeanRatio > 0 {
		return daily.MeanRatio, SourceDaily
	}
	if rec.ApprovalOverridePercent != nil {
		if ratio := normalize.RatioFromPercent(*rec.ApprovalOverridePercent); ratio > 0 {
			return ratio, SourceOverride
		}
	}
	return 0, SourceNone
}

// Summarize sums adjusted weights and derives the overall yield.
func Summarize(rows []Metrics) Totals {
	input, output := decimal.Zero, decimal.Zero
	for _, r := range rows {
		input = input.Add(decimal.NewFromFloat(r.AdjustedInputKg))
		output = output.Add(decimal.NewFromFloat(r.AdjustedOutputKg))
	}

	totals := Totals{
		Records:          len(rows),
		AdjustedInputKg:  input.InexactFloat64(),
		AdjustedOutputKg: output.InexactFloat64(),
	}
	if input.IsPositive() {
		totals.YieldPercent = output.Div(input).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return totals
}

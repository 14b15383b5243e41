package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/service/ledger"
	"github.com/moradafish/dashboard/internal/service/notify"
)

// topWorkers bounds the ranking included in the notification text.
const topWorkers = 5

// MonthViewer computes the yield table of a month.
type MonthViewer interface {
	MonthView(ctx context.Context, month models.Month) (ledger.MonthView, error)
}

// ReportStore persists generated reports.
type ReportStore interface {
	SaveMonthlyReport(ctx context.Context, report models.MonthlyReport) error
}

// RowWriter appends a row to a spreadsheet range.
type RowWriter interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// Service builds and publishes the monthly fileting-yield report.
type Service struct {
	viewer      MonthViewer
	store       ReportStore
	sheet       RowWriter
	reportRange string
	notifier    notify.Notifier
	now         func() time.Time
	logger      *zap.Logger
}

// NewService wires a new reporting service instance. sheet may be nil when
// Google Sheets export is disabled.
func NewService(viewer MonthViewer, store ReportStore, sheet RowWriter, reportRange string, notifier notify.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}
	return &Service{
		viewer:      viewer,
		store:       store,
		sheet:       sheet,
		reportRange: reportRange,
		notifier:    notifier,
		now:         time.Now,
		logger:      logger.Named("svc.reporting"),
	}
}

// GenerateMonthlyReport computes the report of month and its notification text.
func (s *Service) GenerateMonthlyReport(ctx context.Context, month models.Month) (models.MonthlyReport, string, error) {
	view, err := s.viewer.MonthView(ctx, month)
	if err != nil {
		return models.MonthlyReport{}, "", fmt.Errorf("load month view %s: %w", month, err)
	}

	workers := make(map[string]struct{})
	for _, row := range view.Rows {
		workers[row.WorkerID] = struct{}{}
	}

	report := models.MonthlyReport{
		Month:          month.String(),
		Records:        view.Totals.Records,
		Workers:        len(workers),
		AdjustedInput:  round2(view.Totals.AdjustedInputKg),
		AdjustedOutput: round2(view.Totals.AdjustedOutputKg),
		YieldPercent:   round2(view.Totals.YieldPercent),
		CreatedAt:      s.now().UTC(),
	}
	return report, FormatMessage(report, view), nil
}

// PublishMonthlyReport generates the report of month, stores it, appends it to
// the report sheet and sends the notification.
func (s *Service) PublishMonthlyReport(ctx context.Context, month models.Month) (models.MonthlyReport, error) {
	report, message, err := s.GenerateMonthlyReport(ctx, month)
	if err != nil {
		return models.MonthlyReport{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.store.SaveMonthlyReport(gctx, report); err != nil {
			return fmt.Errorf("save monthly report: %w", err)
		}
		return nil
	})
	if s.sheet != nil && s.reportRange != "" {
		g.Go(func() error {
			if err := s.sheet.WriteRow(gctx, s.reportRange, reportRow(report)); err != nil {
				return fmt.Errorf("export monthly report: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	if err := s.notifier.Notify(ctx, message); err != nil {
		return report, fmt.Errorf("deliver monthly report: %w", err)
	}

	s.logger.Info("monthly report published",
		zap.String("month", report.Month),
		zap.Int("records", report.Records),
		zap.Float64("yield_percent", report.YieldPercent),
	)
	return report, nil
}

// FormatMessage renders the notification text of a monthly report.
func FormatMessage(report models.MonthlyReport, view ledger.MonthView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fileting yield %s\n", report.Month)
	if report.Records == 0 {
		b.WriteString("No records for this month.")
		return b.String()
	}

	fmt.Fprintf(&b, "Records: %d, workers: %d\n", report.Records, report.Workers)
	fmt.Fprintf(&b, "Adjusted input: %.2f kg\n", report.AdjustedInput)
	fmt.Fprintf(&b, "Adjusted output: %.2f kg\n", report.AdjustedOutput)
	fmt.Fprintf(&b, "Yield: %.2f%%", report.YieldPercent)

	ranking := rankWorkers(view)
	if len(ranking) > 0 {
		b.WriteString("\nTop workers:")
		for i, w := range ranking {
			if i == topWorkers {
				break
			}
			fmt.Fprintf(&b, "\n%d. %s %.2f%%", i+1, w.name, w.yield)
		}
	}
	return b.String()
}

type workerYield struct {
	name  string
	yield float64
}

func rankWorkers(view ledger.MonthView) []workerYield {
	type acc struct {
		name    string
		in, out decimal.Decimal
	}
	byWorker := make(map[string]*acc)
	var order []string
	for _, row := range view.Rows {
		a, ok := byWorker[row.WorkerID]
		if !ok {
			name := row.WorkerName
			if name == "" {
				name = row.WorkerID
			}
			a = &acc{name: name, in: decimal.Zero, out: decimal.Zero}
			byWorker[row.WorkerID] = a
			order = append(order, row.WorkerID)
		}
		a.in = a.in.Add(decimal.NewFromFloat(row.AdjustedInputKg))
		a.out = a.out.Add(decimal.NewFromFloat(row.AdjustedOutputKg))
	}

	out := make([]workerYield, 0, len(order))
	for _, id := range order {
		a := byWorker[id]
		if !a.in.IsPositive() {
			continue
		}
		y := a.out.Div(a.in).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
		out = append(out, workerYield{name: a.name, yield: y})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].yield > out[j].yield })
	return out
}

func reportRow(r models.MonthlyReport) []interface{} {
	return []interface{}{
		r.Month,
		r.Records,
		r.Workers,
		r.AdjustedInput,
		r.AdjustedOutput,
		r.YieldPercent,
		r.CreatedAt.Format(time.RFC3339),
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

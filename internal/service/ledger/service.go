// Package ledger implements manual entry, edit and the monthly view of the
// fileting-yield ledger.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/normalize"
	"github.com/moradafish/dashboard/internal/repository"
	"github.com/moradafish/dashboard/internal/service/staff"
	"github.com/moradafish/dashboard/internal/service/yield"
)

var (
	// ErrInvalidEntry rejects entries that fail validation.
	ErrInvalidEntry = errors.New("invalid ledger entry")
	// ErrNotFound is returned for unknown ledger keys.
	ErrNotFound = repository.ErrNotFound
)

// Store is the ledger persistence used by the service.
type Store interface {
	UpsertLedger(ctx context.Context, rec models.LedgerRecord) (bool, error)
	GetLedger(ctx context.Context, key string) (models.LedgerRecord, error)
	DeleteLedger(ctx context.Context, key string) error
	ListLedger(ctx context.Context, from, to string) ([]models.LedgerRecord, error)
	ListSamples(ctx context.Context, from, to string) ([]models.ScalingSample, error)
}

// IndexSource hands out the current staff index snapshot.
type IndexSource interface {
	StaffIndex() *staff.Index
}

// ManualEntry is one record typed into the entry form.
type ManualEntry struct {
	Date             string `json:"date" validate:"required"`
	WorkerID         string `json:"worker_id" validate:"required"`
	RawInput         Amount `json:"raw_input"`
	RawOutput        Amount `json:"raw_output"`
	Correction       Amount `json:"correction"`
	ApprovalOverride Amount `json:"approval_override"`
}

// EntryPatch changes some fields of an existing record. Nil fields are kept;
// a blank ApprovalOverride clears the override.
type EntryPatch struct {
	Date             *string `json:"date" validate:"omitempty,min=1"`
	WorkerID         *string `json:"worker_id" validate:"omitempty,min=1"`
	RawInput         *Amount `json:"raw_input"`
	RawOutput        *Amount `json:"raw_output"`
	Correction       *Amount `json:"correction"`
	ApprovalOverride *Amount `json:"approval_override"`
}

// MonthView is the computed yield table of one month.
type MonthView struct {
	Month     string                 `json:"month"`
	Rows      []yield.Metrics        `json:"rows"`
	Totals    yield.Totals           `json:"totals"`
	Approvals []models.DailyApproval `json:"approvals"`
}

// Service manages ledger records outside of spreadsheet imports.
type Service struct {
	store    Store
	index    IndexSource
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService wires a ledger service.
func NewService(store Store, index IndexSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		index:    index,
		validate: validator.New(),
		logger:   logger.Named("svc.ledger"),
	}
}

// SaveManualEntry fully overwrites the record of (date, worker).
func (s *Service) SaveManualEntry(ctx context.Context, entry ManualEntry) (models.LedgerRecord, error) {
	if err := s.validate.Struct(entry); err != nil {
		return models.LedgerRecord{}, fmt.Errorf("%w: %s", ErrInvalidEntry, describe(err))
	}

	date, err := calendarDate(entry.Date)
	if err != nil {
		return models.LedgerRecord{}, err
	}

	rec := models.LedgerRecord{
		Date:         date,
		WorkerID:     entry.WorkerID,
		WorkerName:   s.workerName(entry.WorkerID),
		RawInputKg:   entry.RawInput.Value(),
		RawOutputKg:  entry.RawOutput.Value(),
		CorrectionKg: entry.Correction.Value(),
	}
	if !entry.ApprovalOverride.Blank() {
		v := entry.ApprovalOverride.Value()
		rec.ApprovalOverridePercent = &v
	}
	if err := checkWeights(rec); err != nil {
		return models.LedgerRecord{}, err
	}
	rec.Key = models.LedgerKey(rec.Date, rec.WorkerID)

	created, err := s.store.UpsertLedger(ctx, rec)
	if err != nil {
		return models.LedgerRecord{}, fmt.Errorf("save ledger entry: %w", err)
	}
	s.logger.Info("ledger entry saved", zap.String("key", rec.Key), zap.Bool("created", created))
	return rec, nil
}

// UpdateEntry applies patch to the record stored under key. When the date or
// worker changes, the record moves to its new key and the old one is removed.
func (s *Service) UpdateEntry(ctx context.Context, key string, patch EntryPatch) (models.LedgerRecord, error) {
	if err := s.validate.Struct(patch); err != nil {
		return models.LedgerRecord{}, fmt.Errorf("%w: %s", ErrInvalidEntry, describe(err))
	}

	rec, err := s.store.GetLedger(ctx, key)
	if err != nil {
		return models.LedgerRecord{}, fmt.Errorf("load ledger entry: %w", err)
	}

	if patch.Date != nil {
		date, err := calendarDate(*patch.Date)
		if err != nil {
			return models.LedgerRecord{}, err
		}
		rec.Date = date
	}
	if patch.WorkerID != nil {
		rec.WorkerID = *patch.WorkerID
		rec.WorkerName = s.workerName(rec.WorkerID)
	}
	if patch.RawInput != nil {
		rec.RawInputKg = patch.RawInput.Value()
	}
	if patch.RawOutput != nil {
		rec.RawOutputKg = patch.RawOutput.Value()
	}
	if patch.Correction != nil {
		rec.CorrectionKg = patch.Correction.Value()
	}
	if patch.ApprovalOverride != nil {
		rec.ApprovalOverridePercent = nil
		if !patch.ApprovalOverride.Blank() {
			v := patch.ApprovalOverride.Value()
			rec.ApprovalOverridePercent = &v
		}
	}
	if err := checkWeights(rec); err != nil {
		return models.LedgerRecord{}, err
	}

	rec.Key = models.LedgerKey(rec.Date, rec.WorkerID)
	if _, err := s.store.UpsertLedger(ctx, rec); err != nil {
		return models.LedgerRecord{}, fmt.Errorf("update ledger entry: %w", err)
	}

	if rec.Key != key {
		if err := s.store.DeleteLedger(ctx, key); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return rec, fmt.Errorf("remove moved ledger entry %s: %w", key, err)
		}
		s.logger.Info("ledger entry moved", zap.String("from", key), zap.String("to", rec.Key))
	}
	return rec, nil
}

// DeleteEntry removes the record stored under key.
func (s *Service) DeleteEntry(ctx context.Context, key string) error {
	if err := s.store.DeleteLedger(ctx, key); err != nil {
		return fmt.Errorf("delete ledger entry: %w", err)
	}
	s.logger.Info("ledger entry deleted", zap.String("key", key))
	return nil
}

// MonthView loads the ledger and descaling samples of month concurrently and
// computes the yield table.
func (s *Service) MonthView(ctx context.Context, month models.Month) (MonthView, error) {
	from, to := month.Range()

	var (
		records []models.LedgerRecord
		samples []models.ScalingSample
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.store.ListLedger(gctx, from, to)
		if err != nil {
			return fmt.Errorf("load ledger: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		samples, err = s.store.ListSamples(gctx, from, to)
		if err != nil {
			return fmt.Errorf("load scaling samples: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return MonthView{}, err
	}

	approvals := yield.DailyApprovals(samples)
	rows, totals := yield.Compute(records, approvals)
	return MonthView{
		Month:     month.String(),
		Rows:      rows,
		Totals:    totals,
		Approvals: sortedApprovals(approvals),
	}, nil
}

// Workers lists the selectable workers for the entry form.
func (s *Service) Workers() []staff.Option {
	return staff.Filetadores(s.currentIndex())
}

func (s *Service) currentIndex() *staff.Index {
	if s.index == nil {
		return nil
	}
	return s.index.StaffIndex()
}

func (s *Service) workerName(id string) string {
	if m, ok := s.currentIndex().ByID(id); ok {
		return m.Name
	}
	return ""
}

func calendarDate(raw string) (string, error) {
	t, ok := normalize.ParseDate(raw)
	if !ok {
		return "", fmt.Errorf("%w: invalid date %q", ErrInvalidEntry, raw)
	}
	return models.FormatDate(t), nil
}

func checkWeights(rec models.LedgerRecord) error {
	if rec.RawInputKg < 0 || rec.RawOutputKg < 0 || rec.CorrectionKg < 0 {
		return fmt.Errorf("%w: weights must not be negative", ErrInvalidEntry)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += ", "
		}
		msg += fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
	return msg
}

// Package importer turns fileting-yield spreadsheets into ledger upserts.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/normalize"
	"github.com/moradafish/dashboard/internal/repository/spreadsheet"
	"github.com/moradafish/dashboard/internal/service/header"
	"github.com/moradafish/dashboard/internal/service/staff"
)

// DefaultMaxErrors bounds the row errors listed in a summary.
const DefaultMaxErrors = 50

// LedgerStore is the persistence the pipeline writes to.
type LedgerStore interface {
	UpsertLedger(ctx context.Context, rec models.LedgerRecord) (bool, error)
}

// IndexSource hands out the current staff index snapshot.
type IndexSource interface {
	StaffIndex() *staff.Index
}

// GridReader reads worksheets from Google Sheets.
type GridReader interface {
	SheetTitles(ctx context.Context) ([]string, error)
	ReadGrid(ctx context.Context, readRange string) (models.Grid, error)
}

// Options tune the pipeline.
type Options struct {
	MaxErrors  int
	PendingTTL time.Duration
}

// Result is returned by the file-level entry points.
type Result struct {
	Source  string               `json:"source"`
	Sheet   string               `json:"sheet"`
	Header  header.Result        `json:"header"`
	Outcome models.ImportOutcome `json:"outcome"`
	Summary string               `json:"summary"`
}

// Service runs imports against a ledger store.
type Service struct {
	store     LedgerStore
	index     IndexSource
	resolver  *staff.Resolver
	headers   *header.Engine
	grids     GridReader
	pending   *PendingStore
	maxErrors int
	logger    *zap.Logger
}

// NewService wires an import pipeline. grids may be nil when Google Sheets is not configured.
func NewService(store LedgerStore, index IndexSource, resolver *staff.Resolver, grids GridReader, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = staff.NewResolver(staff.DefaultTolerance)
	}
	maxErrors := opts.MaxErrors
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &Service{
		store:     store,
		index:     index,
		resolver:  resolver,
		headers:   header.NewEngine(header.Aliases),
		grids:     grids,
		pending:   NewPendingStore(opts.PendingTTL),
		maxErrors: maxErrors,
		logger:    logger.Named("svc.importer"),
	}
}

// Pending exposes the manual-mapping sessions.
func (s *Service) Pending() *PendingStore {
	return s.pending
}

// InferHeader parses a workbook and reports the inferred header of the picked sheet without importing.
func (s *Service) InferHeader(data []byte) (string, header.Result, error) {
	sheet, err := s.pickWorkbookSheet(data)
	if err != nil {
		return "", header.Result{}, err
	}
	return sheet.Name, s.headers.Infer(sheet.Grid), nil
}

// ImportWorkbook imports the fileting-yield sheet of an xlsx upload.
func (s *Service) ImportWorkbook(ctx context.Context, filename string, data []byte) (*Result, error) {
	sheet, err := s.pickWorkbookSheet(data)
	if err != nil {
		return nil, err
	}
	return s.ImportGrid(ctx, filename, sheet.Name, sheet.Grid)
}

func (s *Service) pickWorkbookSheet(data []byte) (spreadsheet.Sheet, error) {
	wb, err := spreadsheet.ParseWorkbook(data)
	if err != nil {
		return spreadsheet.Sheet{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if len(wb.Sheets) == 0 {
		return spreadsheet.Sheet{}, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableFile)
	}

	return wb.Sheets[PickSheet(wb.Names())], nil
}

// ImportGoogleSheet imports a Google Sheets range. An empty range picks the
// fileting-yield tab of the configured spreadsheet.
func (s *Service) ImportGoogleSheet(ctx context.Context, readRange string) (*Result, error) {
	if s.grids == nil {
		return nil, ErrSheetsUnavailable
	}

	sheetName := readRange
	if readRange == "" {
		titles, err := s.grids.SheetTitles(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		if len(titles) == 0 {
			return nil, fmt.Errorf("%w: spreadsheet has no sheets", ErrUnreadableFile)
		}
		sheetName = titles[PickSheet(titles)]
		readRange = "'" + sheetName + "'"
	}

	grid, err := s.grids.ReadGrid(ctx, readRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return s.ImportGrid(ctx, "google-sheets", sheetName, grid)
}

// ImportGrid infers the header of grid and imports it, or parks it as a
// pending session when the identity columns cannot be inferred.
func (s *Service) ImportGrid(ctx context.Context, source, sheet string, grid models.Grid) (*Result, error) {
	inferred := s.headers.Infer(grid)
	if inferred.NeedsManualMapping {
		session := s.pending.Open(source, sheet, grid, inferred)
		s.logger.Info("import paused for manual mapping",
			zap.String("source", source),
			zap.String("sheet", sheet),
			zap.String("session", session.ID),
			zap.Strings("labels", inferred.Labels),
		)
		return nil, &MappingRequiredError{SessionID: session.ID, Source: source, Header: inferred}
	}

	return s.run(ctx, source, sheet, grid, inferred)
}

// ConfirmMapping resumes a pending import with a caller-chosen mapping.
func (s *Service) ConfirmMapping(ctx context.Context, sessionID string, mapping models.ColumnMapping) (*Result, error) {
	if !mapping.Complete() {
		return nil, ErrIncompleteMapping
	}

	session, ok := s.pending.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if width := session.Grid.Width(); !mapping.Within(width) {
		return nil, fmt.Errorf("%w: sheet has %d columns", ErrIncompleteMapping, width)
	}
	if session, ok = s.pending.Take(sessionID); !ok {
		return nil, ErrSessionNotFound
	}

	resolved := session.Header
	resolved.Mapping = mapping
	resolved.NeedsManualMapping = false
	resolved.Inferred = false
	return s.run(ctx, session.Source, session.Sheet, session.Grid, resolved)
}

// CancelPending discards a pending import.
func (s *Service) CancelPending(sessionID string) error {
	if _, ok := s.pending.Take(sessionID); !ok {
		return ErrSessionNotFound
	}
	return nil
}

func (s *Service) run(ctx context.Context, source, sheet string, grid models.Grid, h header.Result) (*Result, error) {
	outcome, err := s.ImportSheet(ctx, grid, h.LastRow(), h.Mapping)
	res := &Result{
		Source:  source,
		Sheet:   sheet,
		Header:  h,
		Outcome: outcome,
		Summary: Summary(outcome, s.maxErrors),
	}
	if err != nil {
		return res, err
	}

	s.logger.Info("import finished",
		zap.String("run_id", outcome.RunID),
		zap.String("source", source),
		zap.String("sheet", sheet),
		zap.Int("inserted", outcome.Inserted),
		zap.Int("updated", outcome.Updated),
		zap.Int("skipped", outcome.Skipped),
		zap.Int("invalid", outcome.Invalid),
		zap.Int("failed", outcome.Failed),
	)
	return res, nil
}

type stagedRow struct {
	row    int
	record models.LedgerRecord
}

// ImportSheet validates every row below headerRow and upserts the valid ones
// in row order. Nothing is written when no row validates. The returned error
// is non-nil only when ctx ends the run early.
func (s *Service) ImportSheet(ctx context.Context, grid models.Grid, headerRow int, mapping models.ColumnMapping) (models.ImportOutcome, error) {
	outcome := models.ImportOutcome{
		RunID:    uuid.NewString(),
		Upserted: []models.UpsertedRecord{},
		Errors:   []models.RowError{},
	}

	var idx *staff.Index
	if s.index != nil {
		idx = s.index.StaffIndex()
	}

	var staged []stagedRow
	for i := headerRow + 1; i < len(grid); i++ {
		row := grid[i]
		if row.IsBlank() {
			outcome.Skipped++
			continue
		}

		rec, rowErr := s.parseRow(row, i+1, mapping, idx)
		if rowErr != nil {
			outcome.Invalid++
			outcome.Errors = append(outcome.Errors, *rowErr)
			continue
		}
		staged = append(staged, stagedRow{row: i + 1, record: rec})
	}

	if len(staged) == 0 {
		return outcome, nil
	}

	for _, st := range staged {
		if err := ctx.Err(); err != nil {
			return outcome, fmt.Errorf("import interrupted at row %d: %w", st.row, err)
		}

		created, err := s.store.UpsertLedger(ctx, st.record)
		if err != nil {
			s.logger.Warn("ledger upsert failed", zap.Int("row", st.row), zap.String("key", st.record.Key), zap.Error(err))
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, models.RowError{
				Row:     st.row,
				Kind:    models.RowWriteFailed,
				Message: fmt.Sprintf("row %d: write failed for %s: %v", st.row, st.record.Key, err),
			})
			continue
		}

		outcome.Committed = true
		if created {
			outcome.Inserted++
		} else {
			outcome.Updated++
		}
		outcome.Upserted = append(outcome.Upserted, models.UpsertedRecord{Key: st.record.Key, Row: st.row, Record: st.record})
	}

	return outcome, nil
}

func (s *Service) parseRow(row models.Row, rowNum int, mapping models.ColumnMapping, idx *staff.Index) (models.LedgerRecord, *models.RowError) {
	dateCell := row.At(mapping.Date)
	date, ok := normalize.CellToCalendarDate(dateCell)
	if !ok {
		return models.LedgerRecord{}, &models.RowError{
			Row:     rowNum,
			Kind:    models.RowInvalidDate,
			Message: fmt.Sprintf("row %d: invalid date %q", rowNum, dateCell.Text()),
		}
	}

	workerCell := row.At(mapping.Worker)
	member, ok := s.resolver.Resolve(workerCell.Text(), idx)
	if !ok {
		return models.LedgerRecord{}, &models.RowError{
			Row:     rowNum,
			Kind:    models.RowWorkerNotFound,
			Message: fmt.Sprintf("row %d: worker not found %q", rowNum, workerCell.Text()),
		}
	}

	rawInput := normalize.CellNumber(row.At(mapping.RawInput))
	rawOutput := normalize.CellNumber(row.At(mapping.RawOutput))
	correction := normalize.CellNumber(row.At(mapping.Correction))
	if rawInput < 0 || rawOutput < 0 || correction < 0 {
		return models.LedgerRecord{}, &models.RowError{
			Row:     rowNum,
			Kind:    models.RowNegativeWeight,
			Message: fmt.Sprintf("row %d: negative weight (input %g, output %g, correction %g)", rowNum, rawInput, rawOutput, correction),
		}
	}

	day := models.FormatDate(date)
	rec := models.LedgerRecord{
		Key:          models.LedgerKey(day, member.ID),
		Date:         day,
		WorkerID:     member.ID,
		WorkerName:   member.Name,
		RawInputKg:   rawInput,
		RawOutputKg:  rawOutput,
		CorrectionKg: correction,
	}
	if override := row.At(mapping.ApprovalOverride); !override.IsEmpty() {
		v := normalize.CellNumber(override)
		rec.ApprovalOverridePercent = &v
	}
	return rec, nil
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/service/header"
	"github.com/moradafish/dashboard/internal/service/importer"
	"github.com/moradafish/dashboard/internal/service/ledger"
	"github.com/moradafish/dashboard/internal/service/staff"
)

// maxUploadBytes bounds spreadsheet uploads.
const maxUploadBytes = 20 << 20

// Importer runs spreadsheet imports.
type Importer interface {
	InferHeader(data []byte) (string, header.Result, error)
	ImportWorkbook(ctx context.Context, filename string, data []byte) (*importer.Result, error)
	ImportGoogleSheet(ctx context.Context, readRange string) (*importer.Result, error)
	ConfirmMapping(ctx context.Context, sessionID string, mapping models.ColumnMapping) (*importer.Result, error)
	CancelPending(sessionID string) error
}

// Ledger manages individual ledger records and the monthly view.
type Ledger interface {
	SaveManualEntry(ctx context.Context, entry ledger.ManualEntry) (models.LedgerRecord, error)
	UpdateEntry(ctx context.Context, key string, patch ledger.EntryPatch) (models.LedgerRecord, error)
	DeleteEntry(ctx context.Context, key string) error
	MonthView(ctx context.Context, month models.Month) (ledger.MonthView, error)
	Workers() []staff.Option
}

// Projection exposes the live staff index and approval aggregates.
type Projection interface {
	StaffIndex() *staff.Index
	ApprovalList(month models.Month) []models.DailyApproval
}

// Reporter publishes monthly reports on demand.
type Reporter interface {
	PublishMonthlyReport(ctx context.Context, month models.Month) (models.MonthlyReport, error)
}

// YieldHandler serves the fileting-yield HTTP API.
type YieldHandler struct {
	importer Importer
	ledger   Ledger
	live     Projection
	resolver *staff.Resolver
	reporter Reporter
	now      func() time.Time
	location *time.Location
	logger   *zap.Logger
}

// NewYieldHandler constructs the HTTP handler adapter. reporter may be nil.
func NewYieldHandler(imp Importer, led Ledger, live Projection, resolver *staff.Resolver, reporter Reporter, logger *zap.Logger) *YieldHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = staff.NewResolver(staff.DefaultTolerance)
	}
	return &YieldHandler{
		importer: imp,
		ledger:   led,
		live:     live,
		resolver: resolver,
		reporter: reporter,
		now:      time.Now,
		location: time.Local,
		logger:   logger.Named("handlers.yield"),
	}
}

// WithLocation sets the timezone that decides the default month, so the API
// and the report scheduler agree on month boundaries.
func (h *YieldHandler) WithLocation(loc *time.Location) *YieldHandler {
	if loc != nil {
		h.location = loc
	}
	return h
}

// ImportFile imports an uploaded xlsx file sent as multipart field "file".
func (h *YieldHandler) ImportFile(c *gin.Context) {
	name, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	res, err := h.importer.ImportWorkbook(c.Request.Context(), name, data)
	if err != nil {
		h.fail(c, "import file", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type sheetImportRequest struct {
	Range string `json:"range"`
}

// ImportSheet imports a Google Sheets range; an empty range picks the yield tab.
func (h *YieldHandler) ImportSheet(c *gin.Context) {
	var req sheetImportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.importer.ImportGoogleSheet(c.Request.Context(), req.Range)
	if err != nil {
		h.fail(c, "import google sheet", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ConfirmMapping resumes a paused import with the posted column mapping.
// Fields left out of the body stay unmapped.
func (h *YieldHandler) ConfirmMapping(c *gin.Context) {
	mapping := models.EmptyMapping()
	if err := c.ShouldBindJSON(&mapping); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mapping"})
		return
	}

	res, err := h.importer.ConfirmMapping(c.Request.Context(), c.Param("id"), mapping)
	if err != nil {
		h.fail(c, "confirm mapping", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CancelImport discards a paused import.
func (h *YieldHandler) CancelImport(c *gin.Context) {
	if err := h.importer.CancelPending(c.Param("id")); err != nil {
		h.fail(c, "cancel import", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// InferHeader reports the header row and column mapping of an uploaded file without importing it.
func (h *YieldHandler) InferHeader(c *gin.Context) {
	_, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	sheet, res, err := h.importer.InferHeader(data)
	if err != nil {
		h.fail(c, "infer header", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sheet": sheet, "header": res})
}

type resolveRequest struct {
	Name string `json:"name" binding:"required"`
}

// ResolveName matches a free-text worker name against the staff registry.
func (h *YieldHandler) ResolveName(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	member, ok := h.resolver.Resolve(req.Name, h.live.StaffIndex())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "worker not found", "name": req.Name})
		return
	}
	c.JSON(http.StatusOK, member)
}

// MonthView returns the yield rows and totals of ?month=YYYY-MM (default: current month in the configured timezone).
func (h *YieldHandler) MonthView(c *gin.Context) {
	month, ok := h.month(c)
	if !ok {
		return
	}

	view, err := h.ledger.MonthView(c.Request.Context(), month)
	if err != nil {
		h.fail(c, "month view", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Approvals returns the daily approval aggregates of ?month=YYYY-MM.
func (h *YieldHandler) Approvals(c *gin.Context) {
	month, ok := h.month(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": month.String(), "approvals": h.live.ApprovalList(month)})
}

// Workers lists the selectable workers for manual entry.
func (h *YieldHandler) Workers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"workers": h.ledger.Workers()})
}

// CreateEntry stores a manual ledger entry.
func (h *YieldHandler) CreateEntry(c *gin.Context) {
	var entry ledger.ManualEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.ledger.SaveManualEntry(c.Request.Context(), entry)
	if err != nil {
		h.fail(c, "save entry", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpdateEntry edits the ledger record addressed by :key.
func (h *YieldHandler) UpdateEntry(c *gin.Context) {
	var patch ledger.EntryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.ledger.UpdateEntry(c.Request.Context(), c.Param("key"), patch)
	if err != nil {
		h.fail(c, "update entry", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteEntry removes the ledger record addressed by :key.
func (h *YieldHandler) DeleteEntry(c *gin.Context) {
	if err := h.ledger.DeleteEntry(c.Request.Context(), c.Param("key")); err != nil {
		h.fail(c, "delete entry", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PublishReport generates and delivers the report of ?month=YYYY-MM.
func (h *YieldHandler) PublishReport(c *gin.Context) {
	if h.reporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reporting is not configured"})
		return
	}
	month, ok := h.month(c)
	if !ok {
		return
	}

	report, err := h.reporter.PublishMonthlyReport(c.Request.Context(), month)
	if err != nil {
		h.logger.Error("failed publishing report", zap.String("month", month.String()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to publish report"})
		return
	}
	c.JSON(http.StatusAccepted, report)
}

func (h *YieldHandler) month(c *gin.Context) (models.Month, bool) {
	raw := c.Query("month")
	if raw == "" {
		return models.MonthOf(h.now().In(h.location)), true
	}
	month, err := models.ParseMonth(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return models.Month{}, false
	}
	return month, true
}

func (h *YieldHandler) readUpload(c *gin.Context) (string, []byte, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return "", nil, false
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d bytes", maxUploadBytes)})
		return "", nil, false
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read upload"})
		return "", nil, false
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read upload"})
		return "", nil, false
	}
	return fh.Filename, data, true
}

func (h *YieldHandler) fail(c *gin.Context, op string, err error) {
	var mapping *importer.MappingRequiredError
	switch {
	case errors.As(err, &mapping):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "manual column mapping required",
			"session_id": mapping.SessionID,
			"labels":     mapping.Header.Labels,
			"header":     mapping.Header,
		})
	case errors.Is(err, importer.ErrUnreadableFile):
		h.logger.Warn(op+" rejected", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, importer.ErrSessionNotFound), errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, importer.ErrIncompleteMapping), errors.Is(err, ledger.ErrInvalidEntry):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, importer.ErrSheetsUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op})
	}
}

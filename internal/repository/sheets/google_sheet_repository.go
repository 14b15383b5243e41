package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/moradafish/dashboard/internal/config"
	"github.com/moradafish/dashboard/internal/domain/models"
)

// Repository defines the operations supported by the Google Sheets adapter.
type Repository interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
	SheetTitles(ctx context.Context) ([]string, error)
	ReadGrid(ctx context.Context, sheetRange string) (models.Grid, error)
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger.Named("repo.sheets"),
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// SheetTitles lists the tab names of the spreadsheet in display order.
func (r *GoogleSheetRepository) SheetTitles(ctx context.Context) ([]string, error) {
	resp, err := r.service.Spreadsheets.Get(r.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet %s: %w", r.spreadsheetID, err)
	}

	titles := make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

// ReadGrid fetches a range as typed cells. Values are read unformatted so
// numbers stay numbers and dates arrive as spreadsheet serials.
func (r *GoogleSheetRepository) ReadGrid(ctx context.Context, sheetRange string) (models.Grid, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	r.logger.Debug("range read from sheet", zap.String("range", sheetRange), zap.Int("rows", len(resp.Values)))
	return ToGrid(resp.Values), nil
}

// ToGrid converts Sheets API values into typed cells.
func ToGrid(values [][]interface{}) models.Grid {
	grid := make(models.Grid, len(values))
	for r, raw := range values {
		row := make(models.Row, len(raw))
		for c, v := range raw {
			row[c] = toCell(v)
		}
		grid[r] = row
	}
	return grid
}

func toCell(v interface{}) models.Cell {
	switch val := v.(type) {
	case nil:
		return models.Cell{}
	case float64:
		return models.NumberCell(val)
	case int:
		return models.NumberCell(float64(val))
	case int64:
		return models.NumberCell(float64(val))
	case string:
		return models.StringCell(val)
	case bool:
		return models.StringCell(fmt.Sprint(val))
	default:
		return models.StringCell(fmt.Sprint(val))
	}
}

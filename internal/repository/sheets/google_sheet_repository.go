package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// ReportsRange is where report summary rows are appended.
const ReportsRange = "Reports!A:F"

const dateLayout = "2006-01-02 15:04"

// Repository defines the persistence operations supported by the Google Sheets adapter.
type Repository interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
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
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return errors.New("sheetRange must not be empty")
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

// ReportPublisher appends one summary row per report.
type ReportPublisher struct {
	repo       Repository
	sheetRange string
}

// NewReportPublisher writes into ReportsRange through repo.
func NewReportPublisher(repo Repository) *ReportPublisher {
	return &ReportPublisher{repo: repo, sheetRange: ReportsRange}
}

// Publish appends date, item count, units, stock value, low stock count and
// loan count.
func (p *ReportPublisher) Publish(ctx context.Context, report models.Report) error {
	return p.repo.WriteRow(ctx, p.sheetRange, SummaryRow(report))
}

// SummaryRow is the row written for report.
func SummaryRow(report models.Report) []interface{} {
	return []interface{}{
		report.GeneratedAt.Format(dateLayout),
		report.ItemCount,
		report.TotalUnits,
		report.StockValue,
		len(report.LowStock),
		len(report.OnLoan),
	}
}

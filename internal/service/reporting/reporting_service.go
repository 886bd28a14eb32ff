package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/render"
	"github.com/mamadbah2/stockbook/internal/store/jsonfile"
)

const dateLayout = "2006-01-02 15:04 MST"

// Inventory is the read side of the inventory store used for reports.
type Inventory interface {
	List() []models.StockItem
	LowStock(threshold int) []models.StockItem
}

// Catalog is the read side of the catalog store used for reports.
type Catalog interface {
	List() []models.LoanItem
	ListHeld() []models.LoanItem
}

// Publisher delivers a finished report somewhere.
type Publisher interface {
	Publish(ctx context.Context, report models.Report) error
}

// Service summarizes both stores into reports.
type Service struct {
	inventory Inventory
	catalog   Catalog
	threshold int
	logger    *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(inventory Inventory, catalog Catalog, lowStockThreshold int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{inventory: inventory, catalog: catalog, threshold: lowStockThreshold, logger: logger}
}

// Build takes a snapshot of both stores. Callers sharing the stores with
// other goroutines must hold their lock while it runs.
func (s *Service) Build(now time.Time) models.Report {
	report := models.Report{
		GeneratedAt:   now,
		LowStockLimit: s.threshold,
		LowStock:      []models.StockItem{},
		OnLoan:        []models.LoanRecord{},
	}

	items := s.inventory.List()
	report.ItemCount = len(items)
	for _, item := range items {
		report.TotalUnits += item.Stock
		report.StockValue += item.Value()
	}
	report.LowStock = append(report.LowStock, s.inventory.LowStock(s.threshold)...)

	report.CatalogSize = len(s.catalog.List())
	for _, item := range s.catalog.ListHeld() {
		report.OnLoan = append(report.OnLoan, models.LoanRecord{
			ID:     item.ID,
			Title:  item.Title,
			Holder: render.Optional(item.HeldBy),
		})
	}

	return report
}

// Deliver sends report to every publisher. All publishers are attempted;
// their failures are joined.
func (s *Service) Deliver(ctx context.Context, report models.Report, publishers ...Publisher) error {
	var errs []error
	for _, p := range publishers {
		sink := fmt.Sprintf("%T", p)
		if err := p.Publish(ctx, report); err != nil {
			s.logger.Error("report publish failed", zap.String("sink", sink), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", sink, err))
			continue
		}
		s.logger.Info("report published", zap.String("sink", sink))
	}
	return errors.Join(errs...)
}

// Publish builds a report for now and delivers it.
func (s *Service) Publish(ctx context.Context, now time.Time, publishers ...Publisher) (models.Report, error) {
	report := s.Build(now)
	return report, s.Deliver(ctx, report, publishers...)
}

// Format renders a report as plain text.
func Format(r models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Stock report %s\n", r.GeneratedAt.Format(dateLayout))
	fmt.Fprintf(&b, "Items: %d  Units: %d  Stock value: %s\n", r.ItemCount, r.TotalUnits, render.Price(r.StockValue))

	if len(r.LowStock) == 0 {
		fmt.Fprintf(&b, "Low stock (<= %d): none\n", r.LowStockLimit)
	} else {
		fmt.Fprintf(&b, "Low stock (<= %d):\n", r.LowStockLimit)
		for _, item := range r.LowStock {
			fmt.Fprintf(&b, "  - #%d %s: %d left\n", item.ID, item.Name, item.Stock)
		}
	}

	fmt.Fprintf(&b, "Catalog: %d items, %d on loan\n", r.CatalogSize, len(r.OnLoan))
	for _, loan := range r.OnLoan {
		fmt.Fprintf(&b, "  - %s %s -> %s\n", loan.ID, loan.Title, loan.Holder)
	}

	return b.String()
}

// FileSink writes the text report to a file, replacing it atomically.
type FileSink struct {
	Path string
}

// Publish implements Publisher.
func (f FileSink) Publish(_ context.Context, report models.Report) error {
	if f.Path == "" {
		return errors.New("report file path must not be empty")
	}
	if err := jsonfile.WriteAtomic(f.Path, []byte(Format(report))); err != nil {
		return fmt.Errorf("write report %s: %w", f.Path, err)
	}
	return nil
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, report models.Report) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(ctx context.Context, report models.Report) error {
	return f(ctx, report)
}

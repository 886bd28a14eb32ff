// Package inventory keeps stock items in a JSON file and guards stock
// deductions so stock never goes negative.
package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/store"
	"github.com/mamadbah2/stockbook/internal/store/ids"
	"github.com/mamadbah2/stockbook/internal/store/jsonfile"
)

// ErrInsufficientQuantity indicates a sale larger than the available stock.
var ErrInsufficientQuantity = errors.New("insufficient stock")

// Store is the inventory collection. It is not safe for concurrent use.
type Store struct {
	items  *store.Collection[int, models.StockItem]
	path   string
	logger *zap.Logger
}

// Open loads the inventory at path; a missing file starts an empty inventory.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	codec := jsonfile.New(path, DecodeStockItem)
	items, err := store.Open[int, models.StockItem](codec, func(s models.StockItem) int { return s.ID }, logger)
	if err != nil {
		return nil, err
	}

	return &Store{items: items, path: path, logger: logger}, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// List returns every item in insertion order.
func (s *Store) List() []models.StockItem { return s.items.All() }

// Find looks up an item by id.
func (s *Store) Find(id int) (models.StockItem, bool) { return s.items.Find(id) }

// Search matches query case-insensitively against item names. A blank query
// matches nothing.
func (s *Store) Search(query string) []models.StockItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.StockItem{}
	}
	return s.items.Filter(func(item models.StockItem) bool {
		return strings.Contains(strings.ToLower(item.Name), q)
	})
}

// LowStock returns the items whose stock is at or below threshold.
func (s *Store) LowStock(threshold int) []models.StockItem {
	return s.items.Filter(func(item models.StockItem) bool {
		return item.Stock <= threshold
	})
}

// Add assigns the next id to a new item and persists it.
func (s *Store) Add(in models.NewStockItem) (models.StockItem, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return models.StockItem{}, fmt.Errorf("%w: name must not be blank", store.ErrInvalidArgument)
	case !validPrice(in.UnitPrice):
		return models.StockItem{}, fmt.Errorf("%w: unit price %v must be a finite number >= 0", store.ErrInvalidArgument, in.UnitPrice)
	case in.Stock < 0:
		return models.StockItem{}, fmt.Errorf("%w: stock %d is negative", store.ErrInvalidArgument, in.Stock)
	}

	item := models.StockItem{
		ID:        ids.NextInt(s.items.Keys(), 1),
		Name:      name,
		UnitPrice: in.UnitPrice,
		Stock:     in.Stock,
	}

	created, err := s.items.Append(item)
	if err != nil {
		return models.StockItem{}, err
	}
	s.logger.Info("item added", zap.Int("id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// Remove deletes an item and returns it.
func (s *Store) Remove(id int) (models.StockItem, error) {
	removed, err := s.items.Remove(id)
	if err != nil {
		return models.StockItem{}, err
	}
	s.logger.Info("item removed", zap.Int("id", id))
	return removed, nil
}

// Modify overwrites only the fields set in patch.
func (s *Store) Modify(id int, patch models.StockItemPatch) (models.StockItem, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return models.StockItem{}, fmt.Errorf("%w: name must not be blank", store.ErrInvalidArgument)
	}
	if patch.UnitPrice != nil && !validPrice(*patch.UnitPrice) {
		return models.StockItem{}, fmt.Errorf("%w: unit price %v must be a finite number >= 0", store.ErrInvalidArgument, *patch.UnitPrice)
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return models.StockItem{}, fmt.Errorf("%w: stock %d is negative", store.ErrInvalidArgument, *patch.Stock)
	}

	return s.items.Mutate(id, func(item *models.StockItem) error {
		if patch.Name != nil {
			item.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.UnitPrice != nil {
			item.UnitPrice = *patch.UnitPrice
		}
		if patch.Stock != nil {
			item.Stock = *patch.Stock
		}
		return nil
	})
}

// AdjustQuantity adds delta to an item's stock. A negative delta is a sale
// and fails with ErrInsufficientQuantity when it would overdraw the stock.
func (s *Store) AdjustQuantity(id int, delta int) (models.StockItem, error) {
	if delta == 0 {
		return models.StockItem{}, fmt.Errorf("%w: quantity change must be nonzero", store.ErrInvalidArgument)
	}

	updated, err := s.items.Mutate(id, func(item *models.StockItem) error {
		if delta > 0 && item.Stock > math.MaxInt-delta {
			return fmt.Errorf("%w: adding %d to item %d overflows its stock", store.ErrInvalidArgument, delta, id)
		}
		if item.Stock+delta < 0 {
			return fmt.Errorf("%w: item %d has %d, requested %d", ErrInsufficientQuantity, id, item.Stock, -delta)
		}
		item.Stock += delta
		return nil
	})
	if err != nil {
		return models.StockItem{}, err
	}

	s.logger.Debug("stock adjusted", zap.Int("id", id), zap.Int("delta", delta), zap.Int("stock", updated.Stock))
	return updated, nil
}

// Sell deducts quantity units.
func (s *Store) Sell(id int, quantity int) (models.StockItem, error) {
	if quantity <= 0 {
		return models.StockItem{}, fmt.Errorf("%w: quantity must be greater than 0", store.ErrInvalidArgument)
	}
	return s.AdjustQuantity(id, -quantity)
}

// Restock adds quantity units.
func (s *Store) Restock(id int, quantity int) (models.StockItem, error) {
	if quantity <= 0 {
		return models.StockItem{}, fmt.Errorf("%w: quantity must be greater than 0", store.ErrInvalidArgument)
	}
	return s.AdjustQuantity(id, quantity)
}

// DecodeStockItem coerces one JSON element into a StockItem. The id is
// required; other fields default to zero values.
func DecodeStockItem(raw json.RawMessage) (models.StockItem, error) {
	fields, err := store.DecodeFields(raw)
	if err != nil {
		return models.StockItem{}, err
	}

	if !fields.Has("id") {
		return models.StockItem{}, errors.New("missing id")
	}
	id, err := store.Int(fields["id"])
	if err != nil {
		return models.StockItem{}, fmt.Errorf("id: %w", err)
	}

	item := models.StockItem{ID: id}

	if item.Name, err = store.String(fields["name"]); err != nil {
		return models.StockItem{}, fmt.Errorf("name: %w", err)
	}
	if fields.Has("unit_price") {
		if item.UnitPrice, err = store.Float(fields["unit_price"]); err != nil {
			return models.StockItem{}, fmt.Errorf("unit_price: %w", err)
		}
	}
	if fields.Has("stock") {
		if item.Stock, err = store.Int(fields["stock"]); err != nil {
			return models.StockItem{}, fmt.Errorf("stock: %w", err)
		}
	}

	if !validPrice(item.UnitPrice) {
		return models.StockItem{}, fmt.Errorf("unit_price %v must be a finite number >= 0", item.UnitPrice)
	}
	if item.Stock < 0 {
		return models.StockItem{}, fmt.Errorf("stock %d is negative", item.Stock)
	}

	return item, nil
}

func validPrice(p float64) bool {
	return store.Finite(p) && p >= 0
}

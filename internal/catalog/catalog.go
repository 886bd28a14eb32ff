// Package catalog keeps loanable items in a JSON file. Each item is either
// available or on loan to exactly one holder.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/store"
	"github.com/mamadbah2/stockbook/internal/store/ids"
	"github.com/mamadbah2/stockbook/internal/store/jsonfile"
)

// IDWidth is the zero-padded width of generated ids ("001").
const IDWidth = 3

var (
	// ErrAlreadyHeld indicates a loan of an item that is already on loan.
	ErrAlreadyHeld = errors.New("item is already on loan")
	// ErrNotHeld indicates a return of an item that is not on loan.
	ErrNotHeld = errors.New("item is not on loan")
)

// Store is the catalog collection. It is not safe for concurrent use.
type Store struct {
	items  *store.Collection[string, models.LoanItem]
	path   string
	logger *zap.Logger
}

// Open loads the catalog at path; a missing file starts an empty catalog.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	codec := jsonfile.New(path, DecodeLoanItem)
	items, err := store.Open[string, models.LoanItem](codec, func(l models.LoanItem) string { return l.ID }, logger)
	if err != nil {
		return nil, err
	}

	return &Store{items: items, path: path, logger: logger}, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// List returns every item in insertion order.
func (s *Store) List() []models.LoanItem { return s.items.All() }

// Find looks up an item by id.
func (s *Store) Find(id string) (models.LoanItem, bool) { return s.items.Find(id) }

// Search matches query case-insensitively against titles. A blank query
// matches nothing rather than dumping the whole catalog.
func (s *Store) Search(query string) []models.LoanItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.LoanItem{}
	}
	return s.items.Filter(func(item models.LoanItem) bool {
		return strings.Contains(strings.ToLower(item.Title), q)
	})
}

// ListHeld returns the items currently on loan.
func (s *Store) ListHeld() []models.LoanItem {
	return s.items.Filter(func(item models.LoanItem) bool {
		return item.State() == models.StateOnLoan
	})
}

// Add stores a new available item under the next generated id.
func (s *Store) Add(in models.NewLoanItem) (models.LoanItem, error) {
	return s.AddWithID(ids.NextCode(s.items.Keys(), IDWidth), in)
}

// AddWithID stores a new available item under an explicit id.
func (s *Store) AddWithID(id string, in models.NewLoanItem) (models.LoanItem, error) {
	id = strings.TrimSpace(id)
	title := strings.TrimSpace(in.Title)
	switch {
	case id == "":
		return models.LoanItem{}, fmt.Errorf("%w: id must not be blank", store.ErrInvalidArgument)
	case title == "":
		return models.LoanItem{}, fmt.Errorf("%w: title must not be blank", store.ErrInvalidArgument)
	}

	item := models.LoanItem{
		ID:     id,
		Title:  title,
		Author: normalize(in.Author),
	}

	created, err := s.items.Append(item)
	if err != nil {
		return models.LoanItem{}, err
	}
	s.logger.Info("item added", zap.String("id", created.ID), zap.String("title", created.Title))
	return created, nil
}

// Remove deletes an item and returns it.
func (s *Store) Remove(id string) (models.LoanItem, error) {
	removed, err := s.items.Remove(id)
	if err != nil {
		return models.LoanItem{}, err
	}
	s.logger.Info("item removed", zap.String("id", id))
	return removed, nil
}

// SetHolder lends an available item to holder.
func (s *Store) SetHolder(id, holder string) (models.LoanItem, error) {
	holder = strings.TrimSpace(holder)
	if holder == "" {
		return models.LoanItem{}, fmt.Errorf("%w: holder must not be blank", store.ErrInvalidArgument)
	}

	updated, err := s.items.Mutate(id, func(item *models.LoanItem) error {
		if item.State() == models.StateOnLoan {
			return fmt.Errorf("%w: %s is held by %s", ErrAlreadyHeld, id, *item.HeldBy)
		}
		item.HeldBy = &holder
		return nil
	})
	if err != nil {
		return models.LoanItem{}, err
	}

	s.logger.Info("item lent", zap.String("id", id), zap.String("holder", holder))
	return updated, nil
}

// ClearHolder marks an item on loan as returned.
func (s *Store) ClearHolder(id string) (models.LoanItem, error) {
	updated, err := s.items.Mutate(id, func(item *models.LoanItem) error {
		if item.State() != models.StateOnLoan {
			return fmt.Errorf("%w: %s", ErrNotHeld, id)
		}
		item.HeldBy = nil
		return nil
	})
	if err != nil {
		return models.LoanItem{}, err
	}

	s.logger.Info("item returned", zap.String("id", id))
	return updated, nil
}

// DecodeLoanItem coerces one JSON element into a LoanItem. Numeric ids become
// their decimal text and an empty holder means the item is available.
func DecodeLoanItem(raw json.RawMessage) (models.LoanItem, error) {
	fields, err := store.DecodeFields(raw)
	if err != nil {
		return models.LoanItem{}, err
	}

	if !fields.Has("id") {
		return models.LoanItem{}, errors.New("missing id")
	}

	var item models.LoanItem
	if item.ID, err = store.String(fields["id"]); err != nil {
		return models.LoanItem{}, fmt.Errorf("id: %w", err)
	}
	if item.Title, err = store.String(fields["title"]); err != nil {
		return models.LoanItem{}, fmt.Errorf("title: %w", err)
	}
	if item.Author, err = store.OptionalString(fields["author"]); err != nil {
		return models.LoanItem{}, fmt.Errorf("author: %w", err)
	}
	if item.HeldBy, err = store.OptionalString(fields["held_by"]); err != nil {
		return models.LoanItem{}, fmt.Errorf("held_by: %w", err)
	}
	item.HeldBy = normalize(item.HeldBy)

	return item, nil
}

func normalize(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

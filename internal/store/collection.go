// Package store holds the in-memory record collection shared by the
// inventory and catalog stores, together with the error taxonomy and the
// field coercion helpers their decoders use.
//
// A Collection is not safe for concurrent use. Callers that share one
// between goroutines must serialize access themselves.
package store

import (
	"fmt"

	"go.uber.org/zap"
)

// Codec loads and saves a whole collection.
type Codec[T any] interface {
	Load() ([]T, error)
	Save(items []T) error
}

// Collection is an ordered set of records unique by key, persisted through
// its codec after every successful mutation.
type Collection[K comparable, T any] struct {
	items  []T
	key    func(T) K
	codec  Codec[T]
	logger *zap.Logger
}

// Open loads the collection once through codec.
func Open[K comparable, T any](codec Codec[T], key func(T) K, logger *zap.Logger) (*Collection[K, T], error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	items, err := codec.Load()
	if err != nil {
		return nil, err
	}

	seen := make(map[K]struct{}, len(items))
	for _, item := range items {
		k := key(item)
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: %w %v", ErrMalformedStore, ErrDuplicateID, k)
		}
		seen[k] = struct{}{}
	}

	logger.Debug("collection loaded", zap.Int("records", len(items)))

	return &Collection[K, T]{
		items:  items,
		key:    key,
		codec:  codec,
		logger: logger,
	}, nil
}

// All returns a copy of every record in collection order.
func (c *Collection[K, T]) All() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of records.
func (c *Collection[K, T]) Len() int { return len(c.items) }

// Keys returns every key in collection order.
func (c *Collection[K, T]) Keys() []K {
	out := make([]K, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, c.key(item))
	}
	return out
}

// Find looks up a record by key.
func (c *Collection[K, T]) Find(id K) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Filter returns the records matching pred, in collection order. The result
// is never nil.
func (c *Collection[K, T]) Filter(pred func(T) bool) []T {
	out := make([]T, 0)
	for _, item := range c.items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Append adds item at the end and persists.
func (c *Collection[K, T]) Append(item T) (T, error) {
	var zero T
	k := c.key(item)
	if c.index(k) >= 0 {
		return zero, fmt.Errorf("%w: %v", ErrDuplicateID, k)
	}

	c.items = append(c.items, item)
	if err := c.persist("append", k); err != nil {
		return zero, err
	}
	return item, nil
}

// Remove deletes the record with key id and persists.
func (c *Collection[K, T]) Remove(id K) (T, error) {
	var zero T
	i := c.index(id)
	if i < 0 {
		return zero, fmt.Errorf("%w: %v", ErrNotFound, id)
	}

	removed := c.items[i]
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	if err := c.persist("remove", id); err != nil {
		return zero, err
	}
	return removed, nil
}

// Mutate applies fn to a copy of the record with key id. When fn fails the
// collection is left untouched and nothing is written; otherwise the copy
// replaces the record and the collection is persisted.
func (c *Collection[K, T]) Mutate(id K, fn func(*T) error) (T, error) {
	var zero T
	i := c.index(id)
	if i < 0 {
		return zero, fmt.Errorf("%w: %v", ErrNotFound, id)
	}

	updated := c.items[i]
	if err := fn(&updated); err != nil {
		return zero, err
	}
	if c.key(updated) != id {
		return zero, fmt.Errorf("%w: mutation may not change id %v", ErrInvalidArgument, id)
	}

	c.items[i] = updated
	if err := c.persist("mutate", id); err != nil {
		return zero, err
	}
	return updated, nil
}

func (c *Collection[K, T]) index(id K) int {
	for i, item := range c.items {
		if c.key(item) == id {
			return i
		}
	}
	return -1
}

// persist writes the full collection. A failed save is returned unchanged and
// leaves memory ahead of disk.
func (c *Collection[K, T]) persist(op string, id K) error {
	if err := c.codec.Save(c.items); err != nil {
		c.logger.Error("persist collection failed", zap.String("op", op), zap.Any("id", id), zap.Error(err))
		return err
	}
	c.logger.Debug("collection persisted", zap.String("op", op), zap.Any("id", id), zap.Int("records", len(c.items)))
	return nil
}

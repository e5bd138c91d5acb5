package order

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hupe1980/shipmesh/core"
)

// ErrNotFound is returned when no order exists for the given order number.
var ErrNotFound = fmt.Errorf("order not found")

// Store is a read-only index of orders keyed by order number. It is built
// once at startup and safe for concurrent reads.
type Store struct {
	byNumber map[string]core.Order
}

// NewStore indexes the given orders. Later duplicates win, matching a
// database upsert.
func NewStore(orders []core.Order) *Store {
	byNumber := make(map[string]core.Order, len(orders))
	for _, o := range orders {
		byNumber[o.OrderNumber] = o
	}
	return &Store{byNumber: byNumber}
}

// NewStoreFromFile loads orders from a JSON array file (orders.json).
func NewStoreFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read orders file: %w", err)
	}
	var orders []core.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("parse orders file %s: %w", path, err)
	}
	return NewStore(orders), nil
}

// Get returns the order for the given order number or ErrNotFound.
func (s *Store) Get(orderNumber string) (core.Order, error) {
	o, ok := s.byNumber[orderNumber]
	if !ok {
		return core.Order{}, fmt.Errorf("%w: %s", ErrNotFound, orderNumber)
	}
	return o, nil
}

// Len returns the number of indexed orders.
func (s *Store) Len() int { return len(s.byNumber) }

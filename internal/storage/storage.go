package storage

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/eugenenazirov/knapsack/internal/knapsack"
)

// DefaultMaxItems bounds the catalog size when no limit is configured.
const DefaultMaxItems = 10_000

var (
	// ErrInvalidItems indicates the provided items violate validation rules.
	ErrInvalidItems = errors.New("items must have finite, non-negative weights and values")
	// ErrTooManyItems indicates the catalog would exceed the configured limit.
	ErrTooManyItems = errors.New("too many items")
)

// Storage provides access to the item catalog used by the solvers.
type Storage interface {
	GetItems() ([]knapsack.Item, error)
	SetItems(items []knapsack.Item) error
	MaxItems() int
}

// MemoryStorage keeps the catalog in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu       sync.RWMutex
	items    []knapsack.Item
	maxItems int
}

// NewMemoryStorage initialises an empty catalog accepting up to maxItems
// entries. A non-positive maxItems falls back to DefaultMaxItems.
func NewMemoryStorage(maxItems int) *MemoryStorage {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &MemoryStorage{
		items:    []knapsack.Item{},
		maxItems: maxItems,
	}
}

// GetItems returns a defensive copy of the catalog in insertion order.
func (s *MemoryStorage) GetItems() ([]knapsack.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneItems(s.items), nil
}

// MaxItems reports how many items a single catalog or request may carry.
func (s *MemoryStorage) MaxItems() int {
	return s.maxItems
}

// SetItems validates and replaces the catalog.
func (s *MemoryStorage) SetItems(items []knapsack.Item) error {
	if err := ValidateItems(items, s.maxItems); err != nil {
		return err
	}

	s.mu.Lock()
	s.items = cloneItems(items)
	s.mu.Unlock()

	return nil
}

// ValidateItems checks the preconditions the solvers rely on: at most
// maxItems entries, each with a finite, non-negative weight and value.
// Ids are not required to be unique, matching what the loader accepts.
func ValidateItems(items []knapsack.Item, maxItems int) error {
	if len(items) > maxItems {
		return fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyItems, len(items), maxItems)
	}
	for _, item := range items {
		if !validQuantity(item.Weight) || !validQuantity(item.Value) {
			return fmt.Errorf("%w: item %d", ErrInvalidItems, item.ID)
		}
	}
	return nil
}

func validQuantity(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func cloneItems(src []knapsack.Item) []knapsack.Item {
	if len(src) == 0 {
		return []knapsack.Item{}
	}
	return slices.Clone(src)
}

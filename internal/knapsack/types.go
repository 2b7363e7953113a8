package knapsack

import (
	"iter"
	"math"
	"slices"
)

// Item is a candidate for selection. Items are values; nothing mutates them
// once the loader has built them.
type Item struct {
	ID     int     `json:"id"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
}

// NewItem builds an Item from parsed fields.
func NewItem(id int, weight, value float64) Item {
	return Item{ID: id, Weight: weight, Value: value}
}

// Ratio returns value per unit of weight. Zero-weight items report +Inf so
// they rank ahead of everything else, including the 0/0 case.
func (i Item) Ratio() float64 {
	if i.Weight == 0 {
		return math.Inf(1)
	}
	return i.Value / i.Weight
}

// Catalog is the ordered candidate set exactly as the loader produced it.
type Catalog struct {
	items []Item
}

// NewCatalog copies items into a read-only catalog.
func NewCatalog(items ...Item) Catalog {
	return Catalog{items: slices.Clone(items)}
}

// Len reports the number of items, possibly zero.
func (c Catalog) Len() int {
	return len(c.items)
}

// At returns the item at index i. It panics if i is out of range.
func (c Catalog) At(i int) Item {
	return c.items[i]
}

// Items returns a copy of the catalog contents in input order.
func (c Catalog) Items() []Item {
	return slices.Clone(c.items)
}

// All iterates the catalog in input order.
func (c Catalog) All() iter.Seq2[int, Item] {
	return func(yield func(int, Item) bool) {
		for i, item := range c.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Selection is the outcome of a solver run: the chosen items in selection
// order together with their aggregate weight and value.
type Selection struct {
	items       []Item
	totalWeight float64
	totalValue  float64
	capacity    float64
}

// Items returns a copy of the selected items in selection order.
func (s Selection) Items() []Item {
	return slices.Clone(s.items)
}

// Len reports how many items were selected.
func (s Selection) Len() int {
	return len(s.items)
}

func (s Selection) TotalWeight() float64 { return s.totalWeight }

func (s Selection) TotalValue() float64 { return s.totalValue }

// Capacity is the bound the selection was computed against.
func (s Selection) Capacity() float64 { return s.capacity }

// Solver describes the behaviour required from a knapsack selection strategy.
type Solver interface {
	Select(items []Item, capacity float64) Selection
}

package knapsack

import (
	"cmp"
	"slices"
)

type greedySolver struct{}

// NewGreedy creates a Solver that ranks items by value/weight ratio and
// fills the knapsack in a single pass. Equal ratios keep their input order.
func NewGreedy() Solver {
	return greedySolver{}
}

func (greedySolver) Select(items []Item, capacity float64) Selection {
	ranked := Rank(items)

	var (
		weight float64
		value  float64
		chosen = make([]Item, 0, len(ranked))
	)
	for _, item := range ranked {
		if weight+item.Weight <= capacity {
			weight += item.Weight
			value += item.Value
			chosen = append(chosen, item)
		}
	}

	return Selection{
		items:       chosen,
		totalWeight: weight,
		totalValue:  value,
		capacity:    capacity,
	}
}

// Rank returns a copy of items ordered by strictly decreasing ratio.
// The sort is stable; items sharing a ratio, zero-weight items included,
// stay in input order.
func Rank(items []Item) []Item {
	ranked := slices.Clone(items)
	slices.SortStableFunc(ranked, compareByRatio)
	return ranked
}

func compareByRatio(a, b Item) int {
	// +Inf == +Inf compares equal, so zero-weight items tie among themselves.
	return cmp.Compare(b.Ratio(), a.Ratio())
}

// Package knapsack holds the item model and the selection strategies for the
// 0/1 knapsack problem. Solvers are pure: they never reorder their input and
// never fail on well-formed items.
package knapsack

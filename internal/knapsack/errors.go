package knapsack

import "errors"

// ErrUnknownAlgorithm is returned when an algorithm outside the enumeration is requested.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

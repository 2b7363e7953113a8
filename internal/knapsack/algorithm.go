package knapsack

import (
	"fmt"
	"strconv"
	"strings"
)

// Algorithm enumerates the available selection strategies.
type Algorithm int

const (
	// AlgorithmGreedy ranks items by value/weight ratio and fills in one pass.
	AlgorithmGreedy Algorithm = iota + 1
)

// DefaultAlgorithm is used when the caller does not pick one.
const DefaultAlgorithm = AlgorithmGreedy

var algorithmNames = map[Algorithm]string{
	AlgorithmGreedy: "greedy",
}

// Valid reports whether a is a member of the enumeration.
func (a Algorithm) Valid() bool {
	_, ok := algorithmNames[a]
	return ok
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm accepts either the algorithm name or its numeric code.
// An empty string selects DefaultAlgorithm.
func ParseAlgorithm(raw string) (Algorithm, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return DefaultAlgorithm, nil
	}
	for alg, name := range algorithmNames {
		if name == raw {
			return alg, nil
		}
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, raw)
	}
	if alg := Algorithm(code); alg.Valid() {
		return alg, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, code)
}

// NewSolver returns the solver implementing alg.
func NewSolver(alg Algorithm) (Solver, error) {
	switch alg {
	case AlgorithmGreedy:
		return NewGreedy(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
	}
}

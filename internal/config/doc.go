// Package config resolves service settings for `knapsack serve`.
//
// Values start from built-in defaults and are then overridden, in order, by
// environment variables (PORT, DEFAULT_CAPACITY, ALGORITHM, ITEMS_FILE,
// MAX_ITEMS, LOG_LEVEL, RATE_LIMIT_RPS, RATE_LIMIT_BURST), an optional YAML
// file, and finally command-line flags. The merged Config is validated
// before it is returned: the default capacity must be finite and
// non-negative, the algorithm must be a known knapsack.Algorithm, and the
// item limit must be positive.
package config

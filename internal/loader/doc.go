// Package loader turns semicolon separated item files and command-line
// arguments into validated input for the knapsack solvers. Validation
// failures carry an ErrorKind rather than a numeric code.
package loader

package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/eugenenazirov/knapsack/internal/knapsack"
)

const (
	fieldSeparator = ";"
	// maxLineBytes bounds a single row. A valid row is three short numbers,
	// so anything this long is malformed rather than unreadable.
	maxLineBytes = 1 << 20
)

var (
	rowPattern      = regexp.MustCompile(`^\d+;\d*\.?\d*;\d*\.?\d*$`)
	capacityPattern = regexp.MustCompile(`^\d*\.?\d*$`)
)

// LoadFile reads items from a semicolon separated .csv file.
// See Load for the row format and filtering rules.
func LoadFile(path string, capacity float64) (knapsack.Catalog, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return knapsack.Catalog{}, &Error{Kind: KindInvalidFileFormat, Err: fmt.Errorf("%q is not a .csv file", path)}
	}

	f, err := os.Open(path)
	if err != nil {
		return knapsack.Catalog{}, &Error{Kind: KindUnreadableFile, Err: err}
	}
	defer f.Close()

	return Load(f, capacity)
}

// Load parses item rows of the form "id;weight;value". The first non-empty
// line holds column names and is skipped, as are blank lines. Items heavier
// than capacity can never be selected and are dropped.
func Load(r io.Reader, capacity float64) (knapsack.Catalog, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	var (
		items      []knapsack.Item
		lineNo     int
		seenHeader bool
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if !seenHeader {
			seenHeader = true
			continue
		}

		item, err := parseRow(line)
		if err != nil {
			return knapsack.Catalog{}, &Error{Kind: KindInvalidFileContents, Line: lineNo, Err: err}
		}
		if item.Weight > capacity {
			continue
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return knapsack.Catalog{}, &Error{
				Kind: KindInvalidFileContents,
				Line: lineNo + 1,
				Err:  fmt.Errorf("line longer than %d bytes", maxLineBytes),
			}
		}
		return knapsack.Catalog{}, &Error{Kind: KindUnreadableFile, Err: err}
	}

	return knapsack.NewCatalog(items...), nil
}

// ParseCapacity parses a non-negative decimal such as "50", "12.5" or ".5".
func ParseCapacity(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if !capacityPattern.MatchString(raw) || strings.Trim(raw, ".") == "" {
		return 0, &Error{Kind: KindInvalidCapacity, Err: fmt.Errorf("%q is not a non-negative number", raw)}
	}
	value, err := parseNumber(raw)
	if err != nil {
		return 0, &Error{Kind: KindInvalidCapacity, Err: err}
	}
	return value, nil
}

// ParseAlgorithm resolves an algorithm name or code.
func ParseAlgorithm(raw string) (knapsack.Algorithm, error) {
	alg, err := knapsack.ParseAlgorithm(raw)
	if err != nil {
		return 0, &Error{Kind: KindInvalidAlgorithm, Err: err}
	}
	return alg, nil
}

func parseRow(line string) (knapsack.Item, error) {
	if !rowPattern.MatchString(line) {
		return knapsack.Item{}, fmt.Errorf("expected 'id;weight;value', got %q", line)
	}
	fields := strings.Split(line, fieldSeparator)

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return knapsack.Item{}, fmt.Errorf("parse id: %w", err)
	}
	weight, err := parseNumber(fields[1])
	if err != nil {
		return knapsack.Item{}, fmt.Errorf("parse weight: %w", err)
	}
	value, err := parseNumber(fields[2])
	if err != nil {
		return knapsack.Item{}, fmt.Errorf("parse value: %w", err)
	}

	return knapsack.NewItem(id, weight, value), nil
}

// parseNumber accepts the loose decimal forms the row pattern allows,
// where an empty field or a lone "." reads as zero.
func parseNumber(raw string) (float64, error) {
	if raw == "" || raw == "." {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

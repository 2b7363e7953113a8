package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eugenenazirov/knapsack/internal/knapsack"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"id;weight;value",
		"1;10;60",
		"",
		"2;20.5;100",
		"3;30;120.25",
		"4;.;",
		"5;80;500",
	}, "\n")

	catalog, err := Load(strings.NewReader(input), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []knapsack.Item{
		knapsack.NewItem(1, 10, 60),
		knapsack.NewItem(2, 20.5, 100),
		knapsack.NewItem(3, 30, 120.25),
		knapsack.NewItem(4, 0, 0),
	}
	if diff := cmp.Diff(want, catalog.Items()); diff != "" {
		t.Fatalf("unexpected items (-want +got):\n%s", diff)
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	t.Parallel()

	catalog, err := Load(strings.NewReader("id;weight;value\n"), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.Len() != 0 {
		t.Fatalf("expected empty catalog, got %d items", catalog.Len())
	}
}

func TestLoadAcceptsCRLF(t *testing.T) {
	t.Parallel()

	catalog, err := Load(strings.NewReader("id;weight;value\r\n1;2;3\r\n"), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", catalog.Len())
	}
}

func TestLoadRejectsMalformedRows(t *testing.T) {
	t.Parallel()

	rows := []string{
		"1;2",
		"1;2;3;4",
		"a;2;3",
		"1;-2;3",
		"1;2;x",
		"1,2,3",
		"1;2..5;3",
	}

	for _, row := range rows {
		row := row
		t.Run(row, func(t *testing.T) {
			t.Parallel()

			_, err := Load(strings.NewReader("header\n1;1;1\n"+row+"\n"), 100)
			if !errors.Is(err, ErrInvalidFileContents) {
				t.Fatalf("expected ErrInvalidFileContents, got %v", err)
			}

			var loadErr *Error
			if !errors.As(err, &loadErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if loadErr.Line != 3 {
				t.Fatalf("expected line 3, got %d", loadErr.Line)
			}
		})
	}
}

func TestLoadRejectsOversizedLine(t *testing.T) {
	t.Parallel()

	input := "id;weight;value\n1;1;1\n" + strings.Repeat("9", maxLineBytes+1) + ";1;1\n"
	_, err := Load(strings.NewReader(input), 100)
	if !errors.Is(err, ErrInvalidFileContents) {
		t.Fatalf("expected ErrInvalidFileContents, got %v", err)
	}

	var loadErr *Error
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if loadErr.Line != 3 {
		t.Fatalf("expected line 3, got %d", loadErr.Line)
	}
}

func TestLoadAcceptsRowsBeyondDefaultScannerLimit(t *testing.T) {
	t.Parallel()

	// 70 KiB of leading zeros still parses to the id 7.
	row := strings.Repeat("0", 70<<10) + "7;1;2"
	catalog, err := Load(strings.NewReader("id;weight;value\n"+row+"\n"), 100)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if catalog.Len() != 1 || catalog.At(0).ID != 7 {
		t.Fatalf("expected single item with id 7, got %v", catalog.Items())
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	if err := os.WriteFile(path, []byte("id;weight;value\n1;5;10\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	catalog, err := LoadFile(path, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", catalog.Len())
	}

	if _, err := LoadFile(filepath.Join(dir, "items.txt"), 5); !errors.Is(err, ErrInvalidFileFormat) {
		t.Fatalf("expected ErrInvalidFileFormat, got %v", err)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.csv"), 5); !errors.Is(err, ErrUnreadableFile) {
		t.Fatalf("expected ErrUnreadableFile, got %v", err)
	}
}

func TestParseCapacity(t *testing.T) {
	t.Parallel()

	valid := map[string]float64{
		"50":   50,
		"12.5": 12.5,
		".5":   0.5,
		"3.":   3,
		"0":    0,
	}
	for raw, want := range valid {
		got, err := ParseCapacity(raw)
		if err != nil {
			t.Fatalf("ParseCapacity(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseCapacity(%q) = %v, want %v", raw, got, want)
		}
	}

	for _, raw := range []string{"", ".", "-1", "1e3", "abc", "1.2.3"} {
		if _, err := ParseCapacity(raw); !errors.Is(err, ErrInvalidCapacity) {
			t.Fatalf("ParseCapacity(%q): expected ErrInvalidCapacity, got %v", raw, err)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	alg, err := ParseAlgorithm("1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alg != knapsack.AlgorithmGreedy {
		t.Fatalf("expected greedy, got %s", alg)
	}

	_, err = ParseAlgorithm("7")
	if !errors.Is(err, ErrInvalidAlgorithm) {
		t.Fatalf("expected ErrInvalidAlgorithm, got %v", err)
	}
	if !errors.Is(err, knapsack.ErrUnknownAlgorithm) {
		t.Fatalf("expected wrapped ErrUnknownAlgorithm, got %v", err)
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: KindInvalidFileContents, Line: 4, Err: errors.New("bad row")}
	if got, want := err.Error(), "invalid file contents at line 4: bad row"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("kinds must not match across categories")
	}
}

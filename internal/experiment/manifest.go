package experiment

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// PuzzleEntry describes one puzzle catalogued in a manifest: its
// identity, grid size, known satisfiability, and the grid file to
// encode.
type PuzzleEntry struct {
	ID             int
	Size           int
	ExpectedStatus string
	Path           string
}

// LoadManifest reads a CSV manifest with columns puzzle_id, n, status,
// path. It is the Go-native counterpart of a puzzle directory's
// !puzzles_manifest.csv.
func LoadManifest(path string) ([]PuzzleEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("experiment: open manifest: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("experiment: read manifest: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("experiment: empty manifest %s", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, want := range []string{"puzzle_id", "n", "status", "path"} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("experiment: manifest missing column %q", want)
		}
	}

	entries := make([]PuzzleEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		id, err := strconv.Atoi(row[col["puzzle_id"]])
		if err != nil {
			return nil, fmt.Errorf("experiment: invalid puzzle_id %q: %w", row[col["puzzle_id"]], err)
		}
		size, err := strconv.Atoi(row[col["n"]])
		if err != nil {
			return nil, fmt.Errorf("experiment: invalid n %q: %w", row[col["n"]], err)
		}
		entries = append(entries, PuzzleEntry{
			ID:             id,
			Size:           size,
			ExpectedStatus: row[col["status"]],
			Path:           row[col["path"]],
		})
	}
	return entries, nil
}

package experiment

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTimeoutForSizeKnownSizes(t *testing.T) {
	cfg := DefaultConfig()
	for size, want := range map[int]time.Duration{9: cfg.Timeout9x9, 16: cfg.Timeout16x16, 25: cfg.Timeout25x25} {
		got, err := TimeoutForSize(size, cfg)
		if err != nil {
			t.Fatalf("TimeoutForSize(%d) error = %v", size, err)
		}
		if got != want {
			t.Errorf("TimeoutForSize(%d) = %v, want %v", size, got, want)
		}
	}
}

func TestTimeoutForSizeUnknownSizeErrors(t *testing.T) {
	if _, err := TimeoutForSize(4, DefaultConfig()); err == nil {
		t.Error("TimeoutForSize(4) error = nil, want an error for an uncatalogued size")
	}
}

// A 1x1 non-consecutive-Sudoku grid has exactly one cell and no peers
// to conflict with, so it is trivially SAT regardless of clue.
func TestRunSolvesTrivialManifestAndWritesResults(t *testing.T) {
	dir := t.TempDir()
	puzzlePath := filepath.Join(dir, "puzzle.txt")
	writeFile(t, puzzlePath, "0\n")

	manifestPath := filepath.Join(dir, "manifest.csv")
	writeFile(t, manifestPath, "puzzle_id,n,status,path\n1,9,SAT,"+puzzlePath+"\n")

	resultsPath := filepath.Join(dir, "results.csv")
	cfg := DefaultConfig()
	cfg.ResultsPath = resultsPath
	cfg.NumWorkers = 2
	cfg.NumRepetitions = 1
	cfg.Variants = []string{"base", "combined"}
	cfg.Timeout9x9 = 5 * time.Second

	if err := Run(context.Background(), manifestPath, cfg); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	completed, err := loadCompleted(resultsPath)
	if err != nil {
		t.Fatalf("loadCompleted() error = %v", err)
	}
	for _, variant := range cfg.Variants {
		if !completed[completedKey{puzzleID: 1, variant: variant, repetition: 0}] {
			t.Errorf("results.csv missing a row for variant %q", variant)
		}
	}
}

func TestRunResumesSkippingCompletedRows(t *testing.T) {
	dir := t.TempDir()
	puzzlePath := filepath.Join(dir, "puzzle.txt")
	writeFile(t, puzzlePath, "0\n")

	manifestPath := filepath.Join(dir, "manifest.csv")
	writeFile(t, manifestPath, "puzzle_id,n,status,path\n1,9,SAT,"+puzzlePath+"\n")

	resultsPath := filepath.Join(dir, "results.csv")
	header := "puzzle_id,puzzle_size,expected_status,variant,repetition,status,wall_time_s,decisions,backtracks,unit_propagations,conflicts,peak_memory_mb,timeout_limit_s,timed_out,correct\n"
	writeFile(t, resultsPath, header+"1,9,SAT,base,0,SAT,0.000001,0,0,1,0,0.000,5.000,false,true\n")

	info, err := os.Stat(resultsPath)
	if err != nil {
		t.Fatalf("stat results.csv: %v", err)
	}
	sizeBefore := info.Size()

	cfg := DefaultConfig()
	cfg.ResultsPath = resultsPath
	cfg.NumWorkers = 1
	cfg.NumRepetitions = 1
	cfg.Variants = []string{"base"}
	cfg.Timeout9x9 = 5 * time.Second

	if err := Run(context.Background(), manifestPath, cfg); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	info, err = os.Stat(resultsPath)
	if err != nil {
		t.Fatalf("stat results.csv after Run: %v", err)
	}
	if info.Size() != sizeBefore {
		t.Errorf("Run() appended a row for an already-completed task: size %d -> %d", sizeBefore, info.Size())
	}
}

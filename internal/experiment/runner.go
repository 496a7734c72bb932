// Package experiment runs the solver variants across a puzzle
// manifest and records per-run metrics to CSV, for the paired
// performance comparison internal/stats consumes.
package experiment

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/CptPie/DPLL-solver/cnf"
	"github.com/CptPie/DPLL-solver/encoder"
	"github.com/CptPie/DPLL-solver/logger"
	"github.com/CptPie/DPLL-solver/solver"
)

// Config controls a run of the experiment: which puzzles, which
// variants, how many repetitions, and the size-dependent timeouts.
type Config struct {
	ResultsPath    string
	NumWorkers     int
	NumRepetitions int
	Variants       []string

	Timeout9x9   time.Duration
	Timeout16x16 time.Duration
	Timeout25x25 time.Duration
}

// DefaultConfig mirrors the reference experiment's defaults.
func DefaultConfig() Config {
	return Config{
		ResultsPath:    "results.csv",
		NumWorkers:     runtime.NumCPU(),
		NumRepetitions: 3,
		Variants:       []string{solver.VariantBase, solver.VariantWatched, solver.VariantPreprocessing, solver.VariantCombined},
		Timeout9x9:     5 * time.Minute,
		Timeout16x16:   10 * time.Minute,
		Timeout25x25:   15 * time.Minute,
	}
}

// TimeoutForSize maps a puzzle's grid size to its configured timeout.
func TimeoutForSize(size int, cfg Config) (time.Duration, error) {
	switch size {
	case 9:
		return cfg.Timeout9x9, nil
	case 16:
		return cfg.Timeout16x16, nil
	case 25:
		return cfg.Timeout25x25, nil
	default:
		return 0, fmt.Errorf("experiment: unknown puzzle size %d", size)
	}
}

// Task is one (puzzle, variant, repetition) unit of work.
type Task struct {
	Puzzle     PuzzleEntry
	Variant    string
	Repetition int
	Timeout    time.Duration
}

// Result is one row of the experiment's CSV output.
type Result struct {
	PuzzleID         int
	PuzzleSize       int
	ExpectedStatus   string
	Variant          string
	Repetition       int
	Status           string
	WallTime         time.Duration
	Decisions        int
	Backtracks       int
	UnitPropagations int
	Conflicts        int
	PeakMemoryMB     float64
	TimeoutLimit     time.Duration
	TimedOut         bool
	Correct          bool
}

var csvHeader = []string{
	"puzzle_id", "puzzle_size", "expected_status", "variant", "repetition",
	"status", "wall_time_s", "decisions", "backtracks", "unit_propagations",
	"conflicts", "peak_memory_mb", "timeout_limit_s", "timed_out", "correct",
}

func (r Result) row() []string {
	return []string{
		strconv.Itoa(r.PuzzleID),
		strconv.Itoa(r.PuzzleSize),
		r.ExpectedStatus,
		r.Variant,
		strconv.Itoa(r.Repetition),
		r.Status,
		strconv.FormatFloat(r.WallTime.Seconds(), 'f', 6, 64),
		strconv.Itoa(r.Decisions),
		strconv.Itoa(r.Backtracks),
		strconv.Itoa(r.UnitPropagations),
		strconv.Itoa(r.Conflicts),
		strconv.FormatFloat(r.PeakMemoryMB, 'f', 3, 64),
		strconv.FormatFloat(r.TimeoutLimit.Seconds(), 'f', 3, 64),
		strconv.FormatBool(r.TimedOut),
		strconv.FormatBool(r.Correct),
	}
}

type completedKey struct {
	puzzleID   int
	variant    string
	repetition int
}

// loadCompleted reads an existing results CSV (if any) and returns the
// set of (puzzle, variant, repetition) triples already recorded, so Run
// can resume without repeating finished work.
func loadCompleted(path string) (map[completedKey]bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return map[completedKey]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("experiment: open results for resume: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("experiment: read results for resume: %w", err)
	}
	completed := make(map[completedKey]bool)
	for _, row := range rows[1:] {
		id, err1 := strconv.Atoi(row[0])
		rep, err2 := strconv.Atoi(row[4])
		if err1 != nil || err2 != nil {
			continue
		}
		completed[completedKey{puzzleID: id, variant: row[3], repetition: rep}] = true
	}
	return completed, nil
}

// resultWriter serializes CSV appends across worker goroutines, the Go
// counterpart of a cross-process file lock guarding shared output.
type resultWriter struct {
	mu         sync.Mutex
	f          *os.File
	w          *csv.Writer
	wroteCount int
}

func newResultWriter(path string) (*resultWriter, error) {
	_, err := os.Stat(path)
	exists := err == nil

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("experiment: open results for writing: %w", err)
	}
	w := csv.NewWriter(f)
	rw := &resultWriter{f: f, w: w}
	if !exists {
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("experiment: write header: %w", err)
		}
		w.Flush()
	}
	return rw, nil
}

func (rw *resultWriter) append(r Result) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if err := rw.w.Write(r.row()); err != nil {
		return err
	}
	rw.w.Flush()
	rw.wroteCount++
	if rw.wroteCount%50 == 0 {
		logger.Info("experiment: %d results written\n", rw.wroteCount)
	}
	return rw.w.Error()
}

func (rw *resultWriter) Close() error {
	rw.w.Flush()
	return rw.f.Close()
}

// Run loads manifest, builds the (puzzle, variant, repetition) task
// set minus anything already in cfg.ResultsPath, and drains it with
// cfg.NumWorkers goroutines pulled off a Queue. Each task is executed
// under a per-size timeout; a solve that outlives its deadline is
// recorded as a timeout and its goroutine is abandoned rather than
// killed, since Go has no mechanism to forcibly stop one.
func Run(ctx context.Context, manifestPath string, cfg Config) error {
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	completed, err := loadCompleted(cfg.ResultsPath)
	if err != nil {
		return err
	}

	writer, err := newResultWriter(cfg.ResultsPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	queue := NewQueue()
	queued := 0
	for _, puzzle := range manifest {
		timeout, err := TimeoutForSize(puzzle.Size, cfg)
		if err != nil {
			return err
		}
		for _, variant := range cfg.Variants {
			for rep := 0; rep < cfg.NumRepetitions; rep++ {
				key := completedKey{puzzleID: puzzle.ID, variant: variant, repetition: rep}
				if completed[key] {
					continue
				}
				queue.Push(Task{Puzzle: puzzle, Variant: variant, Repetition: rep, Timeout: timeout})
				queued++
			}
		}
	}
	queue.Close()
	logger.Info("experiment: %d tasks queued (%d already complete)\n", queued, len(completed))

	var wg sync.WaitGroup
	for i := 0; i < cfg.NumWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(ctx, id, queue, writer)
		}(i)
	}
	wg.Wait()
	return nil
}

func worker(ctx context.Context, id int, queue *Queue, writer *resultWriter) {
	for {
		task, ok := queue.Pop()
		if !ok {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		result := runOne(task)
		if err := writer.append(result); err != nil {
			logger.Error("experiment worker %d: write result: %v\n", id, err)
		}
	}
}

// runOne runs a single (puzzle, variant, repetition) task to
// completion or timeout, measuring wall time and the bytes allocated
// process-wide while it ran (the runtime.MemStats.TotalAlloc delta,
// stored as PeakMemoryMB).
func runOne(task Task) Result {
	base := Result{
		PuzzleID:       task.Puzzle.ID,
		PuzzleSize:     task.Puzzle.Size,
		ExpectedStatus: task.Puzzle.ExpectedStatus,
		Variant:        task.Variant,
		Repetition:     task.Repetition,
		TimeoutLimit:   task.Timeout,
	}

	problem, _, err := encoder.Encode(task.Puzzle.Path)
	if err != nil {
		base.Status = "ERROR"
		base.TimedOut = true
		return base
	}

	s, err := solver.NewSolver(task.Variant, problem.Clauses, problem.NumVars)
	if err != nil {
		base.Status = "ERROR"
		base.TimedOut = true
		return base
	}

	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	type solveOutcome struct {
		status solver.Status
		model  cnf.Model
	}
	done := make(chan solveOutcome, 1)
	start := time.Now()
	go func() {
		status, model := s.Solve()
		done <- solveOutcome{status: status, model: model}
	}()

	select {
	case outcome := <-done:
		wallTime := time.Since(start)
		var after runtime.MemStats
		runtime.ReadMemStats(&after)

		metrics := s.Metrics()
		status := outcome.status.String()
		base.Status = status
		base.WallTime = wallTime
		base.Decisions = metrics.Decisions
		base.Backtracks = metrics.Backtracks
		base.UnitPropagations = metrics.UnitPropagations
		base.Conflicts = metrics.Conflicts
		base.PeakMemoryMB = float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024)
		base.Correct = status == task.Puzzle.ExpectedStatus
		return base

	case <-time.After(task.Timeout):
		base.Status = "TIMEOUT"
		base.WallTime = task.Timeout
		base.TimedOut = true
		base.Correct = false
		return base
	}
}

// Command dpllbench is the toolkit's entry point: encode puzzle grids
// into CNF, solve DIMACS files with any DPLL variant, run
// the size-timed benchmark across a puzzle manifest, and summarize a
// finished benchmark's results.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/CptPie/DPLL-solver/cnf"
	"github.com/CptPie/DPLL-solver/dimacs"
	"github.com/CptPie/DPLL-solver/encoder"
	"github.com/CptPie/DPLL-solver/internal/experiment"
	"github.com/CptPie/DPLL-solver/internal/stats"
	"github.com/CptPie/DPLL-solver/logger"
	"github.com/CptPie/DPLL-solver/solver"
	"github.com/CptPie/DPLL-solver/utils"
	"github.com/alexflint/go-arg"
)

var Args struct {
	Mode     string `arg:"--mode,-m" default:"solve" help:"'solve', 'encode', 'bench', or 'analyze'"`
	File     string `arg:"--file,-f" help:"Path to a DIMACS file (solve) or a puzzle grid file (encode)"`
	Variant  string `arg:"--variant" default:"combined" help:"Solver variant: base, watched, preprocessing, combined, or all"`
	LogLevel string `arg:"--log-level,-l" default:"none" help:"Log level: 'none', 'steps', or 'full'"`
	Debug    bool   `arg:"--debug" help:"Dump the parsed problem as JSON to stderr before solving"`

	Manifest    string `arg:"--manifest" help:"Puzzle manifest CSV for bench mode (columns: puzzle_id,n,status,path)"`
	Results     string `arg:"--results" default:"results.csv" help:"Results CSV path: bench writes it, analyze reads it"`
	Workers     int    `arg:"--workers" help:"Worker goroutines for bench mode (default: number of CPUs)"`
	Repetitions int    `arg:"--repetitions" default:"3" help:"Repetitions per (puzzle, variant) pair in bench mode"`
	Baseline    string `arg:"--baseline" default:"base" help:"Baseline variant analyze compares every other variant against"`
}

func main() {
	arg.MustParse(&Args)
	logger.SetLevel(logger.ParseLevel(Args.LogLevel))

	switch Args.Mode {
	case "solve":
		runSolve()
	case "encode":
		runEncode()
	case "bench":
		runBench()
	case "analyze":
		runAnalyze()
	default:
		fmt.Fprintf(os.Stderr, "unknown --mode %q: want solve, encode, bench, or analyze\n", Args.Mode)
		os.Exit(1)
	}
}

func variantsToRun() []string {
	if Args.Variant == "all" {
		return []string{solver.VariantBase, solver.VariantWatched, solver.VariantPreprocessing, solver.VariantCombined}
	}
	return []string{Args.Variant}
}

func runSolve() {
	if Args.File == "" {
		fmt.Fprintln(os.Stderr, "solve mode requires --file")
		os.Exit(1)
	}
	f, err := os.Open(Args.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s: %v\n", Args.File, err)
		os.Exit(1)
	}
	defer f.Close()

	problem, err := dimacs.Read(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse %s: %v\n", Args.File, err)
		os.Exit(1)
	}
	if err := problem.Verify(); err != nil {
		fmt.Fprintf(os.Stderr, "parsed problem is invalid: %v\n", err)
		os.Exit(1)
	}
	if Args.Debug {
		fmt.Fprintln(os.Stderr, utils.JSONString(problem))
	}

	for _, variant := range variantsToRun() {
		s, err := solver.NewSolver(variant, problem.Clauses, problem.NumVars)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", variant, err)
			os.Exit(1)
		}

		logger.Info("solving %s with variant %s\n", Args.File, variant)
		start := time.Now()
		status, model := s.Solve()
		elapsed := time.Since(start)

		metrics := s.Metrics()
		logger.Metrics("variant=%s status=%s decisions=%d backtracks=%d unit_props=%d conflicts=%d\n",
			variant, status, metrics.Decisions, metrics.Backtracks, metrics.UnitPropagations, metrics.Conflicts)

		fmt.Printf("s %s\n", status)
		if status == solver.Sat {
			fmt.Println(formatModelLine(model))
		}
		logger.Info("%s: %v elapsed\n", variant, elapsed)
	}
}

func formatModelLine(m cnf.Model) string {
	var sb strings.Builder
	sb.WriteString("v ")
	for _, lit := range m {
		fmt.Fprintf(&sb, "%d ", lit)
	}
	sb.WriteString("0")
	return sb.String()
}

func runEncode() {
	if Args.File == "" {
		fmt.Fprintln(os.Stderr, "encode mode requires --file")
		os.Exit(1)
	}
	problem, n, err := encoder.Encode(Args.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode %s: %v\n", Args.File, err)
		os.Exit(1)
	}
	logger.Info("encoded %s (%dx%d grid) into %d variables, %d clauses\n", Args.File, n, n, problem.NumVars, len(problem.Clauses))
	if err := dimacs.Write(os.Stdout, problem); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write DIMACS output: %v\n", err)
		os.Exit(1)
	}
}

func runBench() {
	if Args.Manifest == "" {
		fmt.Fprintln(os.Stderr, "bench mode requires --manifest")
		os.Exit(1)
	}

	cfg := experiment.DefaultConfig()
	cfg.ResultsPath = Args.Results
	cfg.NumRepetitions = Args.Repetitions
	if Args.Workers > 0 {
		cfg.NumWorkers = Args.Workers
	}
	if Args.Variant != "all" {
		cfg.Variants = []string{Args.Variant}
	}

	logger.Info("running benchmark: manifest=%s results=%s workers=%d repetitions=%d variants=%v\n",
		Args.Manifest, cfg.ResultsPath, cfg.NumWorkers, cfg.NumRepetitions, cfg.Variants)

	if err := experiment.Run(context.Background(), Args.Manifest, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "benchmark failed: %v\n", err)
		os.Exit(1)
	}
	logger.Info("benchmark complete, results written to %s\n", cfg.ResultsPath)
}

func runAnalyze() {
	results, err := experiment.LoadResults(Args.Results)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", Args.Results, err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Fprintf(os.Stderr, "%s contains no results\n", Args.Results)
		os.Exit(1)
	}

	runs := stats.MedianByPuzzleVariant(results)

	fmt.Println("Overall statistics by variant:")
	for _, s := range stats.SummarizeByVariant(runs) {
		fmt.Printf("  %-14s n=%-4d median=%.4fs mean=%.4fs stddev=%.4fs timeouts=%.1f%%\n",
			s.Variant, s.N, s.Median, s.Mean, s.StdDev, s.TimeoutRate*100)
	}

	fmt.Println("\nStatistics by puzzle size and variant:")
	for _, s := range stats.SummarizeBySizeAndVariant(runs) {
		fmt.Printf("  %dx%d %-14s n=%-4d median=%.4fs timeouts=%.1f%%\n",
			s.PuzzleSize, s.PuzzleSize, s.Variant, s.N, s.Median, s.TimeoutRate*100)
	}

	fmt.Printf("\nSpeedup relative to %s:\n", Args.Baseline)
	variants := distinctVariants(runs)
	sort.Strings(variants)
	for _, variant := range variants {
		if variant == Args.Baseline {
			continue
		}
		for _, sp := range stats.PairedSpeedup(runs, Args.Baseline, variant) {
			fmt.Printf("  %dx%d %s vs %s: %d pairs, median speedup %.2fx (%d wins)\n",
				sp.PuzzleSize, sp.PuzzleSize, sp.Variant, sp.Baseline, sp.Pairs, sp.MedianSpeedup, sp.Wins)
		}
	}
}

func distinctVariants(runs []stats.Run) []string {
	seen := make(map[string]bool)
	var variants []string
	for _, r := range runs {
		if !seen[r.Variant] {
			seen[r.Variant] = true
			variants = append(variants, r.Variant)
		}
	}
	return variants
}

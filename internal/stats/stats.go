// Package stats summarizes experiment results: per-variant solve-time
// statistics and paired speedup comparisons against a baseline
// variant. It uses only the standard library, since nothing in the
// example pack supplies a statistics library to ground a third-party
// choice on.
package stats

import (
	"math"
	"sort"

	"github.com/CptPie/DPLL-solver/internal/experiment"
)

// Run is one (puzzle, variant) observation reduced to its median
// across repetitions, the unit paired comparisons operate on.
type Run struct {
	PuzzleID   int
	PuzzleSize int
	Variant    string
	WallTime   float64 // seconds, timeout-bounded
	TimedOut   bool
	Correct    bool
}

// MedianByPuzzleVariant collapses repeated results for the same
// (puzzle, variant) pair to a single Run holding the median wall
// time, a timed-out flag set if any repetition timed out, and a
// correct flag cleared if any repetition was wrong.
func MedianByPuzzleVariant(results []experiment.Result) []Run {
	type key struct {
		puzzleID int
		variant  string
	}
	groups := make(map[key][]experiment.Result)
	var order []key
	for _, r := range results {
		k := key{puzzleID: r.PuzzleID, variant: r.Variant}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	runs := make([]Run, 0, len(order))
	for _, k := range order {
		reps := groups[k]
		times := make([]float64, len(reps))
		timedOut := false
		correct := true
		for i, r := range reps {
			bounded := r.WallTime.Seconds()
			if r.TimedOut {
				bounded = r.TimeoutLimit.Seconds()
				timedOut = true
			}
			times[i] = bounded
			if !r.Correct {
				correct = false
			}
		}
		runs = append(runs, Run{
			PuzzleID:   k.puzzleID,
			PuzzleSize: reps[0].PuzzleSize,
			Variant:    k.variant,
			WallTime:   median(times),
			TimedOut:   timedOut,
			Correct:    correct,
		})
	}
	return runs
}

// Summary is the median/mean/stddev/timeout-rate profile of one
// variant's wall times, optionally restricted to one puzzle size.
type Summary struct {
	Variant     string
	PuzzleSize  int // 0 means all sizes pooled
	N           int
	Median      float64
	Mean        float64
	StdDev      float64
	TimeoutRate float64
}

// SummarizeByVariant groups runs by variant (pooling all sizes) and
// reports each variant's wall-time profile.
func SummarizeByVariant(runs []Run) []Summary {
	byVariant := make(map[string][]Run)
	var order []string
	for _, r := range runs {
		if _, ok := byVariant[r.Variant]; !ok {
			order = append(order, r.Variant)
		}
		byVariant[r.Variant] = append(byVariant[r.Variant], r)
	}
	sort.Strings(order)

	summaries := make([]Summary, 0, len(order))
	for _, variant := range order {
		summaries = append(summaries, summarize(variant, 0, byVariant[variant]))
	}
	return summaries
}

// SummarizeBySizeAndVariant groups runs by (puzzle size, variant) and
// reports each group's wall-time profile.
func SummarizeBySizeAndVariant(runs []Run) []Summary {
	type key struct {
		size    int
		variant string
	}
	grouped := make(map[key][]Run)
	var order []key
	for _, r := range runs {
		k := key{size: r.PuzzleSize, variant: r.Variant}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], r)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].size != order[j].size {
			return order[i].size < order[j].size
		}
		return order[i].variant < order[j].variant
	})

	summaries := make([]Summary, 0, len(order))
	for _, k := range order {
		summaries = append(summaries, summarize(k.variant, k.size, grouped[k]))
	}
	return summaries
}

func summarize(variant string, size int, runs []Run) Summary {
	times := make([]float64, len(runs))
	timeouts := 0
	for i, r := range runs {
		times[i] = r.WallTime
		if r.TimedOut {
			timeouts++
		}
	}
	return Summary{
		Variant:     variant,
		PuzzleSize:  size,
		N:           len(runs),
		Median:      median(times),
		Mean:        mean(times),
		StdDev:      stddev(times),
		TimeoutRate: float64(timeouts) / float64(len(runs)),
	}
}

// Speedup is a paired comparison of one variant against a baseline
// variant, restricted to puzzles with a run for both variants. Timed-out
// runs are paired too, at their timeout-bounded wall time.
type Speedup struct {
	Baseline      string
	Variant       string
	PuzzleSize    int
	Pairs         int
	MedianSpeedup float64 // baseline time / variant time
	Wins          int     // puzzles where the variant beat the baseline
}

// PairedSpeedup compares variant against baseline for every puzzle
// size present in runs, pairing runs by puzzle ID. A puzzle missing a
// result for either variant at that size is skipped.
func PairedSpeedup(runs []Run, baseline, variant string) []Speedup {
	bySize := make(map[int]map[int]map[string]Run)
	var sizes []int
	for _, r := range runs {
		if r.Variant != baseline && r.Variant != variant {
			continue
		}
		if _, ok := bySize[r.PuzzleSize]; !ok {
			bySize[r.PuzzleSize] = make(map[int]map[string]Run)
			sizes = append(sizes, r.PuzzleSize)
		}
		if _, ok := bySize[r.PuzzleSize][r.PuzzleID]; !ok {
			bySize[r.PuzzleSize][r.PuzzleID] = make(map[string]Run)
		}
		bySize[r.PuzzleSize][r.PuzzleID][r.Variant] = r
	}
	sort.Ints(sizes)

	results := make([]Speedup, 0, len(sizes))
	for _, size := range sizes {
		var ratios []float64
		wins := 0
		for _, byVariant := range bySize[size] {
			base, okB := byVariant[baseline]
			alt, okV := byVariant[variant]
			if !okB || !okV || alt.WallTime <= 0 {
				continue
			}
			ratio := base.WallTime / alt.WallTime
			ratios = append(ratios, ratio)
			if ratio > 1 {
				wins++
			}
		}
		if len(ratios) == 0 {
			continue
		}
		results = append(results, Speedup{
			Baseline:      baseline,
			Variant:       variant,
			PuzzleSize:    size,
			Pairs:         len(ratios),
			MedianSpeedup: median(ratios),
			Wins:          wins,
		})
	}
	return results
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

package encoder

import (
	"testing"

	"github.com/CptPie/DPLL-solver/solver"
)

var allVariantNames = []string{
	solver.VariantBase,
	solver.VariantWatched,
	solver.VariantPreprocessing,
	solver.VariantCombined,
}

// A 1x1 grid has one cell and no neighbors, so every variant must
// find it trivially satisfiable regardless of its (absent) clue.
func TestEncodedSingleCellGridIsSatisfiableAcrossVariants(t *testing.T) {
	grid := emptyGrid(1)
	p, _, err := EncodeGrid(grid)
	if err != nil {
		t.Fatalf("EncodeGrid: %v", err)
	}

	for _, variant := range allVariantNames {
		s, err := solver.NewSolver(variant, p.Clauses, p.NumVars)
		if err != nil {
			t.Fatalf("NewSolver(%s): %v", variant, err)
		}
		status, model := s.Solve()
		if status != solver.Sat {
			t.Fatalf("%s: status = %v, want SAT", variant, status)
		}
		if !model.Satisfies(p) {
			t.Errorf("%s: model %v does not satisfy the encoded formula", variant, model)
		}
	}
}

// A full 4x4 grid (with or without clues) is always UNSAT: a row
// satisfying the non-consecutive constraint must be one of only two
// permutations of {1,2,3,4} ([2,4,1,3] or [3,1,4,2]), so four rows
// cannot all be distinct as a Latin square requires. This is a
// mathematical property of the puzzle, not a solver bug, and every
// variant must agree on it.
func TestEncodedEmptyFourByFourGridIsUnsatAcrossVariants(t *testing.T) {
	grid := emptyGrid(4)
	p, _, err := EncodeGrid(grid)
	if err != nil {
		t.Fatalf("EncodeGrid: %v", err)
	}

	for _, variant := range allVariantNames {
		s, err := solver.NewSolver(variant, p.Clauses, p.NumVars)
		if err != nil {
			t.Fatalf("NewSolver(%s): %v", variant, err)
		}
		status, _ := s.Solve()
		if status != solver.Unsat {
			t.Errorf("%s: status = %v, want UNSAT", variant, status)
		}
	}
}

// Two orthogonally adjacent clues with consecutive values are
// together enough to force UNSAT through straightforward unit
// propagation, well before any search is needed.
func TestEncodedFourByFourGridWithAdjacentConsecutiveCluesIsUnsat(t *testing.T) {
	grid := emptyGrid(4)
	grid[0][0] = 1
	grid[0][1] = 2
	p, _, err := EncodeGrid(grid)
	if err != nil {
		t.Fatalf("EncodeGrid: %v", err)
	}

	for _, variant := range allVariantNames {
		s, err := solver.NewSolver(variant, p.Clauses, p.NumVars)
		if err != nil {
			t.Fatalf("NewSolver(%s): %v", variant, err)
		}
		status, _ := s.Solve()
		if status != solver.Unsat {
			t.Errorf("%s: status = %v, want UNSAT", variant, status)
		}
	}
}

// Package solver implements the four DPLL variants compared by the
// toolkit: BaseDPLL (naive propagation), WatchedLiteralsDPLL
// (two-watched-literal propagation), PreprocessingDPLL (subsumption +
// bounded variable elimination ahead of BaseDPLL search) and
// CombinedDPLL (preprocessing ahead of watched-literal search).
//
// Each variant owns an explicit struct holding its clauses, assignment
// and metrics, with checkpoint-style save/restore for backtracking.
package solver

import (
	"fmt"

	"github.com/CptPie/DPLL-solver/cnf"
)

// Status is the outcome of a solve: satisfiable or not.
type Status int

const (
	Unsat Status = iota
	Sat
)

func (s Status) String() string {
	if s == Sat {
		return "SAT"
	}
	return "UNSAT"
}

// Solver is the common API every variant implements: solve once, read
// the resulting metrics. Solve is not reentrant and each Solver
// instance owns all of its mutable state, so instances are never
// shared across concurrent solves.
type Solver interface {
	Solve() (Status, cnf.Model)
	Metrics() cnf.Metrics
}

// Variant names accepted by NewSolver.
const (
	VariantBase          = "base"
	VariantWatched       = "watched"
	VariantPreprocessing = "preprocessing"
	VariantCombined      = "combined"
)

// NewSolver maps a variant identifier to the corresponding solver
// constructor. Unknown identifiers fail with cnf.ErrInvalidVariant.
func NewSolver(variant string, clauses []cnf.Clause, numVars int) (Solver, error) {
	switch variant {
	case VariantBase:
		return NewBaseDPLL(clauses, numVars), nil
	case VariantWatched:
		return NewWatchedLiteralsDPLL(clauses, numVars), nil
	case VariantPreprocessing:
		return NewPreprocessingDPLL(clauses, numVars), nil
	case VariantCombined:
		return NewCombinedDPLL(clauses, numVars), nil
	default:
		return nil, fmt.Errorf("%w: %q (choose from %q, %q, %q, %q)", cnf.ErrInvalidVariant, variant,
			VariantBase, VariantWatched, VariantPreprocessing, VariantCombined)
	}
}

// cloneClauses returns an independent copy of clauses, since
// preprocessing stages must not mutate clause sets shared with their
// caller.
func cloneClauses(clauses []cnf.Clause) []cnf.Clause {
	out := make([]cnf.Clause, len(clauses))
	for i, c := range clauses {
		cp := make(cnf.Clause, len(c))
		copy(cp, c)
		out[i] = cp
	}
	return out
}

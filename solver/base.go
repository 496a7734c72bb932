package solver

import (
	"sort"

	"github.com/CptPie/DPLL-solver/cnf"
)

// BaseDPLL is the baseline variant: naive unit propagation that
// rescans every remaining clause each pass, pure-literal elimination,
// and DLIS branching.
type BaseDPLL struct {
	numVars int
	clauses []cnf.Clause
	metrics cnf.Metrics
	model   cnf.Model
}

// NewBaseDPLL constructs a BaseDPLL solver over clauses. The solver
// does not mutate the given slice; it copies it on construction.
func NewBaseDPLL(clauses []cnf.Clause, numVars int) *BaseDPLL {
	return &BaseDPLL{
		numVars: numVars,
		clauses: cloneClauses(clauses),
	}
}

func (s *BaseDPLL) Metrics() cnf.Metrics { return s.metrics }

// Solve runs the recursive DPLL search and returns SAT with a total
// model, or UNSAT.
func (s *BaseDPLL) Solve() (Status, cnf.Model) {
	return s.solve(cnf.NewAssignment(s.numVars))
}

// SolveFrom runs the search seeded with an initial partial assignment,
// used by PreprocessingDPLL to delegate search after its own passes
// have forced some variables.
func (s *BaseDPLL) SolveFrom(initial cnf.Assignment) (Status, cnf.Model) {
	return s.solve(initial)
}

func (s *BaseDPLL) solve(initial cnf.Assignment) (Status, cnf.Model) {
	s.metrics.Reset()
	final, ok := s.dpll(s.clauses, initial)
	if !ok {
		return Unsat, nil
	}
	s.model = cnf.ToModel(final, s.numVars)
	return Sat, s.model
}

// dpll recurses over the remaining clause set and assignment. It
// never mutates its inputs: each step produces (and passes down) a new
// clause slice and assignment clone, mirroring the reference
// implementation's copy-on-recurse semantics.
func (s *BaseDPLL) dpll(clauses []cnf.Clause, assignment cnf.Assignment) (cnf.Assignment, bool) {
	clauses, assignment, ok := s.unitPropagate(clauses, assignment)
	if !ok {
		s.metrics.Conflicts++
		return assignment, false
	}

	if len(clauses) == 0 {
		return assignment, true
	}

	if lit, found := findPureLiteral(clauses); found {
		// Pure-literal assignment preserves satisfiability and is not
		// itself a decision; it must not perturb branching counts.
		next := assignment.Clone()
		next.Set(lit.Var(), lit.Positive())
		return s.dpll(assignLiteral(clauses, lit), next)
	}

	v := chooseVariable(clauses)
	s.metrics.Decisions++

	posAssignment := assignment.Clone()
	posAssignment.Set(v, true)
	if result, ok := s.dpll(assignLiteral(clauses, cnf.Literal(v)), posAssignment); ok {
		return result, true
	}

	s.metrics.Backtracks++
	negAssignment := assignment.Clone()
	negAssignment.Set(v, false)
	return s.dpll(assignLiteral(clauses, cnf.Literal(-v)), negAssignment)
}

// unitPropagate repeatedly resolves unit clauses until none remain or
// a conflict is found. It scans the full clause set on each pass,
// deliberately the naive strategy BaseDPLL is meant to embody.
func (s *BaseDPLL) unitPropagate(clauses []cnf.Clause, assignment cnf.Assignment) ([]cnf.Clause, cnf.Assignment, bool) {
	assignment = assignment.Clone()
	for {
		unitIdx := -1
		for i, c := range clauses {
			if c.IsUnit() {
				unitIdx = i
				break
			}
		}
		if unitIdx == -1 {
			return clauses, assignment, true
		}

		lit := clauses[unitIdx][0]
		v := lit.Var()
		if assignment.Assigned(v) {
			if assignment.Value(v) != lit.Positive() {
				return nil, assignment, false
			}
			// Already satisfied; drop the redundant unit clause and
			// keep scanning.
			clauses = removeClauseAt(clauses, unitIdx)
			continue
		}

		assignment.Set(v, lit.Positive())
		s.metrics.UnitPropagations++
		clauses = assignLiteral(clauses, lit)

		for _, c := range clauses {
			if len(c) == 0 {
				return nil, assignment, false
			}
		}
	}
}

// assignLiteral removes clauses satisfied by lit and strips lit's
// negation from the remaining clauses. It allocates a new slice and
// never mutates the input.
func assignLiteral(clauses []cnf.Clause, lit cnf.Literal) []cnf.Clause {
	out := make([]cnf.Clause, 0, len(clauses))
	for _, c := range clauses {
		if containsLiteral(c, lit) {
			continue
		}
		out = append(out, removeLiteral(c, lit.Negate()))
	}
	return out
}

func containsLiteral(c cnf.Clause, lit cnf.Literal) bool {
	for _, l := range c {
		if l == lit {
			return true
		}
	}
	return false
}

func removeLiteral(c cnf.Clause, lit cnf.Literal) cnf.Clause {
	out := make(cnf.Clause, 0, len(c))
	for _, l := range c {
		if l != lit {
			out = append(out, l)
		}
	}
	return out
}

func removeClauseAt(clauses []cnf.Clause, idx int) []cnf.Clause {
	out := make([]cnf.Clause, 0, len(clauses)-1)
	out = append(out, clauses[:idx]...)
	out = append(out, clauses[idx+1:]...)
	return out
}

// findPureLiteral returns a literal whose variable occurs in only one
// polarity across clauses, if any exists.
func findPureLiteral(clauses []cnf.Clause) (cnf.Literal, bool) {
	positive := make(map[int]bool)
	negative := make(map[int]bool)
	for _, c := range clauses {
		for _, l := range c {
			if l.Positive() {
				positive[l.Var()] = true
			} else {
				negative[l.Var()] = true
			}
		}
	}

	vars := make([]int, 0, len(positive)+len(negative))
	seen := make(map[int]bool)
	for v := range positive {
		vars = append(vars, v)
		seen[v] = true
	}
	for v := range negative {
		if !seen[v] {
			vars = append(vars, v)
		}
	}
	sort.Ints(vars)

	for _, v := range vars {
		if positive[v] && !negative[v] {
			return cnf.Literal(v), true
		}
		if negative[v] && !positive[v] {
			return cnf.Literal(-v), true
		}
	}
	return 0, false
}

// chooseVariable implements DLIS: the variable whose most frequent
// literal has the highest occurrence count across clauses. Ties break
// by ascending literal value, giving a deterministic, reproducible
// choice across runs.
func chooseVariable(clauses []cnf.Clause) int {
	counts := make(map[cnf.Literal]int)
	for _, c := range clauses {
		for _, l := range c {
			counts[l]++
		}
	}
	if len(counts) == 0 {
		return 1
	}

	lits := make([]cnf.Literal, 0, len(counts))
	for l := range counts {
		lits = append(lits, l)
	}
	sort.Slice(lits, func(i, j int) bool { return lits[i] < lits[j] })

	best := lits[0]
	for _, l := range lits[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best.Var()
}

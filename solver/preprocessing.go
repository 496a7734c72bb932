package solver

import (
	"sort"

	"github.com/CptPie/DPLL-solver/cnf"
)

// defaultMaxNewClauses bounds bounded variable elimination: a variable
// is eliminated only if doing so would add at most this many
// resolvents.
const defaultMaxNewClauses = 10

// PreprocessingDPLL runs a four-pass pipeline (exhaustive unit
// propagation, pure-literal elimination, subsumption elimination,
// bounded variable elimination) before delegating search to BaseDPLL
// on the reduced problem.
type PreprocessingDPLL struct {
	numVars       int
	clauses       []cnf.Clause
	metrics       cnf.Metrics
	assignment    cnf.Assignment
	model         cnf.Model
	maxNewClauses int

	// VarsEliminated and ClausesEliminated are preprocessing-specific
	// statistics, separate from the four core solver counters.
	VarsEliminated    int
	ClausesEliminated int

	// eliminated records, for each variable bounded variable
	// elimination removed, the original clauses it appeared in. Once
	// the reduced formula is solved, backSubstitute recovers a
	// consistent value for every eliminated variable from these.
	eliminated []eliminatedVar
}

// eliminatedVar is one bounded-variable-elimination step: the variable
// removed and the clauses that mentioned it before resolution.
type eliminatedVar struct {
	variable int
	clauses  []cnf.Clause
}

// NewPreprocessingDPLL constructs a PreprocessingDPLL solver with the
// default bounded-variable-elimination threshold.
func NewPreprocessingDPLL(clauses []cnf.Clause, numVars int) *PreprocessingDPLL {
	return &PreprocessingDPLL{
		numVars:       numVars,
		clauses:       cloneClauses(clauses),
		maxNewClauses: defaultMaxNewClauses,
	}
}

func (s *PreprocessingDPLL) Metrics() cnf.Metrics { return s.metrics }

func (s *PreprocessingDPLL) Solve() (Status, cnf.Model) {
	s.metrics.Reset()
	s.VarsEliminated, s.ClausesEliminated = 0, 0

	remaining, assignment, ok := s.preprocess(s.clauses)
	if !ok {
		return Unsat, nil
	}
	s.assignment = assignment

	if len(remaining) == 0 {
		model := cnf.ToModel(assignment, s.numVars)
		backSubstitute(s.eliminated, model)
		s.model = model
		return Sat, s.model
	}

	base := NewBaseDPLL(remaining, s.numVars)
	status, model := base.SolveFrom(assignment)
	s.metrics.Merge(base.Metrics())
	if status == Sat {
		backSubstitute(s.eliminated, model)
	}
	s.model = model
	return status, model
}

// preprocess runs the four passes in order, returning the reduced
// clause set and the assignment forced so far, or ok=false on UNSAT.
func (s *PreprocessingDPLL) preprocess(clauses []cnf.Clause) ([]cnf.Clause, cnf.Assignment, bool) {
	assignment := cnf.NewAssignment(s.numVars)

	clauses, ok := s.exhaustiveUnitPropagation(clauses, assignment)
	if !ok {
		return nil, assignment, false
	}

	clauses = s.pureLiteralElimination(clauses, assignment)
	clauses = s.subsumptionElimination(clauses)

	clauses, ok = s.boundedVariableElimination(clauses, assignment)
	if !ok {
		return nil, assignment, false
	}

	return clauses, assignment, true
}

// exhaustiveUnitPropagation resolves every unit clause to a fixpoint
// over the full clause set, folding forced assignments into
// assignment in place.
func (s *PreprocessingDPLL) exhaustiveUnitPropagation(clauses []cnf.Clause, assignment cnf.Assignment) ([]cnf.Clause, bool) {
	for {
		unitIdx := -1
		for i, c := range clauses {
			if c.IsUnit() {
				unitIdx = i
				break
			}
		}
		if unitIdx == -1 {
			return clauses, true
		}

		lit := clauses[unitIdx][0]
		v := lit.Var()
		if assignment.Assigned(v) {
			if assignment.Value(v) != lit.Positive() {
				s.metrics.Conflicts++
				return nil, false
			}
			clauses = removeClauseAt(clauses, unitIdx)
			continue
		}

		assignment.Set(v, lit.Positive())
		s.metrics.UnitPropagations++
		clauses = assignLiteral(clauses, lit)

		for _, c := range clauses {
			if len(c) == 0 {
				s.metrics.Conflicts++
				return nil, false
			}
		}
	}
}

// pureLiteralElimination assigns every variable that occurs in only
// one polarity across clauses and removes the clauses it satisfies.
func (s *PreprocessingDPLL) pureLiteralElimination(clauses []cnf.Clause, assignment cnf.Assignment) []cnf.Clause {
	for {
		lit, found := findPureLiteral(clauses)
		if !found {
			return clauses
		}
		assignment.Set(lit.Var(), lit.Positive())
		clauses = assignLiteral(clauses, lit)
	}
}

// subsumptionElimination removes every clause that is strictly
// subsumed by some other clause (C2 subsumes C1 iff C2's literal set
// is a proper subset of C1's). Clauses with identical literal sets are
// never considered subsumed by each other.
func (s *PreprocessingDPLL) subsumptionElimination(clauses []cnf.Clause) []cnf.Clause {
	sets := make([]map[cnf.Literal]bool, len(clauses))
	for i, c := range clauses {
		sets[i] = literalSet(c)
	}

	keep := make([]cnf.Clause, 0, len(clauses))
	for i := range clauses {
		subsumed := false
		for j := range clauses {
			if i == j {
				continue
			}
			if len(sets[j]) < len(sets[i]) && isSubset(sets[j], sets[i]) {
				subsumed = true
				s.ClausesEliminated++
				break
			}
		}
		if !subsumed {
			keep = append(keep, clauses[i])
		}
	}
	return keep
}

func literalSet(c cnf.Clause) map[cnf.Literal]bool {
	m := make(map[cnf.Literal]bool, len(c))
	for _, l := range c {
		m[l] = true
	}
	return m
}

func isSubset(small, big map[cnf.Literal]bool) bool {
	for l := range small {
		if !big[l] {
			return false
		}
	}
	return true
}

// boundedVariableElimination removes clauses mentioning a variable v
// and replaces them with their non-tautological resolvents, as long
// as doing so produces at most maxNewClauses resolvents. An empty
// resolvent is a conflict and forces UNSAT rather than being silently
// dropped.
func (s *PreprocessingDPLL) boundedVariableElimination(clauses []cnf.Clause, assignment cnf.Assignment) ([]cnf.Clause, bool) {
	candidates := make([]int, 0, s.numVars)
	for v := 1; v <= s.numVars; v++ {
		candidates = append(candidates, v)
	}
	sort.Ints(candidates)

	for _, v := range candidates {
		if assignment.Assigned(v) {
			continue
		}

		var posIdx, negIdx []int
		for i, c := range clauses {
			for _, l := range c {
				if l.Var() != v {
					continue
				}
				if l.Positive() {
					posIdx = append(posIdx, i)
				} else {
					negIdx = append(negIdx, i)
				}
				break
			}
		}

		if len(posIdx) == 0 || len(negIdx) == 0 {
			continue
		}
		if len(posIdx)*len(negIdx) > s.maxNewClauses {
			continue
		}

		remove := make(map[int]bool, len(posIdx)+len(negIdx))
		for _, i := range posIdx {
			remove[i] = true
		}
		for _, i := range negIdx {
			remove[i] = true
		}

		var resolvents []cnf.Clause
		for _, pi := range posIdx {
			for _, ni := range negIdx {
				resolvent, ok := resolve(clauses[pi], clauses[ni], v)
				if !ok {
					continue // tautology, drop
				}
				if len(resolvent) == 0 {
					s.metrics.Conflicts++
					return nil, false // empty resolvent: UNSAT
				}
				resolvents = append(resolvents, resolvent)
			}
		}

		removedClauses := make([]cnf.Clause, 0, len(remove))
		next := make([]cnf.Clause, 0, len(clauses)-len(remove)+len(resolvents))
		for i, c := range clauses {
			if remove[i] {
				removedClauses = append(removedClauses, c)
			} else {
				next = append(next, c)
			}
		}
		next = append(next, resolvents...)
		clauses = next
		s.VarsEliminated++
		s.eliminated = append(s.eliminated, eliminatedVar{variable: v, clauses: removedClauses})
	}

	return clauses, true
}

// backSubstitute recovers a value for every variable bounded variable
// elimination removed, in reverse elimination order so that a
// variable's own removed clauses only ever reference variables already
// fixed in model. For each removed clause, if the other literals don't
// already satisfy it, the clause's literal on the eliminated variable
// fixes that variable's polarity; a clause satisfied independently of
// the eliminated variable imposes no constraint.
func backSubstitute(eliminated []eliminatedVar, model cnf.Model) {
	for i := len(eliminated) - 1; i >= 0; i-- {
		ev := eliminated[i]
		value := true
		for _, c := range ev.clauses {
			var ownLit cnf.Literal
			satisfied := false
			for _, l := range c {
				if l.Var() == ev.variable {
					ownLit = l
					continue
				}
				if idx := l.Var() - 1; idx < len(model) {
					if (model[idx] > 0) == l.Positive() {
						satisfied = true
					}
				}
			}
			if !satisfied {
				value = ownLit.Positive()
			}
		}
		if value {
			model[ev.variable-1] = ev.variable
		} else {
			model[ev.variable-1] = -ev.variable
		}
	}
}

// resolve computes the resolvent of clauses containing +v and -v on
// variable v: (pos \ {v}) ∪ (neg \ {-v}), deduplicated. The second
// return value is false if the resolvent is a tautology (x and -x both
// present), which must be discarded rather than added.
func resolve(pos, neg cnf.Clause, v int) (cnf.Clause, bool) {
	set := make(map[cnf.Literal]bool, len(pos)+len(neg))
	for _, l := range pos {
		if l.Var() != v {
			set[l] = true
		}
	}
	for _, l := range neg {
		if l.Var() != v {
			set[l] = true
		}
	}
	for l := range set {
		if set[l.Negate()] {
			return nil, false
		}
	}

	out := make(cnf.Clause, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, true
}

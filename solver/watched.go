package solver

import (
	"sort"

	"github.com/CptPie/DPLL-solver/cnf"
)

// clauseState classifies a clause under the current partial
// assignment.
type clauseState int

const (
	stateSatisfied clauseState = iota
	stateUnit
	stateConflicting
	stateUnresolved
)

// WatchedLiteralsDPLL propagates via two watched literals per clause
// and an inverted literal -> clause-index index. For chronological
// backtracking it copies the whole assignment before each decision and
// restores that copy on failure.
//
// Watches are never moved off a falsified literal; the clauses that
// watch it are simply re-examined, which keeps the observable
// propagation contract identical to a watch-advancing implementation.
type WatchedLiteralsDPLL struct {
	numVars int
	clauses []cnf.Clause
	watches map[cnf.Literal][]int

	assignment cnf.Assignment
	metrics    cnf.Metrics
	model      cnf.Model
}

// NewWatchedLiteralsDPLL constructs a WatchedLiteralsDPLL solver and
// initializes its watch lists.
func NewWatchedLiteralsDPLL(clauses []cnf.Clause, numVars int) *WatchedLiteralsDPLL {
	s := &WatchedLiteralsDPLL{
		numVars: numVars,
		clauses: cloneClauses(clauses),
		watches: make(map[cnf.Literal][]int),
	}
	for idx, c := range s.clauses {
		if len(c) >= 1 {
			s.watches[c[0]] = append(s.watches[c[0]], idx)
		}
		if len(c) >= 2 {
			s.watches[c[1]] = append(s.watches[c[1]], idx)
		}
	}
	return s
}

func (s *WatchedLiteralsDPLL) Metrics() cnf.Metrics { return s.metrics }

func (s *WatchedLiteralsDPLL) Solve() (Status, cnf.Model) {
	return s.solve(cnf.NewAssignment(s.numVars))
}

// SolveFrom runs the search seeded with an initial partial assignment,
// used by CombinedDPLL to delegate search after preprocessing.
func (s *WatchedLiteralsDPLL) SolveFrom(initial cnf.Assignment) (Status, cnf.Model) {
	return s.solve(initial)
}

func (s *WatchedLiteralsDPLL) solve(initial cnf.Assignment) (Status, cnf.Model) {
	s.metrics.Reset()
	s.assignment = initial
	if !s.dpll() {
		return Unsat, nil
	}
	s.model = cnf.ToModel(s.assignment, s.numVars)
	return Sat, s.model
}

// dpll is the decision-node state machine: propagate, then branch
// true-first, restoring and flipping to false on failure, restoring
// again before reporting failure upward.
func (s *WatchedLiteralsDPLL) dpll() bool {
	if !s.propagate() {
		s.metrics.Conflicts++
		return false
	}

	v := s.chooseVariable()
	if v == 0 {
		// No unresolved clause remains: the assignment extends to any
		// total assignment.
		return true
	}
	s.metrics.Decisions++

	saved := s.assignment.Clone()
	s.assignment.Set(v, true)
	if s.dpll() {
		return true
	}

	s.assignment = saved.Clone()
	s.metrics.Backtracks++
	s.assignment.Set(v, false)
	if s.dpll() {
		return true
	}

	s.assignment = saved
	return false
}

// classify returns the clause's current state and, if it is unit, the
// sole unassigned literal.
func (s *WatchedLiteralsDPLL) classify(c cnf.Clause) (clauseState, cnf.Literal) {
	unassignedCount := 0
	var unitLit cnf.Literal
	for _, l := range c {
		v := l.Var()
		if s.assignment.Assigned(v) {
			if s.assignment.Value(v) == l.Positive() {
				return stateSatisfied, 0
			}
		} else {
			unassignedCount++
			unitLit = l
		}
	}
	if unassignedCount == 0 {
		return stateConflicting, 0
	}
	if unassignedCount == 1 {
		return stateUnit, unitLit
	}
	return stateUnresolved, 0
}

// propagate seeds a queue with every currently unit clause and drains
// it, assigning forced literals and enqueueing clauses that watch the
// newly falsified literal, per the propagation contract.
func (s *WatchedLiteralsDPLL) propagate() bool {
	queue := make([]int, 0, len(s.clauses))
	for idx, c := range s.clauses {
		state, _ := s.classify(c)
		if state == stateConflicting {
			return false
		}
		if state == stateUnit {
			queue = append(queue, idx)
		}
	}

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		state, lit := s.classify(s.clauses[idx])
		switch state {
		case stateSatisfied, stateUnresolved:
			continue
		case stateConflicting:
			return false
		case stateUnit:
			v := lit.Var()
			if s.assignment.Assigned(v) {
				if s.assignment.Value(v) != lit.Positive() {
					return false
				}
				continue
			}
			s.assignment.Set(v, lit.Positive())
			s.metrics.UnitPropagations++

			falsified := lit.Negate()
			for _, watcher := range s.watches[falsified] {
				wState, _ := s.classify(s.clauses[watcher])
				if wState == stateUnit || wState == stateConflicting {
					queue = append(queue, watcher)
				}
			}
		}
	}
	return true
}

// chooseVariable implements DLIS over unassigned literals in clauses
// that are not yet satisfied. Returns 0 if no unresolved clause
// remains.
func (s *WatchedLiteralsDPLL) chooseVariable() int {
	counts := make(map[int]int)
	for _, c := range s.clauses {
		satisfied := false
		for _, l := range c {
			if s.assignment.Satisfies(l) {
				satisfied = true
				break
			}
		}
		if satisfied {
			continue
		}
		for _, l := range c {
			if !s.assignment.Assigned(l.Var()) {
				counts[l.Var()]++
			}
		}
	}
	if len(counts) == 0 {
		return 0
	}

	vars := make([]int, 0, len(counts))
	for v := range counts {
		vars = append(vars, v)
	}
	sort.Ints(vars)

	best := vars[0]
	for _, v := range vars[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

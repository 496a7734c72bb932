package solver

import (
	"testing"

	"github.com/CptPie/DPLL-solver/cnf"
)

func TestWatchedLiteralsClassify(t *testing.T) {
	s := NewWatchedLiteralsDPLL([]cnf.Clause{{1, 2, 3}}, 3)
	s.assignment = cnf.NewAssignment(3)

	if state, _ := s.classify(cnf.Clause{1, 2, 3}); state != stateUnresolved {
		t.Errorf("unresolved clause classified as %v", state)
	}

	s.assignment.Set(1, true)
	if state, _ := s.classify(cnf.Clause{1, 2, 3}); state != stateSatisfied {
		t.Errorf("satisfied clause classified as %v", state)
	}

	s.assignment = cnf.NewAssignment(3)
	s.assignment.Set(1, false)
	s.assignment.Set(2, false)
	if state, lit := s.classify(cnf.Clause{1, 2, 3}); state != stateUnit || lit != 3 {
		t.Errorf("classify() = (%v, %v), want (stateUnit, 3)", state, lit)
	}

	s.assignment.Set(3, false)
	if state, _ := s.classify(cnf.Clause{1, 2, 3}); state != stateConflicting {
		t.Errorf("falsified clause classified as %v", state)
	}
}

func TestWatchedLiteralsPropagateDetectsConflict(t *testing.T) {
	s := NewWatchedLiteralsDPLL([]cnf.Clause{{1}, {-1}}, 1)
	s.assignment = cnf.NewAssignment(1)
	if s.propagate() {
		t.Error("propagate() = true for a directly contradictory unit pair, want false")
	}
}

func TestWatchedLiteralsAgreesWithBaseOnSat(t *testing.T) {
	clauses := []cnf.Clause{{1, 2, 3}, {-1, 2}, {-2, 3}, {-3, 1}, {1, -2, -3}}
	base := NewBaseDPLL(clauses, 3)
	watched := NewWatchedLiteralsDPLL(clauses, 3)

	baseStatus, _ := base.Solve()
	watchedStatus, model := watched.Solve()

	if baseStatus != watchedStatus {
		t.Fatalf("BaseDPLL = %v, WatchedLiteralsDPLL = %v, want agreement", baseStatus, watchedStatus)
	}
	if watchedStatus == Sat {
		p := cnf.Problem{Clauses: clauses, NumVars: 3}
		if !cnf.Model(model).Satisfies(p) {
			t.Errorf("watched model %v does not satisfy the formula", model)
		}
	}
}

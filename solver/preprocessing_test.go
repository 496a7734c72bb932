package solver

import (
	"testing"

	"github.com/CptPie/DPLL-solver/cnf"
)

func TestSubsumptionEliminationRemovesSuperset(t *testing.T) {
	s := &PreprocessingDPLL{}
	clauses := []cnf.Clause{{1, 2, 3}, {1, 2}}
	kept := s.subsumptionElimination(clauses)

	if len(kept) != 1 {
		t.Fatalf("kept %d clauses, want 1: %v", len(kept), kept)
	}
	if len(kept[0]) != 2 {
		t.Errorf("surviving clause = %v, want the 2-literal {1,2}", kept[0])
	}
	if s.ClausesEliminated != 1 {
		t.Errorf("ClausesEliminated = %d, want 1", s.ClausesEliminated)
	}
}

func TestSubsumptionEliminationKeepsEqualSizeClauses(t *testing.T) {
	s := &PreprocessingDPLL{}
	clauses := []cnf.Clause{{1, 2}, {1, -2}}
	kept := s.subsumptionElimination(clauses)
	if len(kept) != 2 {
		t.Errorf("kept %d clauses, want 2 (neither subsumes the other)", len(kept))
	}
}

func TestResolveDetectsTautology(t *testing.T) {
	_, ok := resolve(cnf.Clause{1, 2}, cnf.Clause{-1, -2}, 1)
	if ok {
		t.Error("resolve() = ok for a tautological resolvent, want !ok")
	}
}

func TestResolveProducesExpectedClause(t *testing.T) {
	got, ok := resolve(cnf.Clause{1, 2}, cnf.Clause{-1, 3}, 1)
	if !ok {
		t.Fatal("resolve() = !ok, want a valid resolvent")
	}
	want := map[cnf.Literal]bool{2: true, 3: true}
	if len(got) != len(want) {
		t.Fatalf("resolve() = %v, want literals %v", got, want)
	}
	for _, l := range got {
		if !want[l] {
			t.Errorf("resolve() contains unexpected literal %v", l)
		}
	}
}

func TestBoundedVariableEliminationEmptyResolventIsUnsat(t *testing.T) {
	s := NewPreprocessingDPLL([]cnf.Clause{{1}, {-1}}, 1)
	assignment := cnf.NewAssignment(1)
	_, ok := s.boundedVariableElimination([]cnf.Clause{{1}, {-1}}, assignment)
	if ok {
		t.Error("boundedVariableElimination() = ok for an empty resolvent, want !ok (UNSAT)")
	}
}

func TestPreprocessingDPLLSolvesByPropagationAlone(t *testing.T) {
	clauses := []cnf.Clause{{1}, {-1, 2}, {-2, 3}, {-3, 4}}
	s := NewPreprocessingDPLL(clauses, 4)
	status, model := s.Solve()
	if status != Sat {
		t.Fatalf("status = %v, want SAT", status)
	}
	want := cnf.Model{1, 2, 3, 4}
	for i, v := range want {
		if model[i] != v {
			t.Errorf("model[%d] = %d, want %d", i, model[i], v)
		}
	}
}

func TestPreprocessingDPLLUnsatOnContradiction(t *testing.T) {
	s := NewPreprocessingDPLL([]cnf.Clause{{1}, {-1}}, 1)
	status, _ := s.Solve()
	if status != Unsat {
		t.Errorf("status = %v, want UNSAT", status)
	}
	if s.Metrics().Conflicts < 1 {
		t.Errorf("Conflicts = %d, want >= 1 (preprocessing's own unit propagation found the contradiction)", s.Metrics().Conflicts)
	}
}

// TestPreprocessingDPLLModelValidAfterVariableElimination guards
// against a back-substitution regression: once bounded variable
// elimination removes a variable from the clause set entirely, the
// returned model must still satisfy every original clause, including
// the ones that mentioned the eliminated variable.
func TestPreprocessingDPLLModelValidAfterVariableElimination(t *testing.T) {
	clauses := []cnf.Clause{{1, 2}, {-1, 2}, {1, -2}}
	s := NewPreprocessingDPLL(clauses, 2)
	status, model := s.Solve()
	if status != Sat {
		t.Fatalf("status = %v, want SAT", status)
	}
	if s.VarsEliminated == 0 {
		t.Fatal("test setup expected at least one variable elimination")
	}
	p := cnf.Problem{Clauses: clauses, NumVars: 2}
	if !cnf.Model(model).Satisfies(p) {
		t.Errorf("model %v does not satisfy the formula after eliminating a variable", model)
	}
}

package cnf

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLiteralVarAndPolarity(t *testing.T) {
	cases := []struct {
		lit      Literal
		wantVar  int
		wantPos  bool
		wantNeg  Literal
	}{
		{Literal(3), 3, true, Literal(-3)},
		{Literal(-3), 3, false, Literal(3)},
		{Literal(1), 1, true, Literal(-1)},
	}
	for _, c := range cases {
		if got := c.lit.Var(); got != c.wantVar {
			t.Errorf("Literal(%d).Var() = %d, want %d", c.lit, got, c.wantVar)
		}
		if got := c.lit.Positive(); got != c.wantPos {
			t.Errorf("Literal(%d).Positive() = %v, want %v", c.lit, got, c.wantPos)
		}
		if got := c.lit.Negate(); got != c.wantNeg {
			t.Errorf("Literal(%d).Negate() = %d, want %d", c.lit, got, c.wantNeg)
		}
	}
}

func TestClauseIsUnit(t *testing.T) {
	if !(Clause{Literal(1)}).IsUnit() {
		t.Error("single-literal clause should be unit")
	}
	if (Clause{Literal(1), Literal(2)}).IsUnit() {
		t.Error("two-literal clause should not be unit")
	}
}

func TestClauseIsTautology(t *testing.T) {
	if !(Clause{Literal(1), Literal(-1), Literal(2)}).IsTautology() {
		t.Error("clause containing x and -x should be a tautology")
	}
	if (Clause{Literal(1), Literal(2)}).IsTautology() {
		t.Error("clause without complementary literals should not be a tautology")
	}
}

func TestProblemVerify(t *testing.T) {
	good := Problem{Clauses: []Clause{{1, -2}, {2, 3}}, NumVars: 3}
	if err := good.Verify(); err != nil {
		t.Fatalf("Verify() on valid problem: %v", err)
	}

	outOfRange := Problem{Clauses: []Clause{{1, 4}}, NumVars: 3}
	if err := outOfRange.Verify(); !errors.Is(err, ErrInternalInvariant) {
		t.Errorf("Verify() on out-of-range literal = %v, want ErrInternalInvariant", err)
	}

	zeroLit := Problem{Clauses: []Clause{{0}}, NumVars: 3}
	if err := zeroLit.Verify(); !errors.Is(err, ErrInternalInvariant) {
		t.Errorf("Verify() on zero literal = %v, want ErrInternalInvariant", err)
	}

	badNumVars := Problem{Clauses: nil, NumVars: 0}
	if err := badNumVars.Verify(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Verify() on zero NumVars = %v, want ErrInvalidInput", err)
	}
}

func TestAssignmentSetUnsetClone(t *testing.T) {
	a := NewAssignment(3)
	if a.Assigned(1) {
		t.Fatal("fresh assignment should have no assigned variables")
	}
	a.Set(1, true)
	a.Set(2, false)
	if !a.Assigned(1) || !a.Value(1) {
		t.Error("variable 1 should be assigned true")
	}
	if !a.Assigned(2) || a.Value(2) {
		t.Error("variable 2 should be assigned false")
	}

	clone := a.Clone()
	clone.Set(3, true)
	if a.Assigned(3) {
		t.Error("mutating a clone must not affect the original assignment")
	}

	a.Unset(1)
	if a.Assigned(1) {
		t.Error("Unset should clear the assignment")
	}
}

func TestAssignmentSatisfiesFalsifies(t *testing.T) {
	a := NewAssignment(2)
	a.Set(1, true)
	if !a.Satisfies(Literal(1)) {
		t.Error("positive literal of a true variable should be satisfied")
	}
	if !a.Falsifies(Literal(-1)) {
		t.Error("negative literal of a true variable should be falsified")
	}
	if a.Satisfies(Literal(2)) || a.Falsifies(Literal(2)) {
		t.Error("unassigned variable's literal should be neither satisfied nor falsified")
	}
}

func TestToModelAndSatisfies(t *testing.T) {
	a := NewAssignment(3)
	a.Set(1, true)
	a.Set(2, false)
	// variable 3 left unassigned -> defaults to false in the model.
	m := ToModel(a, 3)
	want := Model{1, -2, -3}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("ToModel() mismatch (-want +got):\n%s", diff)
	}

	p := Problem{Clauses: []Clause{{1, 2}, {-2, -3}}, NumVars: 3}
	if !m.Satisfies(p) {
		t.Error("model should satisfy the problem")
	}

	unsatP := Problem{Clauses: []Clause{{2}}, NumVars: 3}
	if m.Satisfies(unsatP) {
		t.Error("model should not satisfy a clause requiring variable 2 true")
	}
}

func TestMetricsResetAndMerge(t *testing.T) {
	m := Metrics{Decisions: 1, Backtracks: 2, UnitPropagations: 3, Conflicts: 4}
	m.Reset()
	if m != (Metrics{}) {
		t.Errorf("Reset() should zero all counters, got %+v", m)
	}

	m.Merge(Metrics{Decisions: 1, Backtracks: 1, UnitPropagations: 1, Conflicts: 1})
	m.Merge(Metrics{Decisions: 2})
	want := Metrics{Decisions: 3, Backtracks: 1, UnitPropagations: 1, Conflicts: 1}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

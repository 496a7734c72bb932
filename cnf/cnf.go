// Package cnf defines the data model shared by the encoder and every
// solver variant: literals, clauses, problems, partial assignments,
// models and the four solver counters.
package cnf

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to callers. Solver-internal conflicts and
// backtracks are never reported through these; they are ordinary
// control flow.
var (
	ErrInvalidInput      = errors.New("cnf: invalid input")
	ErrInvalidVariant    = errors.New("cnf: invalid solver variant")
	ErrInternalInvariant = errors.New("cnf: internal invariant violated")
)

// Literal is a nonzero signed integer. Its absolute value is the
// variable index (1-based); its sign is the polarity.
type Literal int

// Var returns the 1-based variable index of l.
func (l Literal) Var() int {
	if l < 0 {
		return int(-l)
	}
	return int(l)
}

// Positive reports whether l is the positive polarity of its variable.
func (l Literal) Positive() bool {
	return l > 0
}

// Negate returns the opposite-polarity literal for the same variable.
func (l Literal) Negate() Literal {
	return -l
}

func (l Literal) String() string {
	if l < 0 {
		return fmt.Sprintf("-%d", -l)
	}
	return fmt.Sprintf("%d", l)
}

// Clause is an ordered, finite sequence of distinct literals. An empty
// Clause denotes falsity. A Clause with exactly one literal is a unit
// clause.
type Clause []Literal

// IsUnit reports whether c has exactly one literal.
func (c Clause) IsUnit() bool {
	return len(c) == 1
}

// IsTautology reports whether c contains both a literal and its
// negation. The encoder never emits tautologies, but solvers must
// tolerate them if present.
func (c Clause) IsTautology() bool {
	seen := make(map[Literal]bool, len(c))
	for _, l := range c {
		if seen[l.Negate()] {
			return true
		}
		seen[l] = true
	}
	return false
}

func (c Clause) String() string {
	s := "("
	for i, l := range c {
		if i > 0 {
			s += " "
		}
		s += l.String()
	}
	return s + ")"
}

// Problem is a CNF formula: a set of clauses over NumVars variables,
// numbered 1..NumVars.
type Problem struct {
	Clauses []Clause
	NumVars int
}

// Verify checks the invariant that every literal in every clause is in
// range [1, NumVars].
func (p Problem) Verify() error {
	if p.NumVars <= 0 {
		return fmt.Errorf("%w: num_vars must be positive, got %d", ErrInvalidInput, p.NumVars)
	}
	for ci, c := range p.Clauses {
		for _, l := range c {
			if l == 0 {
				return fmt.Errorf("%w: clause %d contains a zero literal", ErrInternalInvariant, ci)
			}
			if v := l.Var(); v < 1 || v > p.NumVars {
				return fmt.Errorf("%w: clause %d literal %d out of range [1,%d]", ErrInternalInvariant, ci, l, p.NumVars)
			}
		}
	}
	return nil
}

// Assignment is a partial mapping from 1-based variable index to a
// boolean value. It is array-indexed (not a map) so that lookups and
// restores stay O(1) without hashing, per the systems-implementation
// guidance in the design notes.
type Assignment struct {
	values []int8 // 0 = unassigned, 1 = true, -1 = false
}

// NewAssignment returns an empty assignment over numVars variables.
func NewAssignment(numVars int) Assignment {
	return Assignment{values: make([]int8, numVars+1)}
}

// Assigned reports whether variable v has been given a value.
func (a Assignment) Assigned(v int) bool {
	return a.values[v] != 0
}

// Value returns the boolean value assigned to variable v. The result
// is meaningless if Assigned(v) is false.
func (a Assignment) Value(v int) bool {
	return a.values[v] > 0
}

// Set assigns variable v to value.
func (a Assignment) Set(v int, value bool) {
	if value {
		a.values[v] = 1
	} else {
		a.values[v] = -1
	}
}

// Unset clears the assignment of variable v.
func (a Assignment) Unset(v int) {
	a.values[v] = 0
}

// Satisfies reports whether literal l is true under this assignment.
// It returns false for both "false" and "unassigned".
func (a Assignment) Satisfies(l Literal) bool {
	v := l.Var()
	if !a.Assigned(v) {
		return false
	}
	return a.Value(v) == l.Positive()
}

// Falsifies reports whether literal l is false under this assignment.
func (a Assignment) Falsifies(l Literal) bool {
	v := l.Var()
	if !a.Assigned(v) {
		return false
	}
	return a.Value(v) != l.Positive()
}

// Clone returns an independent copy of the assignment.
func (a Assignment) Clone() Assignment {
	cp := make([]int8, len(a.values))
	copy(cp, a.values)
	return Assignment{values: cp}
}

// Model is a total assignment serialized as one signed integer per
// variable: index i-1 holds +i or -i according to variable i's value.
type Model []int

// ToModel converts a complete assignment over numVars variables into a
// Model. Unassigned variables default to false, matching the
// watched-literal solver's "extend to any total assignment" contract.
func ToModel(a Assignment, numVars int) Model {
	m := make(Model, numVars)
	for v := 1; v <= numVars; v++ {
		if a.Assigned(v) && a.Value(v) {
			m[v-1] = v
		} else {
			m[v-1] = -v
		}
	}
	return m
}

// Satisfies reports whether m satisfies every clause in p, i.e. every
// clause contains at least one literal whose sign matches m.
func (m Model) Satisfies(p Problem) bool {
	for _, c := range p.Clauses {
		sat := false
		for _, l := range c {
			v := l.Var()
			if v > len(m) {
				return false
			}
			val := m[v-1]
			if (val > 0) == l.Positive() {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}

// Metrics holds the four monotonically non-decreasing solver counters
// tracked across a search. Reset zeroes them at the start of each
// solve.
type Metrics struct {
	Decisions        int
	Backtracks       int
	UnitPropagations int
	Conflicts        int
}

// Reset zeroes all four counters.
func (m *Metrics) Reset() {
	*m = Metrics{}
}

// Merge adds other's counts into m, used when a pipeline stage (e.g.
// PreprocessingDPLL's unit propagation) delegates search to another
// solver and folds its counters back into the outer metrics.
func (m *Metrics) Merge(other Metrics) {
	m.Decisions += other.Decisions
	m.Backtracks += other.Backtracks
	m.UnitPropagations += other.UnitPropagations
	m.Conflicts += other.Conflicts
}

package dimacs

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/CptPie/DPLL-solver/cnf"
	"github.com/google/go-cmp/cmp"
)

func TestReadBasic(t *testing.T) {
	input := "c a comment\np cnf 5 3\n1 -5 4 0\n-1 5 3 4 0\n-3 -4 0\n"
	p, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := cnf.Problem{
		Clauses: []cnf.Clause{
			{1, -5, 4},
			{-1, 5, 3, 4},
			{-3, -4},
		},
		NumVars: 5,
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCommentsAnywhere(t *testing.T) {
	input := "p cnf 2 1\nc mid-stream comment\n1 -2 0\n"
	p, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(p.Clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(p.Clauses))
	}
}

func TestReadMissingTrailingZero(t *testing.T) {
	input := "p cnf 2 1\n1 -2\n"
	_, err := Read(strings.NewReader(input))
	if !errors.Is(err, cnf.ErrInvalidInput) {
		t.Fatalf("Read() error = %v, want ErrInvalidInput", err)
	}
}

func TestReadDuplicateProblemLine(t *testing.T) {
	input := "p cnf 2 1\np cnf 2 1\n1 -2 0\n"
	_, err := Read(strings.NewReader(input))
	if !errors.Is(err, cnf.ErrInvalidInput) {
		t.Fatalf("Read() error = %v, want ErrInvalidInput", err)
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	p := cnf.Problem{
		Clauses: []cnf.Clause{{1, 2}, {-1, -2}},
		NumVars: 2,
	}
	var buf bytes.Buffer
	if err := Write(&buf, p); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

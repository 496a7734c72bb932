// Package dimacs reads and writes CNF formulas in the standard DIMACS
// format: a "p cnf <num_vars> <num_clauses>" problem line followed by
// one clause per line, each terminated by a trailing 0. Comments
// starting with "c" are tolerated anywhere in the stream, and the
// problem line itself is optional since num_vars and num_clauses can
// be inferred from the clauses read.
//
// The Builder interface lets a caller stream clauses into its own
// representation instead of allocating an intermediate [][]int.
package dimacs

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/CptPie/DPLL-solver/cnf"
)

// Builder receives the pieces of a parsed DIMACS file as they are
// read. Clause is handed a shared buffer; implementations that need to
// retain it must copy.
type Builder interface {
	Problem(numVars, numClauses int)
	Clause(lits []int)
	Comment(line string)
}

// problemBuilder accumulates a cnf.Problem.
type problemBuilder struct {
	numVars int
	clauses []cnf.Clause
}

func (b *problemBuilder) Problem(numVars, numClauses int) {
	b.numVars = numVars
	b.clauses = make([]cnf.Clause, 0, numClauses)
}

func (b *problemBuilder) Clause(lits []int) {
	c := make(cnf.Clause, len(lits))
	for i, l := range lits {
		c[i] = cnf.Literal(l)
	}
	b.clauses = append(b.clauses, c)
}

func (b *problemBuilder) Comment(string) {}

// Read parses a DIMACS CNF stream into a cnf.Problem.
func Read(r io.Reader) (cnf.Problem, error) {
	b := &problemBuilder{}
	if err := ReadBuilder(r, b); err != nil {
		return cnf.Problem{}, err
	}
	numVars := b.numVars
	if numVars == 0 {
		// No problem line: num_vars is the largest variable read.
		for _, c := range b.clauses {
			for _, l := range c {
				if l.Var() > numVars {
					numVars = l.Var()
				}
			}
		}
	}
	return cnf.Problem{Clauses: b.clauses, NumVars: numVars}, nil
}

// ReadBuilder parses a DIMACS CNF stream, feeding each piece to b as
// it is discovered. Comments may appear anywhere in the file, not just
// before the problem line, matching the tolerant behavior of the
// pack's reference parsers.
func ReadBuilder(r io.Reader, b Builder) error {
	sawProblem := false
	sawClause := false
	tmpClause := make([]int, 0, 16)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line[0] == 'c' || line[0] == 'C' {
			b.Comment(line)
			continue
		}
		if line == "%" {
			break
		}
		if line[0] == 'p' || line[0] == 'P' {
			if sawClause {
				return fmt.Errorf("%w: problem line appears after clauses", cnf.ErrInvalidInput)
			}
			if sawProblem {
				return fmt.Errorf("%w: multiple problem lines", cnf.ErrInvalidInput)
			}
			fields := strings.Fields(line)
			if len(fields) < 4 {
				return fmt.Errorf("%w: malformed problem line %q", cnf.ErrInvalidInput, line)
			}
			if fields[1] != "cnf" {
				return fmt.Errorf("%w: only cnf supported, got %q", cnf.ErrInvalidInput, fields[1])
			}
			numVars, err := strconv.Atoi(fields[2])
			if err != nil {
				return fmt.Errorf("%w: malformed num_vars: %v", cnf.ErrInvalidInput, err)
			}
			numClauses, err := strconv.Atoi(fields[3])
			if err != nil {
				return fmt.Errorf("%w: malformed num_clauses: %v", cnf.ErrInvalidInput, err)
			}
			b.Problem(numVars, numClauses)
			sawProblem = true
			continue
		}

		// Clause line: space-separated nonzero ints terminated by 0.
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[len(fields)-1] != "0" {
			return fmt.Errorf("%w: clause line does not end with a 0: %q", cnf.ErrInvalidInput, line)
		}
		tmpClause = tmpClause[:0]
		for _, f := range fields[:len(fields)-1] {
			n, err := strconv.Atoi(f)
			if err != nil || n == 0 {
				return fmt.Errorf("%w: expected nonzero integer, got %q", cnf.ErrInvalidInput, f)
			}
			tmpClause = append(tmpClause, n)
		}
		b.Clause(tmpClause)
		sawClause = true
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", cnf.ErrInvalidInput, err)
	}
	return nil
}

// Write emits p in DIMACS CNF format.
func Write(w io.Writer, p cnf.Problem) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", p.NumVars, len(p.Clauses)); err != nil {
		return err
	}
	for _, c := range p.Clauses {
		for _, l := range c {
			if _, err := fmt.Fprintf(bw, "%d ", l); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

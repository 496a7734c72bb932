// Package encoder turns a non-consecutive-Sudoku puzzle grid into a
// CNF formula, and decodes a satisfying model back into a grid.
//
// The variable numbering is normative: var(r,c,v) = r*N*N + c*N + v,
// with r,c in [0,N-1] and v in [1,N]. Grounded on the reference
// implementation's SATSolver.generate_rule1..5 and map_variable.
package encoder

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/CptPie/DPLL-solver/cnf"
)

// Grid is an N x N puzzle, 0 meaning an empty cell.
type Grid [][]int

// Encode reads a puzzle file and returns the CNF encoding plus the
// grid size N, or cnf.ErrInvalidInput if the file is malformed or N is
// not a perfect square.
func Encode(path string) (cnf.Problem, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return cnf.Problem{}, 0, fmt.Errorf("%w: %v", cnf.ErrInvalidInput, err)
	}
	defer f.Close()

	grid, err := ReadGrid(f)
	if err != nil {
		return cnf.Problem{}, 0, err
	}
	return EncodeGrid(grid)
}

// ReadGrid parses N lines of N whitespace-separated non-negative
// integers in [0,N] from r, skipping blank lines.
func ReadGrid(r io.Reader) (Grid, error) {
	var rows [][]int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		row := make([]int, 0, len(fields))
		for _, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: non-integer cell %q", cnf.ErrInvalidInput, f)
			}
			row = append(row, n)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", cnf.ErrInvalidInput, err)
	}
	return rows, nil
}

// EncodeGrid validates the grid shape and emits the six rule families.
func EncodeGrid(grid Grid) (cnf.Problem, int, error) {
	n := len(grid)
	if n == 0 {
		return cnf.Problem{}, 0, fmt.Errorf("%w: empty grid", cnf.ErrInvalidInput)
	}
	for _, row := range grid {
		if len(row) != n {
			return cnf.Problem{}, 0, fmt.Errorf("%w: grid is not square (row has %d cells, want %d)", cnf.ErrInvalidInput, len(row), n)
		}
	}
	root := int(math.Sqrt(float64(n)))
	if root*root != n {
		return cnf.Problem{}, 0, fmt.Errorf("%w: grid size %d is not a perfect square", cnf.ErrInvalidInput, n)
	}
	for _, row := range grid {
		for _, v := range row {
			if v < 0 || v > n {
				return cnf.Problem{}, 0, fmt.Errorf("%w: cell value %d out of range [0,%d]", cnf.ErrInvalidInput, v, n)
			}
		}
	}

	e := &encoding{n: n, root: root, grid: grid}
	e.ruleOneValuePerCell()
	e.ruleRowCompleteness()
	e.ruleColumnCompleteness()
	e.ruleBoxCompleteness()
	e.ruleNonConsecutive()
	e.ruleClues()

	p := cnf.Problem{Clauses: e.clauses, NumVars: n * n * n}
	return p, n, nil
}

// Var maps (r,c,v) to the normative variable index.
func Var(n, r, c, v int) int {
	return r*n*n + c*n + v
}

type encoding struct {
	n, root int
	grid    Grid
	clauses []cnf.Clause
}

func (e *encoding) lit(r, c, v int, negate bool) cnf.Literal {
	id := Var(e.n, r, c, v)
	if negate {
		return cnf.Literal(-id)
	}
	return cnf.Literal(id)
}

// ruleOneValuePerCell encodes R1: each cell holds exactly one value.
func (e *encoding) ruleOneValuePerCell() {
	n := e.n
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			atLeastOne := make(cnf.Clause, 0, n)
			for v := 1; v <= n; v++ {
				atLeastOne = append(atLeastOne, e.lit(r, c, v, false))
			}
			e.clauses = append(e.clauses, atLeastOne)

			for v1 := 1; v1 <= n; v1++ {
				for v2 := v1 + 1; v2 <= n; v2++ {
					e.clauses = append(e.clauses, cnf.Clause{e.lit(r, c, v1, true), e.lit(r, c, v2, true)})
				}
			}
		}
	}
}

// ruleRowCompleteness encodes R2: each row contains every value
// exactly once.
func (e *encoding) ruleRowCompleteness() {
	n := e.n
	for r := 0; r < n; r++ {
		for v := 1; v <= n; v++ {
			atLeastOne := make(cnf.Clause, 0, n)
			for c := 0; c < n; c++ {
				atLeastOne = append(atLeastOne, e.lit(r, c, v, false))
			}
			e.clauses = append(e.clauses, atLeastOne)

			for c1 := 0; c1 < n; c1++ {
				for c2 := c1 + 1; c2 < n; c2++ {
					e.clauses = append(e.clauses, cnf.Clause{e.lit(r, c1, v, true), e.lit(r, c2, v, true)})
				}
			}
		}
	}
}

// ruleColumnCompleteness encodes R3, symmetric with R2.
func (e *encoding) ruleColumnCompleteness() {
	n := e.n
	for c := 0; c < n; c++ {
		for v := 1; v <= n; v++ {
			atLeastOne := make(cnf.Clause, 0, n)
			for r := 0; r < n; r++ {
				atLeastOne = append(atLeastOne, e.lit(r, c, v, false))
			}
			e.clauses = append(e.clauses, atLeastOne)

			for r1 := 0; r1 < n; r1++ {
				for r2 := r1 + 1; r2 < n; r2++ {
					e.clauses = append(e.clauses, cnf.Clause{e.lit(r1, c, v, true), e.lit(r2, c, v, true)})
				}
			}
		}
	}
}

// ruleBoxCompleteness encodes R4: each sqrt(N)xsqrt(N) box contains
// every value exactly once.
func (e *encoding) ruleBoxCompleteness() {
	n, root := e.n, e.root
	for boxRow := 0; boxRow < root; boxRow++ {
		for boxCol := 0; boxCol < root; boxCol++ {
			type cell struct{ r, c int }
			cells := make([]cell, 0, n)
			for i := 0; i < root; i++ {
				for j := 0; j < root; j++ {
					cells = append(cells, cell{boxRow*root + i, boxCol*root + j})
				}
			}

			for v := 1; v <= n; v++ {
				atLeastOne := make(cnf.Clause, 0, n)
				for _, cl := range cells {
					atLeastOne = append(atLeastOne, e.lit(cl.r, cl.c, v, false))
				}
				e.clauses = append(e.clauses, atLeastOne)

				for i := 0; i < len(cells); i++ {
					for j := i + 1; j < len(cells); j++ {
						e.clauses = append(e.clauses, cnf.Clause{
							e.lit(cells[i].r, cells[i].c, v, true),
							e.lit(cells[j].r, cells[j].c, v, true),
						})
					}
				}
			}
		}
	}
}

// ruleNonConsecutive encodes R5: orthogonally adjacent cells must not
// hold values differing by exactly 1. Each unordered neighbor pair
// yields both directions; duplicates are permitted (conforming, not
// deduplicated, per the design notes).
func (e *encoding) ruleNonConsecutive() {
	n := e.n
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var neighbors [][2]int
			if i > 0 {
				neighbors = append(neighbors, [2]int{i - 1, j})
			}
			if i < n-1 {
				neighbors = append(neighbors, [2]int{i + 1, j})
			}
			if j > 0 {
				neighbors = append(neighbors, [2]int{i, j - 1})
			}
			if j < n-1 {
				neighbors = append(neighbors, [2]int{i, j + 1})
			}

			for v := 1; v <= n; v++ {
				for _, nb := range neighbors {
					ar, ac := nb[0], nb[1]
					if v > 1 {
						e.clauses = append(e.clauses, cnf.Clause{e.lit(i, j, v, true), e.lit(ar, ac, v-1, true)})
					}
					if v < n {
						e.clauses = append(e.clauses, cnf.Clause{e.lit(i, j, v, true), e.lit(ar, ac, v+1, true)})
					}
				}
			}
		}
	}
}

// ruleClues encodes R6: unit clauses for the given puzzle's non-zero
// cells.
func (e *encoding) ruleClues() {
	for r, row := range e.grid {
		for c, v := range row {
			if v != 0 {
				e.clauses = append(e.clauses, cnf.Clause{e.lit(r, c, v, false)})
			}
		}
	}
}

// Decode converts a satisfying model back into an N x N grid, reading
// off whichever value each cell's variable group says is true. It is
// the inverse of EncodeGrid for any model a solver returns.
func Decode(m cnf.Model, n int) Grid {
	grid := make(Grid, n)
	for r := 0; r < n; r++ {
		grid[r] = make([]int, n)
		for c := 0; c < n; c++ {
			for v := 1; v <= n; v++ {
				id := Var(n, r, c, v)
				if id-1 < len(m) && m[id-1] > 0 {
					grid[r][c] = v
					break
				}
			}
		}
	}
	return grid
}

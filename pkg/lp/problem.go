// Package lp holds the matrix form of a built optimization model: named,
// tuple-keyed columns and rows plus sparse constraint coefficients. The
// layout matches what LP solvers consume (column costs and bounds, row
// bounds, row/col/value nonzeros) so backends only translate, never reindex.
package lp

import (
	"fmt"
	"math"
)

// Inf returns positive infinity, used for unbounded row or column limits.
func Inf() float64 { return math.Inf(1) }

// NegInf returns negative infinity.
func NegInf() float64 { return math.Inf(-1) }

// Var is a single decision-variable column.
type Var struct {
	Family string
	Key    Key
	Cost   float64
	Lower  float64
	Upper  float64
}

// Row is a single constraint with Lower <= a·x <= Upper.
type Row struct {
	Family string
	Key    Key
	Lower  float64
	Upper  float64
}

// Nonzero is one entry of the sparse constraint matrix.
type Nonzero struct {
	Row int
	Col int
	Val float64
}

// Problem is a minimization model under construction. Variables and rows are
// identified by (family, key) so that primal levels and duals can be
// attributed back to their index tuples after the solve.
type Problem struct {
	Offset float64

	vars     []Var
	rows     []Row
	nonzeros []Nonzero

	colIndex map[string]int
}

// NewProblem returns an empty minimization problem.
func NewProblem() *Problem {
	return &Problem{colIndex: make(map[string]int)}
}

func colKey(family string, key Key) string {
	return family + "|" + key.String()
}

// AddVar registers a column for (family, key) and returns its index. Calling
// it again for the same (family, key) returns the existing column unchanged,
// so generators can reference variables without tracking creation order.
func (p *Problem) AddVar(family string, key Key, cost, lower, upper float64) int {
	ck := colKey(family, key)
	if col, ok := p.colIndex[ck]; ok {
		return col
	}

	col := len(p.vars)
	p.vars = append(p.vars, Var{Family: family, Key: key, Cost: cost, Lower: lower, Upper: upper})
	p.colIndex[ck] = col

	return col
}

// Col looks up the column index for (family, key).
func (p *Problem) Col(family string, key Key) (int, bool) {
	col, ok := p.colIndex[colKey(family, key)]
	return col, ok
}

// AddCost accumulates an objective coefficient onto an existing column.
func (p *Problem) AddCost(col int, delta float64) error {
	if col < 0 || col >= len(p.vars) {
		return fmt.Errorf("column %d out of range", col)
	}
	p.vars[col].Cost += delta

	return nil
}

// AddRow appends a constraint Lower <= coeffs·x <= Upper and returns its row
// index. Zero coefficients are dropped.
func (p *Problem) AddRow(family string, key Key, lower float64, coeffs map[int]float64, upper float64) int {
	row := len(p.rows)
	p.rows = append(p.rows, Row{Family: family, Key: key, Lower: lower, Upper: upper})

	for col, val := range coeffs {
		if val != 0 {
			p.nonzeros = append(p.nonzeros, Nonzero{Row: row, Col: col, Val: val})
		}
	}

	return row
}

// Vars returns the columns in index order.
func (p *Problem) Vars() []Var { return p.vars }

// Rows returns the constraints in index order.
func (p *Problem) Rows() []Row { return p.rows }

// Nonzeros returns the sparse constraint matrix entries.
func (p *Problem) Nonzeros() []Nonzero { return p.nonzeros }

// NumVars returns the number of columns.
func (p *Problem) NumVars() int { return len(p.vars) }

// NumRows returns the number of constraints.
func (p *Problem) NumRows() int { return len(p.rows) }

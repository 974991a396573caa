// Package simplex is the pure-Go solver backend, delegating to gonum's
// linear-programming simplex. It converts the matrix model to standard form
// (shifted columns, slack and surplus variables, upper bounds as helper
// rows), solves the primal for levels and the explicit dual program for
// shadow prices.
package simplex

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	golp "gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/gridops/epo/pkg/lp"
	"github.com/gridops/epo/pkg/solve"
)

const backend = "simplex"

var (
	errMixedBounds = errors.New("free column with finite upper bound is not supported")
	errRangeRow    = errors.New("rows with distinct finite bounds on both sides are not supported")
)

// Solver implements solve.Solver on gonum's simplex.
type Solver struct {
	log logrus.FieldLogger
	tol float64
}

// New creates a simplex backend.
func New(log logrus.FieldLogger) *Solver {
	return &Solver{log: log.WithField("solver", backend), tol: 1e-10}
}

// Solve converts, runs the primal and dual programs, and maps levels and
// duals back onto the problem's column and row order.
func (s *Solver) Solve(ctx context.Context, prob *lp.Problem) (*solve.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	std, err := toStandard(prob)
	if err != nil {
		return nil, &solve.SolverError{Backend: backend, Err: err}
	}

	result := &solve.Result{
		Columns: make([]float64, prob.NumVars()),
		Duals:   make([]float64, prob.NumRows()),
	}

	if std.numRows == 0 || std.numCols == 0 {
		// Nothing constrains the model: every column sits at its lower bound.
		for j, cm := range std.cols {
			result.Columns[j] = cm.shift
		}
		result.Objective = std.offset + prob.Offset

		return result, nil
	}

	optF, px, err := golp.Simplex(std.c, std.a, std.b, s.tol, nil)
	if err != nil {
		return nil, s.mapError(err)
	}

	for j, cm := range std.cols {
		x := cm.shift + px[cm.plus]
		if cm.minus >= 0 {
			x -= px[cm.minus]
		}
		result.Columns[j] = x
	}
	result.Objective = optF + std.offset + prob.Offset

	stdDuals, err := s.solveDuals(std)
	if err != nil {
		return nil, err
	}
	for i, stdRow := range std.rowOf {
		if stdRow >= 0 {
			result.Duals[i] = stdDuals[stdRow]
		}
	}

	s.log.WithFields(logrus.Fields{
		"columns":   prob.NumVars(),
		"rows":      prob.NumRows(),
		"objective": result.Objective,
	}).Debug("Solve finished")

	return result, nil
}

func (s *Solver) mapError(err error) error {
	switch {
	case errors.Is(err, golp.ErrInfeasible):
		return solve.ErrInfeasible
	case errors.Is(err, golp.ErrUnbounded):
		return solve.ErrUnbounded
	default:
		return &solve.SolverError{Backend: backend, Diagnostics: err.Error(), Err: err}
	}
}

// solveDuals solves the dual of the standard-form program:
// max b'y s.t. A'y <= c, y free. Each standard row's dual is the change in
// objective per unit change of that row's right-hand side, which carries the
// original row's finite bound.
func (s *Solver) solveDuals(std *standard) ([]float64, error) {
	m, n := std.numRows, std.numCols

	// Dual columns: y = u - v with u, v >= 0, plus one slack per constraint.
	cd := make([]float64, 2*m+n)
	for i := 0; i < m; i++ {
		cd[i] = -std.b[i]
		cd[m+i] = std.b[i]
	}

	ad := mat.NewDense(n, 2*m+n, nil)
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			coef := std.a.At(i, j)
			ad.Set(j, i, coef)
			ad.Set(j, m+i, -coef)
		}
		ad.Set(j, 2*m+j, 1)
	}

	_, dx, err := golp.Simplex(cd, ad, std.c, s.tol, nil)
	if err != nil {
		// A feasible bounded primal has a solvable dual; anything else is a
		// backend failure, not a modeling outcome.
		return nil, &solve.SolverError{Backend: backend, Diagnostics: "dual solve: " + err.Error(), Err: err}
	}

	y := make([]float64, m)
	for i := 0; i < m; i++ {
		y[i] = dx[i] - dx[m+i]
	}

	return y, nil
}

type colMap struct {
	plus  int
	minus int // -1 unless the column is free and split
	shift float64
}

// standard is min c'x s.t. a·x = b, x >= 0.
type standard struct {
	c      []float64
	a      *mat.Dense
	b      []float64
	offset float64

	cols    []colMap
	rowOf   []int // original row -> standard row, -1 when non-binding
	numCols int
	numRows int
}

//nolint:gocyclo // Case analysis over bound shapes reads best in one place
func toStandard(prob *lp.Problem) (*standard, error) {
	vars := prob.Vars()
	rows := prob.Rows()

	std := &standard{
		cols:  make([]colMap, len(vars)),
		rowOf: make([]int, len(rows)),
	}

	// Column mapping: finite lower bounds shift to zero, free columns split.
	next := 0
	for j, v := range vars {
		switch {
		case !math.IsInf(v.Lower, -1):
			std.cols[j] = colMap{plus: next, minus: -1, shift: v.Lower}
			next++
		case math.IsInf(v.Upper, 1):
			std.cols[j] = colMap{plus: next, minus: next + 1}
			next += 2
		default:
			return nil, errMixedBounds
		}
		std.offset += v.Cost * std.cols[j].shift
	}

	// Row coefficients in dense-by-row form.
	rowCoeffs := make([]map[int]float64, len(rows))
	for i := range rows {
		rowCoeffs[i] = make(map[int]float64)
	}
	for _, nz := range prob.Nonzeros() {
		rowCoeffs[nz.Row][nz.Col] += nz.Val
	}

	type stdRow struct {
		coeffs map[int]float64 // keyed by original column
		slack  float64         // 0 for equality, +1 for <=, -1 for >=
		rhs    float64
	}

	var stdRows []stdRow
	slackCount := 0

	appendRow := func(r stdRow) int {
		if r.slack != 0 {
			slackCount++
		}
		stdRows = append(stdRows, r)

		return len(stdRows) - 1
	}

	for i, row := range rows {
		shiftAdj := 0.0
		for col, val := range rowCoeffs[i] {
			shiftAdj += val * std.cols[col].shift
		}

		lo, up := row.Lower, row.Upper
		loFinite := !math.IsInf(lo, -1)
		upFinite := !math.IsInf(up, 1)

		switch {
		case !loFinite && !upFinite:
			std.rowOf[i] = -1

		case loFinite && upFinite && lo == up:
			std.rowOf[i] = appendRow(stdRow{coeffs: rowCoeffs[i], rhs: lo - shiftAdj})

		case loFinite && !upFinite:
			std.rowOf[i] = appendRow(stdRow{coeffs: rowCoeffs[i], slack: -1, rhs: lo - shiftAdj})

		case upFinite && !loFinite:
			std.rowOf[i] = appendRow(stdRow{coeffs: rowCoeffs[i], slack: +1, rhs: up - shiftAdj})

		default:
			return nil, errRangeRow
		}
	}

	// Finite column upper bounds become helper rows p_j + s = u - shift.
	type upperBound struct {
		col int
		rhs float64
	}
	var uppers []upperBound
	for j, v := range vars {
		if !math.IsInf(v.Upper, 1) {
			uppers = append(uppers, upperBound{col: j, rhs: v.Upper - std.cols[j].shift})
		}
	}

	std.numRows = len(stdRows) + len(uppers)
	surplusBase := next
	std.numCols = next + slackCount + len(uppers)

	if std.numRows == 0 || std.numCols == 0 {
		return std, nil
	}

	std.c = make([]float64, std.numCols)
	for j, v := range vars {
		std.c[std.cols[j].plus] += v.Cost
		if std.cols[j].minus >= 0 {
			std.c[std.cols[j].minus] -= v.Cost
		}
	}

	std.a = mat.NewDense(std.numRows, std.numCols, nil)
	std.b = make([]float64, std.numRows)

	slackNext := surplusBase
	for i, r := range stdRows {
		for col, val := range r.coeffs {
			cm := std.cols[col]
			std.a.Set(i, cm.plus, std.a.At(i, cm.plus)+val)
			if cm.minus >= 0 {
				std.a.Set(i, cm.minus, std.a.At(i, cm.minus)-val)
			}
		}
		if r.slack != 0 {
			std.a.Set(i, slackNext, r.slack)
			slackNext++
		}
		std.b[i] = r.rhs
	}

	for k, ub := range uppers {
		i := len(stdRows) + k
		cm := std.cols[ub.col]
		std.a.Set(i, cm.plus, 1)
		std.a.Set(i, slackNext, 1)
		slackNext++
		std.b[i] = ub.rhs
	}

	return std, nil
}

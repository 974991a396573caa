// Package highs is the HiGHS solver backend (via cgo bindings), intended
// for industrial-size models where the pure-Go backend is too slow.
package highs

import (
	"context"
	"fmt"

	hs "github.com/bartolsthoorn/gohighs/highs"
	"github.com/sirupsen/logrus"

	"github.com/gridops/epo/pkg/lp"
	"github.com/gridops/epo/pkg/solve"
)

const backend = "highs"

// Solver implements solve.Solver on HiGHS.
type Solver struct {
	log  logrus.FieldLogger
	opts []hs.SolveOption
}

// New creates a HiGHS backend. Options are passed through to every solve;
// solver output is silenced unless overridden.
func New(log logrus.FieldLogger, opts ...hs.SolveOption) *Solver {
	return &Solver{
		log:  log.WithField("solver", backend),
		opts: append([]hs.SolveOption{hs.WithOutput(false)}, opts...),
	}
}

// Solve translates the matrix model into the HiGHS column/row layout and
// maps status, levels and row duals back.
func (s *Solver) Solve(ctx context.Context, prob *lp.Problem) (*solve.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model := &hs.Model{Offset: prob.Offset}

	for _, v := range prob.Vars() {
		model.ColCosts = append(model.ColCosts, v.Cost)
		model.ColLower = append(model.ColLower, v.Lower)
		model.ColUpper = append(model.ColUpper, v.Upper)
	}
	for _, r := range prob.Rows() {
		model.RowLower = append(model.RowLower, r.Lower)
		model.RowUpper = append(model.RowUpper, r.Upper)
	}
	for _, nz := range prob.Nonzeros() {
		model.ConstMatrix = append(model.ConstMatrix, hs.Nonzero{Row: nz.Row, Col: nz.Col, Val: nz.Val})
	}

	sol, err := model.Solve(s.opts...)
	if err != nil {
		return nil, &solve.SolverError{Backend: backend, Err: err}
	}

	switch {
	case sol.IsInfeasible():
		return nil, solve.ErrInfeasible
	case sol.IsUnbounded():
		return nil, solve.ErrUnbounded
	case !sol.IsOptimal():
		return nil, &solve.SolverError{Backend: backend, Diagnostics: fmt.Sprintf("unexpected status %v", sol.Status)}
	}

	s.log.WithFields(logrus.Fields{
		"columns":   prob.NumVars(),
		"rows":      prob.NumRows(),
		"objective": sol.Objective,
	}).Debug("Solve finished")

	return &solve.Result{
		Objective: sol.Objective,
		Columns:   sol.ColValues,
		Duals:     sol.RowDuals,
	}, nil
}

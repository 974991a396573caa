// Package solve defines the boundary to the external optimization solver:
// an assembled matrix model goes in, primal levels and constraint duals come
// out, still aligned with the problem's tuple-keyed columns and rows.
package solve

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridops/epo/pkg/lp"
)

var (
	// ErrInfeasible is returned when the solver proves there is no feasible
	// point. It is surfaced as-is and never retried here.
	ErrInfeasible = errors.New("model is infeasible")
	// ErrUnbounded is returned when the objective can decrease without limit
	ErrUnbounded = errors.New("model is unbounded")
)

// SolverError wraps a backend failure with its diagnostics. Transient
// failures may be retried by the caller, not by this package.
type SolverError struct {
	Backend     string
	Diagnostics string
	Err         error
}

func (e *SolverError) Error() string {
	if e.Diagnostics != "" {
		return fmt.Sprintf("solver %s failed: %s", e.Backend, e.Diagnostics)
	}

	return fmt.Sprintf("solver %s failed: %v", e.Backend, e.Err)
}

func (e *SolverError) Unwrap() error { return e.Err }

// Result carries the solver output. Columns holds primal levels aligned with
// the problem's variable order; Duals holds shadow prices aligned with the
// row order, signed as the change in objective per unit relaxation of the
// row's finite bound.
type Result struct {
	Objective float64
	Columns   []float64
	Duals     []float64
}

// Solver is the external LP/MILP service. Solve blocks until the backend
// returns a complete result set or fails; there is no partial-result
// contract. Callers wrap it with their own timeout policy if needed.
type Solver interface {
	Solve(ctx context.Context, prob *lp.Problem) (*Result, error)
}

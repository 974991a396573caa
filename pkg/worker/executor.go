package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/gridops/epo/pkg/build"
	"github.com/gridops/epo/pkg/observability"
	"github.com/gridops/epo/pkg/results"
	"github.com/gridops/epo/pkg/scenario"
	"github.com/gridops/epo/pkg/solve"
	"github.com/gridops/epo/pkg/store"
	"github.com/gridops/epo/pkg/tasks"
)

// Executor processes queued solve runs: it loads the scenario version from
// the store, builds the matrix model, solves it, and persists the result set.
type Executor struct {
	log     logrus.FieldLogger
	store   store.Store
	solver  solve.Solver
	backend string
}

// NewExecutor creates a solve-run executor around a store and a solver.
func NewExecutor(log logrus.FieldLogger, st store.Store, solver solve.Solver, backend string) *Executor {
	return &Executor{
		log:     log.WithField("component", "executor"),
		store:   st,
		solver:  solver,
		backend: backend,
	}
}

// HandleSolve handles one queued solve run.
func (e *Executor) HandleSolve(ctx context.Context, t *asynq.Task) error {
	var payload tasks.SolvePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log := e.log.WithFields(logrus.Fields{
		"model":    payload.Model,
		"scenario": payload.Scenario,
		"version":  payload.Version,
		"run_id":   payload.RunID,
	})
	log.Info("Starting solve run")

	def, err := e.store.LoadScenario(ctx, payload.Model, payload.Scenario, payload.Version)
	if err != nil {
		// A scenario that was deleted after enqueue will never appear.
		if errors.Is(err, store.ErrNotFound) {
			observability.SolvesTotal.WithLabelValues(payload.Model, payload.Scenario, "error").Inc()
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		return fmt.Errorf("failed to load scenario: %w", err)
	}

	scn, err := scenario.Build(log, def)
	if err != nil {
		observability.SolvesTotal.WithLabelValues(payload.Model, payload.Scenario, "error").Inc()
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	res, err := e.run(ctx, scn)
	if err != nil {
		if errors.Is(err, solve.ErrInfeasible) || errors.Is(err, solve.ErrUnbounded) {
			// Deterministic outcomes: retrying the same model cannot help.
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		return err
	}

	if err := e.store.SaveResults(ctx, payload.Model, payload.Scenario, payload.Version, res); err != nil {
		return fmt.Errorf("failed to persist results: %w", err)
	}

	log.WithField("objective", res.Objective).Info("Solve run completed")

	return nil
}

// run builds and solves one committed scenario. It is also the in-process
// path used by the CLI when no worker fleet is involved.
func (e *Executor) run(ctx context.Context, scn *scenario.Scenario) (*results.Store, error) {
	buildStart := time.Now()

	prob, err := build.New(e.log, scn).Build(ctx)
	if err != nil {
		observability.SolvesTotal.WithLabelValues(scn.Model, scn.Name, "error").Inc()
		return nil, fmt.Errorf("failed to build model: %w", err)
	}

	observability.BuildDuration.WithLabelValues(scn.Model, scn.Name).Observe(time.Since(buildStart).Seconds())
	observability.ModelColumns.WithLabelValues(scn.Model, scn.Name).Set(float64(len(prob.Vars())))
	observability.ModelRows.WithLabelValues(scn.Model, scn.Name).Set(float64(len(prob.Rows())))

	solveStart := time.Now()

	sol, err := e.solver.Solve(ctx, prob)

	observability.SolveDuration.WithLabelValues(scn.Model, scn.Name, e.backend).Observe(time.Since(solveStart).Seconds())

	if err != nil {
		status := "error"

		switch {
		case errors.Is(err, solve.ErrInfeasible):
			status = "infeasible"
		case errors.Is(err, solve.ErrUnbounded):
			status = "unbounded"
		}

		observability.SolvesTotal.WithLabelValues(scn.Model, scn.Name, status).Inc()

		return nil, err
	}

	observability.SolvesTotal.WithLabelValues(scn.Model, scn.Name, "optimal").Inc()
	observability.ObjectiveValue.WithLabelValues(scn.Model, scn.Name).Set(sol.Objective)

	return results.NewStore(prob, sol), nil
}

// Run builds and solves a committed scenario without going through the queue.
func (e *Executor) Run(ctx context.Context, scn *scenario.Scenario) (*results.Store, error) {
	return e.run(ctx, scn)
}

// Routes returns the task handler routes for Asynq
func (e *Executor) Routes() map[string]asynq.HandlerFunc {
	return map[string]asynq.HandlerFunc{
		tasks.TypeScenarioSolve: e.HandleSolve,
	}
}

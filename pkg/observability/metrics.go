// Package observability provides prometheus metrics for the build and solve
// pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// SolvesTotal counts solve runs by outcome
	SolvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epo_solves_total",
			Help: "Total number of solve runs",
		},
		[]string{"model", "scenario", "status"}, // status: optimal, infeasible, error
	)

	// BuildDuration measures model construction time in seconds
	BuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "epo_build_duration_seconds",
			Help:    "Constraint generation and objective assembly duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"model", "scenario"},
	)

	// SolveDuration measures solver wall time in seconds
	SolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "epo_solve_duration_seconds",
			Help:    "External solver duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"model", "scenario", "backend"},
	)

	// ModelColumns tracks the number of generated decision variables
	ModelColumns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "epo_model_columns",
			Help: "Number of decision-variable columns in the last built model",
		},
		[]string{"model", "scenario"},
	)

	// ModelRows tracks the number of generated constraints
	ModelRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "epo_model_rows",
			Help: "Number of constraint rows in the last built model",
		},
		[]string{"model", "scenario"},
	)

	// ObjectiveValue reports the last optimal objective
	ObjectiveValue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "epo_objective_value",
			Help: "Objective value of the last optimal solve",
		},
		[]string{"model", "scenario"},
	)
)

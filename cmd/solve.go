package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/gridops/epo/pkg/observability"
	"github.com/gridops/epo/pkg/results"
	"github.com/gridops/epo/pkg/scenario"
	"github.com/gridops/epo/pkg/solve"
	"github.com/gridops/epo/pkg/solve/highs"
	"github.com/gridops/epo/pkg/solve/simplex"
	"github.com/gridops/epo/pkg/store"
	"github.com/gridops/epo/pkg/tasks"
	"github.com/gridops/epo/pkg/worker"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	solveCfgFile  string
	solveBackend  string
	solveQueue    bool
	solveSave     bool
	solveModel    string
	solveScenario string
	solveVersion  int
)

//nolint:gochecknoglobals // Cobra commands are typically global
var solveCmd = &cobra.Command{
	Use:   "solve [scenario-file]",
	Short: "Build and solve a scenario",
	Long: `Builds the linear program for a scenario and solves it. The scenario
comes from a definition file, or from the store when --model and --scenario
are given instead. With --queue the run is enqueued for a worker fleet.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringVar(&solveCfgFile, "config", "epo.yaml", "config file (default is epo.yaml)")
	solveCmd.Flags().StringVar(&solveBackend, "backend", "", "solver backend (simplex, highs); overrides the config")
	solveCmd.Flags().BoolVar(&solveQueue, "queue", false, "enqueue the run instead of solving in-process")
	solveCmd.Flags().BoolVar(&solveSave, "save", false, "persist the scenario and its results to the store")
	solveCmd.Flags().StringVar(&solveModel, "model", "", "model name to load from the store")
	solveCmd.Flags().StringVar(&solveScenario, "scenario", "", "scenario name to load from the store")
	solveCmd.Flags().IntVar(&solveVersion, "version", 1, "scenario version to load from the store")
}

func newSolver(backend string) (solve.Solver, error) {
	switch backend {
	case worker.BackendSimplex, "":
		return simplex.New(logger), nil
	case worker.BackendHiGHS:
		return highs.New(logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", worker.ErrUnknownBackend, backend)
	}
}

func newRedisStore(cfg *AppConfig) (*store.RedisStore, *redis.Options, error) {
	if err := cfg.Store.Validate(); err != nil {
		return nil, nil, err
	}

	opt, err := redis.ParseURL(cfg.Store.Address)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid store address: %w", err)
	}

	return store.NewRedisStore(redis.NewClient(opt), cfg.Store.Prefix), opt, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	config, err := LoadAppConfig(solveCfgFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	def, err := resolveDefinition(ctx, config, args)
	if err != nil {
		return err
	}

	if solveQueue {
		return enqueueSolve(ctx, config, def)
	}

	backend := solveBackend
	if backend == "" {
		backend = config.Worker.Backend
	}

	solver, err := newSolver(backend)
	if err != nil {
		return err
	}

	if config.MetricsAddr != "" {
		observability.StartMetricsServer(logger, config.MetricsAddr)
	}

	scn, err := scenario.Build(logger, def)
	if err != nil {
		return err
	}

	var st store.Store
	if solveSave {
		rs, _, storeErr := newRedisStore(config)
		if storeErr != nil {
			return storeErr
		}

		st = rs

		if saveErr := rs.SaveScenario(ctx, def); saveErr != nil {
			return saveErr
		}
	}

	res, err := worker.NewExecutor(logger, st, solver, backend).Run(ctx, scn)
	if err != nil {
		return err
	}

	if solveSave {
		if err := st.SaveResults(ctx, def.Model, def.Scenario, def.Version, res); err != nil {
			return err
		}
	}

	printResults(def, res)

	return nil
}

// resolveDefinition loads the scenario definition from the file argument, or
// from the store when --model/--scenario address a saved version.
func resolveDefinition(ctx context.Context, config *AppConfig, args []string) (*scenario.Definition, error) {
	if len(args) == 1 {
		content, err := os.ReadFile(args[0]) //nolint:gosec // User-provided scenario file path
		if err != nil {
			return nil, err
		}

		return scenario.ParseDefinition(content, args[0])
	}

	if solveModel == "" || solveScenario == "" {
		return nil, fmt.Errorf("%w: pass a scenario file or --model and --scenario", scenario.ErrModelNameRequired)
	}

	rs, _, err := newRedisStore(config)
	if err != nil {
		return nil, err
	}

	return rs.LoadScenario(ctx, solveModel, solveScenario, solveVersion)
}

func enqueueSolve(ctx context.Context, config *AppConfig, def *scenario.Definition) error {
	rs, opt, err := newRedisStore(config)
	if err != nil {
		return err
	}

	if err := rs.SaveScenario(ctx, def); err != nil {
		return err
	}

	queue := tasks.NewQueueManager(tasks.NewAsynqRedisOptions(opt))
	defer queue.Close()

	payload := tasks.NewSolvePayload(def.Model, def.Scenario, def.Version)

	pending, err := queue.IsSolvePendingOrRunning(payload)
	if err != nil {
		return err
	}

	if pending {
		logger.WithField("task_id", payload.UniqueID()).Info("Solve already pending, skipping enqueue")
		return nil
	}

	if err := queue.EnqueueSolve(payload); err != nil {
		return err
	}

	logger.WithField("task_id", payload.UniqueID()).Info("Solve enqueued")

	return nil
}

func printResults(def *scenario.Definition, res *results.Store) {
	fmt.Printf("%s/%s v%d: objective %.6f\n", def.Model, def.Scenario, def.Version, res.Objective)

	for _, name := range res.VariableNames() {
		tbl, _ := res.Level(name)
		fmt.Printf("\n%s:\n", name)

		for _, rec := range tbl.Records {
			fmt.Printf("  %-60s %12.4f\n", rec.Key.String(), rec.Value)
		}
	}
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gridops/epo/pkg/observability"
	"github.com/gridops/epo/pkg/worker"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	workerCfgFile string
)

//nolint:gochecknoglobals // Cobra commands are typically global
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the epo worker service",
	Long:  `The worker service processes queued solve runs.`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().StringVar(&workerCfgFile, "config", "epo.yaml", "config file (default is epo.yaml)")
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	config, err := LoadAppConfig(workerCfgFile)
	if err != nil {
		return err
	}

	st, redisOpt, err := newRedisStore(config)
	if err != nil {
		return err
	}

	solver, err := newSolver(config.Worker.Backend)
	if err != nil {
		return err
	}

	if config.MetricsAddr != "" {
		observability.StartMetricsServer(logger, config.MetricsAddr)
	}

	app, err := worker.NewService(logger, &config.Worker, st, solver, redisOpt)
	if err != nil {
		return err
	}

	if err := app.Start(cmd.Context()); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	return app.Stop()
}

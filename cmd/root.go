// Package cmd contains the CLI commands for epo
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Global vars needed for cobra CLI
var (
	logger *logrus.Logger
)

// rootCmd represents the base command
//
//nolint:gochecknoglobals // Cobra commands are typically global
var rootCmd = &cobra.Command{
	Use:   "epo",
	Short: "Energy Planning Optimizer - Build and solve energy-system models",
	Long: `EPO builds multi-period, multi-region energy-system planning models
from declarative scenario files, solves the resulting linear programs, and
stores levels and shadow prices for every decision variable and constraint.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	// Global flags
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error, fatal, panic)")

	// Initialize logger
	logger = logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func initLogging() {
	logLevel, err := rootCmd.PersistentFlags().GetString("log-level")
	if err != nil {
		logLevel = "info"
	}

	level, parseErr := logrus.ParseLevel(logLevel)
	if parseErr != nil {
		logger.WithError(parseErr).Warn("Invalid log level, defaulting to info")

		level = logrus.InfoLevel
	}

	logger.SetLevel(level)
}

package cmd

import (
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/gridops/epo/pkg/scenario"
	"github.com/gridops/epo/pkg/store"
	"github.com/gridops/epo/pkg/worker"
)

// AppConfig is the shared YAML configuration for the CLI and the worker.
type AppConfig struct {
	// Logging level
	Logging string `yaml:"logging" default:"info" validate:"oneof=panic fatal warn info debug trace"`

	// MetricsAddr exposes prometheus metrics when set (e.g. ":9090")
	MetricsAddr string `yaml:"metricsAddr,omitempty"`

	// Store holds the scenario/result store connection
	Store store.Config `yaml:"store"`

	// Scenarios points at scenario definition files
	Scenarios scenario.Config `yaml:"scenarios"`

	// Worker holds worker-specific settings
	Worker worker.Config `yaml:"worker"`
}

// LoadAppConfig loads configuration from a YAML file. A missing file is not
// an error: defaults apply, and commands that need the store fail later with
// a precise message.
func LoadAppConfig(path string) (*AppConfig, error) {
	if path == "" {
		path = "epo.yaml"
	}

	config := &AppConfig{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(path) //nolint:gosec // User-provided config file path
	if err != nil {
		if os.IsNotExist(err) {
			config.Scenarios.SetDefaults()
			return config, nil
		}

		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, err
	}

	config.Scenarios.SetDefaults()

	return config, nil
}

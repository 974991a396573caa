package worker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConcurrency is returned when concurrency is not positive
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
	// ErrUnknownBackend is returned when the solver backend is not recognized
	ErrUnknownBackend = errors.New("unknown solver backend")
)

// Solver backend names accepted in the worker configuration.
const (
	BackendSimplex = "simplex"
	BackendHiGHS   = "highs"
)

// Config contains worker-specific settings
type Config struct {
	Concurrency     int    `yaml:"concurrency" default:"10"`
	Backend         string `yaml:"backend" default:"simplex"`
	ShutdownTimeout int    `yaml:"shutdownTimeout" default:"30"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.Backend != BackendSimplex && c.Backend != BackendHiGHS {
		return fmt.Errorf("%w: %s", ErrUnknownBackend, c.Backend)
	}

	return nil
}

// Package store persists committed scenarios and their result sets in an
// external document store, addressed by (model, scenario, version). The
// engine only depends on the interface; the redis implementation keeps whole
// definitions and result sets as JSON documents.
package store

import (
	"context"
	"errors"

	"github.com/gridops/epo/pkg/results"
	"github.com/gridops/epo/pkg/scenario"
)

var (
	// ErrNotFound is returned when no document exists at the address
	ErrNotFound = errors.New("not found in scenario store")
	// ErrAddressRequired is returned when the store address is missing
	ErrAddressRequired = errors.New("store address is required")
)

// Config holds the scenario-store connection settings.
type Config struct {
	Address string `yaml:"address"`
	Prefix  string `yaml:"prefix"`
}

// Validate checks the configuration and applies the default key prefix.
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrAddressRequired
	}
	if c.Prefix == "" {
		c.Prefix = "epo"
	}

	return nil
}

// Store is the persistence boundary.
type Store interface {
	SaveScenario(ctx context.Context, def *scenario.Definition) error
	LoadScenario(ctx context.Context, model, name string, version int) (*scenario.Definition, error)
	SaveResults(ctx context.Context, model, name string, version int, res *results.Store) error
	LoadResults(ctx context.Context, model, name string, version int) (*results.Store, error)
}

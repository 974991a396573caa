package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gridops/epo/pkg/results"
	"github.com/gridops/epo/pkg/scenario"
)

// RedisStore keeps scenario definitions and result sets as JSON documents.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store around an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "epo"
	}

	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) scenarioKey(model, name string, version int) string {
	return fmt.Sprintf("%s:scenario:%s:%s:v%d", s.prefix, model, name, version)
}

func (s *RedisStore) resultKey(model, name string, version int) string {
	return fmt.Sprintf("%s:result:%s:%s:v%d", s.prefix, model, name, version)
}

// SaveScenario writes a scenario definition document.
func (s *RedisStore) SaveScenario(ctx context.Context, def *scenario.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(def)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.scenarioKey(def.Model, def.Scenario, def.Version), data, 0).Err()
}

// LoadScenario reads a scenario definition document.
func (s *RedisStore) LoadScenario(ctx context.Context, model, name string, version int) (*scenario.Definition, error) {
	data, err := s.client.Get(ctx, s.scenarioKey(model, name, version)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: scenario %s/%s v%d", ErrNotFound, model, name, version)
		}
		return nil, err
	}

	def := &scenario.Definition{}
	if err := json.Unmarshal([]byte(data), def); err != nil {
		return nil, err
	}

	return def, nil
}

// SaveResults writes the result set for a solved scenario version.
func (s *RedisStore) SaveResults(ctx context.Context, model, name string, version int, res *results.Store) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.resultKey(model, name, version), data, 0).Err()
}

// LoadResults reads the result set for a scenario version.
func (s *RedisStore) LoadResults(ctx context.Context, model, name string, version int) (*results.Store, error) {
	data, err := s.client.Get(ctx, s.resultKey(model, name, version)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: results %s/%s v%d", ErrNotFound, model, name, version)
		}
		return nil, err
	}

	res := &results.Store{}
	if err := json.Unmarshal([]byte(data), res); err != nil {
		return nil, err
	}

	return res, nil
}

// Package worker runs queued solve runs on an asynq server, one handler per
// task type, with graceful shutdown.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gridops/epo/pkg/solve"
	"github.com/gridops/epo/pkg/store"
	"github.com/gridops/epo/pkg/tasks"
)

// Service defines the public interface for the worker service
type Service interface {
	// Start initializes and starts the worker service
	Start(ctx context.Context) error

	// Stop gracefully shuts down the worker service
	Stop() error
}

// service encapsulates the worker application logic
type service struct {
	config *Config
	log    logrus.FieldLogger

	done chan struct{}
	wg   sync.WaitGroup

	store    store.Store
	solver   solve.Solver
	redisOpt *redis.Options

	server *asynq.Server
}

// NewService creates a new worker service. The solver backend is injected so
// the service stays agnostic of which optimization library is linked in.
func NewService(log logrus.FieldLogger, cfg *Config, st store.Store, solver solve.Solver, redisOpt *redis.Options) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &service{
		log:      log.WithField("service", "worker"),
		config:   cfg,
		done:     make(chan struct{}),
		store:    st,
		solver:   solver,
		redisOpt: redisOpt,
	}, nil
}

// Start initializes and starts the worker service
func (s *service) Start(_ context.Context) error {
	executor := NewExecutor(s.log, s.store, s.solver, s.config.Backend)

	queues := map[string]int{
		tasks.QueueSolves: 10,
	}

	s.log.WithFields(logrus.Fields{
		"concurrency": s.config.Concurrency,
		"backend":     s.config.Backend,
	}).Info("Starting worker service")

	srv := asynq.NewServer(tasks.NewAsynqRedisOptions(s.redisOpt), asynq.Config{
		Concurrency: s.config.Concurrency,
		Queues:      queues,
	})

	mux := asynq.NewServeMux()
	for taskType, handlerFunc := range executor.Routes() {
		mux.HandleFunc(taskType, handlerFunc)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if runErr := srv.Run(mux); runErr != nil {
			s.log.WithError(runErr).Error("Worker server stopped with error")
		}
	}()

	s.server = srv

	s.log.Info("Worker service started successfully")

	return nil
}

// Stop gracefully shuts down the worker service
func (s *service) Stop() error {
	close(s.done)

	if s.server != nil {
		s.server.Shutdown()
	}

	s.wg.Wait()

	s.log.Info("Worker service stopped successfully")

	return nil
}

// Ensure service implements the interface
var _ Service = (*service)(nil)

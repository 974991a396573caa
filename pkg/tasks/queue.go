package tasks

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TypeScenarioSolve is the task type for queued solve runs
const TypeScenarioSolve = "scenario:solve"

// NewAsynqRedisOptions converts go-redis options to Asynq client options so
// queue and store share one connection config.
func NewAsynqRedisOptions(opt *redis.Options) *asynq.RedisClientOpt {
	return &asynq.RedisClientOpt{
		Network:      opt.Network,
		Addr:         opt.Addr,
		Username:     opt.Username,
		Password:     opt.Password,
		DB:           opt.DB,
		DialTimeout:  opt.DialTimeout,
		ReadTimeout:  opt.ReadTimeout,
		WriteTimeout: opt.WriteTimeout,
		PoolSize:     opt.PoolSize,
		TLSConfig:    opt.TLSConfig,
	}
}

// QueueManager manages solve-run queuing
type QueueManager struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewQueueManager creates a new queue manager
func NewQueueManager(redisOpt *asynq.RedisClientOpt) *QueueManager {
	return &QueueManager{
		client:    asynq.NewClient(*redisOpt),
		inspector: asynq.NewInspector(*redisOpt),
	}
}

// EnqueueSolve enqueues a solve run for a scenario version
func (q *QueueManager) EnqueueSolve(payload SolvePayload, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeScenarioSolve, data)

	defaultOpts := []asynq.Option{
		asynq.TaskID(payload.UniqueID()),
		asynq.Queue(payload.QueueName()),
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Minute),
	}

	allOpts := defaultOpts
	allOpts = append(allOpts, opts...)

	_, err = q.client.Enqueue(task, allOpts...)

	return err
}

// IsSolvePendingOrRunning checks whether a solve for the same scenario
// version is already queued or active.
func (q *QueueManager) IsSolvePendingOrRunning(payload SolvePayload) (bool, error) {
	info, err := q.inspector.GetTaskInfo(payload.QueueName(), payload.UniqueID())
	if err != nil {
		if strings.Contains(err.Error(), "NOT FOUND") || strings.Contains(err.Error(), "queue not found") || strings.Contains(err.Error(), "task not found") {
			return false, nil
		}

		return false, err
	}

	return info.State == asynq.TaskStatePending ||
		info.State == asynq.TaskStateActive ||
		info.State == asynq.TaskStateRetry, nil
}

// GetQueueStats returns queue statistics
func (q *QueueManager) GetQueueStats(queueName string) (*asynq.QueueInfo, error) {
	return q.inspector.GetQueueInfo(queueName)
}

// Close closes the queue manager
func (q *QueueManager) Close() error {
	return q.client.Close()
}

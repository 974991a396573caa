package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSolvePayload(t *testing.T) {
	p := NewSolvePayload("two_tech", "baseline", 3)

	assert.Equal(t, "two_tech", p.Model)
	assert.Equal(t, "baseline", p.Scenario)
	assert.Equal(t, 3, p.Version)
	assert.NotEmpty(t, p.RunID)
	assert.WithinDuration(t, time.Now().UTC(), p.EnqueuedAt, time.Minute)

	// Run IDs differ between payloads; the unique ID deliberately does not.
	q := NewSolvePayload("two_tech", "baseline", 3)
	assert.NotEqual(t, p.RunID, q.RunID)
	assert.Equal(t, p.UniqueID(), q.UniqueID())
}

func TestSolvePayload_UniqueID(t *testing.T) {
	tests := []struct {
		name     string
		payload  SolvePayload
		expected string
	}{
		{
			name:     "standard payload",
			payload:  SolvePayload{Model: "two_tech", Scenario: "baseline", Version: 1},
			expected: "two_tech:baseline:v1",
		},
		{
			name:     "later version",
			payload:  SolvePayload{Model: "grid", Scenario: "high_demand", Version: 12},
			expected: "grid:high_demand:v12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.payload.UniqueID())
			assert.Equal(t, QueueSolves, tt.payload.QueueName())
		})
	}
}

func TestSolvePayload_JSONRoundTrip(t *testing.T) {
	p := NewSolvePayload("two_tech", "baseline", 2)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded SolvePayload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p, decoded)
}

func TestNewAsynqRedisOptions(t *testing.T) {
	opt := &redis.Options{
		Addr:     "localhost:6379",
		Username: "u",
		Password: "p",
		DB:       4,
		PoolSize: 20,
	}

	asynqOpt := NewAsynqRedisOptions(opt)

	assert.Equal(t, opt.Addr, asynqOpt.Addr)
	assert.Equal(t, opt.Username, asynqOpt.Username)
	assert.Equal(t, opt.Password, asynqOpt.Password)
	assert.Equal(t, opt.DB, asynqOpt.DB)
	assert.Equal(t, opt.PoolSize, asynqOpt.PoolSize)
}

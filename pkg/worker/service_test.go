package worker

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridops/epo/internal/testutil"
	"github.com/gridops/epo/pkg/solve/simplex"
	"github.com/gridops/epo/pkg/store"
)

func TestNewService_ValidatesConfig(t *testing.T) {
	log := testutil.Logger()
	_, client := testutil.NewMiniredisClient(t)
	st := store.NewRedisStore(client, "epo")
	opt := &redis.Options{Addr: "localhost:6379"}

	_, err := NewService(log, &Config{Concurrency: 0, Backend: BackendSimplex}, st, simplex.New(log), opt)
	assert.ErrorIs(t, err, ErrInvalidConcurrency)

	svc, err := NewService(log, &Config{Concurrency: 4, Backend: BackendSimplex}, st, simplex.New(log), opt)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "valid simplex", config: Config{Concurrency: 10, Backend: BackendSimplex}},
		{name: "valid highs", config: Config{Concurrency: 1, Backend: BackendHiGHS}},
		{name: "zero concurrency", config: Config{Concurrency: 0, Backend: BackendSimplex}, wantErr: ErrInvalidConcurrency},
		{name: "negative concurrency", config: Config{Concurrency: -1, Backend: BackendSimplex}, wantErr: ErrInvalidConcurrency},
		{name: "unknown backend", config: Config{Concurrency: 10, Backend: "cplex"}, wantErr: ErrUnknownBackend},
		{name: "empty backend", config: Config{Concurrency: 10}, wantErr: ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

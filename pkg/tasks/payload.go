// Package tasks defines the queued solve-run payloads and their queue
// management.
package tasks

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QueueSolves is the queue all solve runs share.
const QueueSolves = "solves"

// SolvePayload identifies one scenario version to build and solve.
type SolvePayload struct {
	Model      string    `json:"model"`
	Scenario   string    `json:"scenario"`
	Version    int       `json:"version"`
	RunID      string    `json:"run_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewSolvePayload stamps a payload with a fresh run ID.
func NewSolvePayload(model, scenario string, version int) SolvePayload {
	return SolvePayload{
		Model:      model,
		Scenario:   scenario,
		Version:    version,
		RunID:      uuid.NewString(),
		EnqueuedAt: time.Now().UTC(),
	}
}

// UniqueID dedups queued runs: one outstanding solve per scenario version.
func (p SolvePayload) UniqueID() string {
	return fmt.Sprintf("%s:%s:v%d", p.Model, p.Scenario, p.Version)
}

// QueueName returns the queue for this payload.
func (p SolvePayload) QueueName() string {
	return QueueSolves
}

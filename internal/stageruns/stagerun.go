// Package stageruns records the execution of individual pipeline stages.
// Each stage run is committed independently so a partial pipeline leaves a
// durable trail of what ran, what it produced, and where it stopped.
package stageruns

import (
	"time"

	"github.com/google/uuid"
)

// Stage run statuses. A run begins as StatusRunning and is finalized to
// exactly one of StatusCompleted or StatusFailed.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// StageRun represents a single execution of a pipeline stage against a
// document. Output holds stage-specific structured results; Confidence is
// nil for stages that do not report one.
type StageRun struct {
	ID           int64          `json:"id"`
	DocumentID   uuid.UUID      `json:"document_id"`
	StageName    string         `json:"stage_name"`
	Status       string         `json:"status"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at"`
	Output       map[string]any `json:"output"`
	Confidence   *float64       `json:"confidence"`
	ErrorMessage *string        `json:"error_message"`
}

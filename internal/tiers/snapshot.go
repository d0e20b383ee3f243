// Package tiers stores per-document data tier snapshots. The promote stage
// writes a raw and redacted snapshot for every document that reaches it, and
// a curated snapshot only when validation passed.
package tiers

import (
	"time"

	"github.com/google/uuid"
)

// Data tier layers, in promotion order.
const (
	LayerRaw      = "raw"
	LayerRedacted = "redacted"
	LayerCurated  = "curated"
)

// Snapshot represents a document's data at one tier layer.
type Snapshot struct {
	ID         int64          `json:"id"`
	DocumentID uuid.UUID      `json:"document_id"`
	Layer      string         `json:"layer"`
	Data       map[string]any `json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AppendCommand carries the data needed to record a tier snapshot.
type AppendCommand struct {
	DocumentID uuid.UUID
	Layer      string
	Data       map[string]any
}

// Package lineage records provenance events for documents: which model
// versions touched a document and under which correlation token, so any
// output can be traced back to the exact processing run that produced it.
package lineage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lineage event types.
const (
	EventUploaded  = "DOCUMENT_UPLOADED"
	EventProcessed = "PROCESSING_COMPLETED"
)

// Event represents a recorded lineage event. Version fields are nil for
// events emitted before the corresponding stage ran.
type Event struct {
	ID                int64          `json:"id"`
	DocumentID        uuid.UUID      `json:"document_id"`
	EventType         string         `json:"event_type"`
	ClassifierVersion *string        `json:"classifier_version"`
	ExtractorVersion  *string        `json:"extractor_version"`
	ValidatorVersion  *string        `json:"validator_version"`
	CorrelationID     string         `json:"correlation_id"`
	Metadata          map[string]any `json:"metadata"`
	CreatedAt         time.Time      `json:"created_at"`
}

// AppendCommand carries the data needed to record a lineage event.
type AppendCommand struct {
	DocumentID        uuid.UUID
	EventType         string
	ClassifierVersion *string
	ExtractorVersion  *string
	ValidatorVersion  *string
	CorrelationID     string
	Metadata          map[string]any
}

// CorrelationID builds the correlation token that ties every lineage event
// for a single processing run together.
func CorrelationID(documentID uuid.UUID) string {
	return fmt.Sprintf("basira-pipeline:%s", documentID)
}

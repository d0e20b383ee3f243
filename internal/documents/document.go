// Package documents implements the document domain for Basira.
// It provides types, data access, and business logic for document upload,
// pipeline status tracking, and blob storage integration.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document statuses. A document is created as StatusProcessing and becomes
// terminal (StatusCompleted or StatusFailed) exactly once.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Stage markers outside the pipeline's stage table. StageQueued is assigned
// at upload; StageCompleted marks a document whose full stage sequence ran.
const (
	StageQueued    = "queued"
	StageCompleted = "completed"
)

// Document represents an uploaded document with its pipeline state and blob
// storage reference. DocumentType is nil until the classify stage assigns it;
// ErrorMessage is nil unless a stage failed.
type Document struct {
	ID           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	StorageKey   string    `json:"storage_key"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CurrentStage string    `json:"current_stage"`
	DocumentType *string   `json:"document_type"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"error_message"`
	UploadedAt   time.Time `json:"uploaded_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and register a new document.
// Data holds the raw file bytes.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Stats summarizes document counts by status and by assigned type.
type Stats struct {
	Total         int            `json:"total_documents"`
	Completed     int            `json:"completed"`
	Failed        int            `json:"failed"`
	Processing    int            `json:"processing"`
	DocumentTypes map[string]int `json:"document_types"`
}

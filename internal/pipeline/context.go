package pipeline

import (
	"github.com/Kayanalsakkaf/BasiraAajil/internal/documents"
	"github.com/Kayanalsakkaf/BasiraAajil/workflow"
)

// state carries intermediate results between stages of a single run.
// text holds the extracted document text; textErr preserves a text
// extraction failure so the classify and extract stages can degrade
// instead of aborting the run.
type state struct {
	doc     *documents.Document
	text    string
	textErr error

	docType    workflow.DocumentType
	extracted  map[string]any
	redacted   any
	detections []workflow.Detection
	valid      bool
}

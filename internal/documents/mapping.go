package documents

import (
	"net/url"

	"github.com/Kayanalsakkaf/BasiraAajil/pkg/query"
	"github.com/Kayanalsakkaf/BasiraAajil/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("storage_key", "StorageKey").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("current_stage", "CurrentStage").
	Project("document_type", "DocumentType").
	Project("status", "Status").
	Project("error_message", "ErrorMessage").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Status, DocumentType, and CurrentStage use exact
// matching. Filename uses case-insensitive contains matching.
type Filters struct {
	Status       *string `json:"status,omitempty"`
	DocumentType *string `json:"document_type,omitempty"`
	CurrentStage *string `json:"current_stage,omitempty"`
	Filename     *string `json:"filename,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("DocumentType", f.DocumentType).
		WhereEquals("CurrentStage", f.CurrentStage).
		WhereContains("Filename", f.Filename)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if dt := values.Get("document_type"); dt != "" {
		f.DocumentType = &dt
	}

	if cs := values.Get("current_stage"); cs != "" {
		f.CurrentStage = &cs
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.StorageKey,
		&d.ContentType,
		&d.SizeBytes,
		&d.CurrentStage,
		&d.DocumentType,
		&d.Status,
		&d.ErrorMessage,
		&d.UploadedAt,
		&d.UpdatedAt,
	)
	return d, err
}

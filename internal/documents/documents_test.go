package documents_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/Kayanalsakkaf/BasiraAajil/internal/documents"
	"github.com/Kayanalsakkaf/BasiraAajil/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", documents.ErrNotFound, http.StatusNotFound},
		{"duplicate", documents.ErrDuplicate, http.StatusConflict},
		{"file too large", documents.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid file", documents.ErrInvalidFile, http.StatusBadRequest},
		{"not a pdf", documents.ErrNotPDF, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", documents.ErrNotFound), http.StatusNotFound},
		{"wrapped duplicate", fmt.Errorf("insert failed: %w", documents.ErrDuplicate), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := documents.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"status":        {"processing"},
			"document_type": {"INVOICE"},
			"current_stage": {"redact_pii"},
			"filename":      {"report"},
		}

		f := documents.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != "processing" {
			t.Errorf("Status = %v, want processing", f.Status)
		}
		if f.DocumentType == nil || *f.DocumentType != "INVOICE" {
			t.Errorf("DocumentType = %v, want INVOICE", f.DocumentType)
		}
		if f.CurrentStage == nil || *f.CurrentStage != "redact_pii" {
			t.Errorf("CurrentStage = %v, want redact_pii", f.CurrentStage)
		}
		if f.Filename == nil || *f.Filename != "report" {
			t.Errorf("Filename = %v, want report", f.Filename)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := documents.FiltersFromQuery(url.Values{})

		if f.Status != nil {
			t.Errorf("Status = %v, want nil", f.Status)
		}
		if f.DocumentType != nil {
			t.Errorf("DocumentType = %v, want nil", f.DocumentType)
		}
		if f.CurrentStage != nil {
			t.Errorf("CurrentStage = %v, want nil", f.CurrentStage)
		}
		if f.Filename != nil {
			t.Errorf("Filename = %v, want nil", f.Filename)
		}
	})

	t.Run("partial params", func(t *testing.T) {
		values := url.Values{
			"status":   {"failed"},
			"filename": {"statement"},
		}

		f := documents.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != "failed" {
			t.Errorf("Status = %v, want failed", f.Status)
		}
		if f.Filename == nil || *f.Filename != "statement" {
			t.Errorf("Filename = %v, want statement", f.Filename)
		}
		if f.DocumentType != nil {
			t.Errorf("DocumentType = %v, want nil", f.DocumentType)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "documents", "d").
		Project("status", "Status").
		Project("document_type", "DocumentType").
		Project("current_stage", "CurrentStage").
		Project("filename", "Filename")

	t.Run("no filters produces no WHERE clause", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{}
		f.Apply(b)
		sql, args := b.Build()

		wantSQL := "SELECT d.status, d.document_type, d.current_stage, d.filename FROM public.documents d"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("status equals filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{Status: ptr("processing")}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
		if v, ok := args[0].(*string); !ok || *v != "processing" {
			t.Errorf("args[0] = %v, want *processing", args[0])
		}
	})

	t.Run("filename contains filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{Filename: ptr("report")}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 1 || args[0] != "%report%" {
			t.Errorf("args = %v, want [%%report%%]", args)
		}
	})

	t.Run("multiple filters combine with AND", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := documents.Filters{
			Status:       ptr("completed"),
			DocumentType: ptr("BANK_STATEMENT"),
			Filename:     ptr("report"),
		}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 3 {
			t.Errorf("args length = %d, want 3", len(args))
		}
	})
}

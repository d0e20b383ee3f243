// Package pipeline orchestrates the fixed document processing sequence:
// classify, extract, redact_pii, validate, record_lineage, promote_tiers.
// Each stage is committed as its own stage run; the first stage error marks
// the document failed and halts the sequence.
package pipeline

import (
	"log/slog"

	"github.com/Kayanalsakkaf/BasiraAajil/internal/documents"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/lineage"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/stageruns"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/tiers"
	"github.com/Kayanalsakkaf/BasiraAajil/pkg/pdftext"
)

// Runtime bundles the dependencies the pipeline needs to process a document.
type Runtime struct {
	Documents documents.System
	StageRuns stageruns.System
	Lineage   lineage.System
	Tiers     tiers.System
	Extractor pdftext.Extractor
	Logger    *slog.Logger
}

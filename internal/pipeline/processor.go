package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Kayanalsakkaf/BasiraAajil/internal/documents"
)

// stageFunc runs one pipeline stage. It returns the structured output to
// persist on the stage run and an optional confidence score. A non-nil error
// fails the stage and terminates the run.
type stageFunc func(ctx context.Context, rt *Runtime, st *state) (map[string]any, *float64, error)

type stage struct {
	name string
	run  stageFunc
}

// The stage sequence is fixed. Order matters: extraction depends on the
// classified type, redaction and validation depend on extracted fields, and
// promotion depends on the validation verdict.
var stages = []stage{
	{"classify", runClassify},
	{"extract", runExtract},
	{"redact_pii", runRedact},
	{"validate", runValidate},
	{"record_lineage", runLineage},
	{"promote_tiers", runPromote},
}

// Process runs the full stage sequence for a document. A document deleted
// before processing starts is a no-op. The first stage error marks both the
// stage run and the document failed and halts the sequence; the returned
// error carries the same failure message recorded on the document.
func Process(ctx context.Context, rt *Runtime, documentID uuid.UUID) error {
	doc, err := rt.Documents.Find(ctx, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			rt.Logger.Warn("document gone before processing", "id", documentID)
			return nil
		}
		return fmt.Errorf("load document %s: %w", documentID, err)
	}

	st := &state{doc: doc}
	st.text, st.textErr = rt.Extractor.Text(ctx, doc.StorageKey)
	if st.textErr != nil {
		rt.Logger.Warn("text extraction failed",
			"id", documentID,
			"error", st.textErr,
		)
	}

	for _, stg := range stages {
		if err := runStage(ctx, rt, st, stg); err != nil {
			msg := fmt.Sprintf("Failed at stage %s: %s", stg.name, err)
			if failErr := rt.Documents.Fail(ctx, documentID, msg); failErr != nil {
				rt.Logger.Error("failed to mark document failed",
					"id", documentID,
					"error", failErr,
				)
			}
			return errors.New(msg)
		}
	}

	if err := rt.Documents.Complete(ctx, documentID); err != nil {
		return fmt.Errorf("complete document %s: %w", documentID, err)
	}

	rt.Logger.Info("document processed", "id", documentID)
	return nil
}

func runStage(ctx context.Context, rt *Runtime, st *state, stg stage) error {
	if err := rt.Documents.SetStage(ctx, st.doc.ID, stg.name); err != nil {
		return fmt.Errorf("set current stage: %w", err)
	}

	run, err := rt.StageRuns.Begin(ctx, st.doc.ID, stg.name)
	if err != nil {
		return fmt.Errorf("begin stage run: %w", err)
	}

	output, confidence, err := stg.run(ctx, rt, st)
	if err != nil {
		if _, failErr := rt.StageRuns.Fail(ctx, run.ID, err.Error()); failErr != nil {
			rt.Logger.Error("failed to mark stage run failed",
				"id", run.ID,
				"stage", stg.name,
				"error", failErr,
			)
		}
		return err
	}

	if _, err := rt.StageRuns.Complete(ctx, run.ID, output, confidence); err != nil {
		return fmt.Errorf("complete stage run: %w", err)
	}

	return nil
}

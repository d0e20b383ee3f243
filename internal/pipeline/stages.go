package pipeline

import (
	"context"
	"fmt"

	"github.com/Kayanalsakkaf/BasiraAajil/internal/lineage"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/tiers"
	"github.com/Kayanalsakkaf/BasiraAajil/workflow"
)

// runClassify assigns a document type from the extracted text. A text
// extraction failure does not abort the run: the document is classified
// UNKNOWN at zero confidence and the error is preserved in the stage output.
func runClassify(ctx context.Context, rt *Runtime, st *state) (map[string]any, *float64, error) {
	if st.textErr != nil {
		st.docType = workflow.TypeUnknown

		if err := rt.Documents.SetType(ctx, st.doc.ID, string(st.docType)); err != nil {
			return nil, nil, fmt.Errorf("set document type: %w", err)
		}

		confidence := 0.0
		output := map[string]any{
			"document_type": string(workflow.TypeUnknown),
			"confidence":    0.0,
			"error":         st.textErr.Error(),
			"model_version": workflow.ClassifierVersion,
		}
		return output, &confidence, nil
	}

	result := workflow.Classify(st.text)
	st.docType = result.Type

	if err := rt.Documents.SetType(ctx, st.doc.ID, string(result.Type)); err != nil {
		return nil, nil, fmt.Errorf("set document type: %w", err)
	}

	return result.Output, &result.Confidence, nil
}

// runExtract pulls structured fields from the document text using the rules
// for the classified type. When text extraction failed earlier, a diagnostic
// string stands in for the text so extraction still produces a field mapping.
func runExtract(_ context.Context, _ *Runtime, st *state) (map[string]any, *float64, error) {
	text := st.text
	if st.textErr != nil {
		text = fmt.Sprintf("Error extracting text: %s", st.textErr)
	}

	result := workflow.Extract(text, st.docType)
	st.extracted = result.Fields

	return result.Fields, &result.Confidence, nil
}

// runRedact replaces PII in the extracted fields with placeholder tokens.
// Confidence is 1.0 when detections were made and 0.95 for a clean document.
func runRedact(_ context.Context, _ *Runtime, st *state) (map[string]any, *float64, error) {
	result := workflow.Redact(st.extracted)
	st.redacted = result.Data
	st.detections = result.Detections

	confidence := 0.95
	if len(result.Detections) > 0 {
		confidence = 1.0
	}

	return result.Output, &confidence, nil
}

// runValidate applies the mandatory-field rules for the classified type.
// Validation runs against the redacted mapping, so the rules judge the data
// that downstream tiers will actually carry.
func runValidate(_ context.Context, _ *Runtime, st *state) (map[string]any, *float64, error) {
	fields, _ := st.redacted.(map[string]any)
	result := workflow.Validate(fields, st.docType)
	st.valid = result.Valid

	return result.Output, &result.Confidence, nil
}

// runLineage records the processing-completed lineage event carrying the
// model versions that touched this document.
func runLineage(ctx context.Context, rt *Runtime, st *state) (map[string]any, *float64, error) {
	classifier := workflow.ClassifierVersion
	extractor := workflow.ExtractorVersion
	validator := workflow.ValidatorVersion

	event, err := rt.Lineage.Append(ctx, lineage.AppendCommand{
		DocumentID:        st.doc.ID,
		EventType:         lineage.EventProcessed,
		ClassifierVersion: &classifier,
		ExtractorVersion:  &extractor,
		ValidatorVersion:  &validator,
		CorrelationID:     lineage.CorrelationID(st.doc.ID),
		Metadata: map[string]any{
			"document_type": string(st.docType),
			"is_valid":      st.valid,
			"pii_detected":  len(st.detections),
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("record lineage event: %w", err)
	}

	output := map[string]any{
		"event_id":       event.ID,
		"event_type":     event.EventType,
		"correlation_id": event.CorrelationID,
	}
	return output, nil, nil
}

// runPromote writes the tier snapshots. Raw and redacted snapshots are
// always written; the curated snapshot only when validation passed.
func runPromote(ctx context.Context, rt *Runtime, st *state) (map[string]any, *float64, error) {
	if _, err := rt.Tiers.Append(ctx, tiers.AppendCommand{
		DocumentID: st.doc.ID,
		Layer:      tiers.LayerRaw,
		Data: map[string]any{
			"source_path":      st.doc.StorageKey,
			"upload_timestamp": st.doc.UploadedAt,
			"document_metadata": map[string]any{
				"filename":     st.doc.Filename,
				"content_type": st.doc.ContentType,
				"size_bytes":   st.doc.SizeBytes,
			},
		},
	}); err != nil {
		return nil, nil, fmt.Errorf("write raw snapshot: %w", err)
	}

	if _, err := rt.Tiers.Append(ctx, tiers.AppendCommand{
		DocumentID: st.doc.ID,
		Layer:      tiers.LayerRedacted,
		Data: map[string]any{
			"redacted_data":    st.redacted,
			"pii_redacted":     len(st.detections) > 0,
			"extraction_model": workflow.ExtractorVersion,
		},
	}); err != nil {
		return nil, nil, fmt.Errorf("write redacted snapshot: %w", err)
	}

	if st.valid {
		if _, err := rt.Tiers.Append(ctx, tiers.AppendCommand{
			DocumentID: st.doc.ID,
			Layer:      tiers.LayerCurated,
			Data: map[string]any{
				"curated_data":        st.redacted,
				"document_type":       string(st.docType),
				"validation_status":   "VALIDATED_SUCCESS",
				"ready_for_analytics": true,
			},
		}); err != nil {
			return nil, nil, fmt.Errorf("write curated snapshot: %w", err)
		}
	}

	output := map[string]any{
		"raw_created":      true,
		"redacted_created": true,
		"curated_created":  st.valid,
	}
	return output, nil, nil
}

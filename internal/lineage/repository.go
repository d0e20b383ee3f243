package lineage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Kayanalsakkaf/BasiraAajil/pkg/repository"
)

const eventColumns = `id, document_id, event_type, classifier_version, extractor_version, validator_version, correlation_id, metadata, created_at`

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a lineage repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "lineage"),
	}
}

func (r *repo) Append(ctx context.Context, cmd AppendCommand) (*Event, error) {
	metadataJSON, err := json.Marshal(cmd.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal lineage metadata: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO lineage_events(
			document_id, event_type, classifier_version, extractor_version,
			validator_version, correlation_id, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, eventColumns)

	args := []any{
		cmd.DocumentID,
		cmd.EventType,
		cmd.ClassifierVersion,
		cmd.ExtractorVersion,
		cmd.ValidatorVersion,
		cmd.CorrelationID,
		metadataJSON,
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Event, error) {
		return repository.QueryOne(ctx, tx, q, args, scanEvent)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("lineage event recorded",
		"document_id", e.DocumentID,
		"event_type", e.EventType,
		"correlation_id", e.CorrelationID,
	)
	return &e, nil
}

func (r *repo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Event, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM lineage_events
		WHERE document_id = $1
		ORDER BY created_at, id`, eventColumns)

	events, err := repository.QueryMany(ctx, r.db, q, []any{documentID}, scanEvent)
	if err != nil {
		return nil, fmt.Errorf("query lineage events: %w", err)
	}
	return events, nil
}

func scanEvent(s repository.Scanner) (Event, error) {
	var e Event
	var metadataRaw []byte

	err := s.Scan(
		&e.ID,
		&e.DocumentID,
		&e.EventType,
		&e.ClassifierVersion,
		&e.ExtractorVersion,
		&e.ValidatorVersion,
		&e.CorrelationID,
		&metadataRaw,
		&e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &e.Metadata); err != nil {
			return e, fmt.Errorf("unmarshal lineage metadata: %w", err)
		}
	}

	return e, nil
}

package tiers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Kayanalsakkaf/BasiraAajil/pkg/repository"
)

const snapshotColumns = `id, document_id, layer, data, created_at`

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a tier snapshot repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "tiers"),
	}
}

func (r *repo) Append(ctx context.Context, cmd AppendCommand) (*Snapshot, error) {
	dataJSON, err := json.Marshal(cmd.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal tier data: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO tier_snapshots(document_id, layer, data)
		VALUES ($1, $2, $3)
		RETURNING %s`, snapshotColumns)

	snap, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Snapshot, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.DocumentID, cmd.Layer, dataJSON}, scanSnapshot)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("tier snapshot recorded",
		"document_id", snap.DocumentID,
		"layer", snap.Layer,
	)
	return &snap, nil
}

func (r *repo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Snapshot, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM tier_snapshots
		WHERE document_id = $1
		ORDER BY created_at, id`, snapshotColumns)

	snaps, err := repository.QueryMany(ctx, r.db, q, []any{documentID}, scanSnapshot)
	if err != nil {
		return nil, fmt.Errorf("query tier snapshots: %w", err)
	}
	return snaps, nil
}

func scanSnapshot(s repository.Scanner) (Snapshot, error) {
	var snap Snapshot
	var dataRaw []byte

	err := s.Scan(
		&snap.ID,
		&snap.DocumentID,
		&snap.Layer,
		&dataRaw,
		&snap.CreatedAt,
	)
	if err != nil {
		return snap, err
	}

	if len(dataRaw) > 0 {
		if err := json.Unmarshal(dataRaw, &snap.Data); err != nil {
			return snap, fmt.Errorf("unmarshal tier data: %w", err)
		}
	}

	return snap, nil
}

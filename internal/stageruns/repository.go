package stageruns

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Kayanalsakkaf/BasiraAajil/pkg/repository"
)

const runColumns = `id, document_id, stage_name, status, started_at, completed_at, output, confidence, error_message`

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a stage run repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "stageruns"),
	}
}

func (r *repo) Begin(ctx context.Context, documentID uuid.UUID, stageName string) (*StageRun, error) {
	q := fmt.Sprintf(`
		INSERT INTO stage_runs(document_id, stage_name, status)
		VALUES ($1, $2, $3)
		RETURNING %s`, runColumns)

	run, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (StageRun, error) {
		return repository.QueryOne(ctx, tx, q, []any{documentID, stageName, StatusRunning}, scanStageRun)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("stage started", "document_id", documentID, "stage", stageName)
	return &run, nil
}

func (r *repo) Complete(
	ctx context.Context,
	id int64,
	output map[string]any,
	confidence *float64,
) (*StageRun, error) {
	outputJSON, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("marshal stage output: %w", err)
	}

	q := fmt.Sprintf(`
		UPDATE stage_runs
		SET status = $2, completed_at = now(), output = $3, confidence = $4
		WHERE id = $1
		RETURNING %s`, runColumns)

	run, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (StageRun, error) {
		return repository.QueryOne(ctx, tx, q, []any{id, StatusCompleted, outputJSON, confidence}, scanStageRun)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("stage completed",
		"document_id", run.DocumentID,
		"stage", run.StageName,
		"confidence", confidence,
	)
	return &run, nil
}

func (r *repo) Fail(ctx context.Context, id int64, message string) (*StageRun, error) {
	q := fmt.Sprintf(`
		UPDATE stage_runs
		SET status = $2, completed_at = now(), error_message = $3
		WHERE id = $1
		RETURNING %s`, runColumns)

	run, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (StageRun, error) {
		return repository.QueryOne(ctx, tx, q, []any{id, StatusFailed, message}, scanStageRun)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Warn("stage failed",
		"document_id", run.DocumentID,
		"stage", run.StageName,
		"error", message,
	)
	return &run, nil
}

func (r *repo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]StageRun, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM stage_runs
		WHERE document_id = $1
		ORDER BY started_at, id`, runColumns)

	runs, err := repository.QueryMany(ctx, r.db, q, []any{documentID}, scanStageRun)
	if err != nil {
		return nil, fmt.Errorf("query stage runs: %w", err)
	}
	return runs, nil
}

func scanStageRun(s repository.Scanner) (StageRun, error) {
	var run StageRun
	var outputRaw []byte

	err := s.Scan(
		&run.ID,
		&run.DocumentID,
		&run.StageName,
		&run.Status,
		&run.StartedAt,
		&run.CompletedAt,
		&outputRaw,
		&run.Confidence,
		&run.ErrorMessage,
	)
	if err != nil {
		return run, err
	}

	if len(outputRaw) > 0 {
		if err := json.Unmarshal(outputRaw, &run.Output); err != nil {
			return run, fmt.Errorf("unmarshal stage output: %w", err)
		}
	}

	return run, nil
}

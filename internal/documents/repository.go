package documents

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Kayanalsakkaf/BasiraAajil/pkg/pagination"
	"github.com/Kayanalsakkaf/BasiraAajil/pkg/query"
	"github.com/Kayanalsakkaf/BasiraAajil/pkg/repository"
	"github.com/Kayanalsakkaf/BasiraAajil/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(deps HandlerDeps) *Handler {
	return NewHandler(r, r.logger, r.pagination, deps)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "DocumentType")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := `
		INSERT INTO documents(id, filename, storage_key, content_type, size_bytes, current_stage, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, filename, storage_key, content_type, size_bytes, current_stage, document_type, status, error_message, uploaded_at, updated_at`

	insertArgs := []any{
		id,
		cmd.Filename,
		key,
		cmd.ContentType,
		int64(len(cmd.Data)),
		StageQueued,
		StatusProcessing,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", d.ID, "filename", d.Filename)
	return &d, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	err = repository.ExecTx(ctx, r.db, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", doc.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func (r *repo) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{DocumentTypes: make(map[string]int)}

	q := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3)
		FROM documents`

	err := r.db.QueryRowContext(
		ctx, q,
		StatusCompleted, StatusFailed, StatusProcessing,
	).Scan(&stats.Total, &stats.Completed, &stats.Failed, &stats.Processing)
	if err != nil {
		return nil, fmt.Errorf("count document statuses: %w", err)
	}

	rows, err := r.db.QueryContext(
		ctx,
		"SELECT document_type, COUNT(*) FROM documents WHERE document_type IS NOT NULL GROUP BY document_type",
	)
	if err != nil {
		return nil, fmt.Errorf("count document types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docType string
		var count int
		if err := rows.Scan(&docType, &count); err != nil {
			return nil, fmt.Errorf("scan document type count: %w", err)
		}
		stats.DocumentTypes[docType] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document type counts: %w", err)
	}

	return stats, nil
}

func (r *repo) SetStage(ctx context.Context, id uuid.UUID, stage string) error {
	return r.exec(
		ctx,
		"UPDATE documents SET current_stage = $2, updated_at = now() WHERE id = $1",
		id, stage,
	)
}

func (r *repo) SetType(ctx context.Context, id uuid.UUID, documentType string) error {
	return r.exec(
		ctx,
		"UPDATE documents SET document_type = $2, updated_at = now() WHERE id = $1",
		id, documentType,
	)
}

func (r *repo) Complete(ctx context.Context, id uuid.UUID) error {
	err := r.exec(
		ctx,
		"UPDATE documents SET status = $2, current_stage = $3, updated_at = now() WHERE id = $1",
		id, StatusCompleted, StageCompleted,
	)
	if err != nil {
		return err
	}

	r.logger.Info("document completed", "id", id)
	return nil
}

func (r *repo) Fail(ctx context.Context, id uuid.UUID, message string) error {
	err := r.exec(
		ctx,
		"UPDATE documents SET status = $2, error_message = $3, updated_at = now() WHERE id = $1",
		id, StatusFailed, message,
	)
	if err != nil {
		return err
	}

	r.logger.Warn("document failed", "id", id, "error", message)
	return nil
}

func (r *repo) exec(ctx context.Context, q string, id uuid.UUID, args ...any) error {
	err := repository.ExecTx(ctx, r.db, q, append([]any{id}, args...)...)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}

package stageruns

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for stage run operations. Each method
// commits immediately so stage history survives a later pipeline failure.
type System interface {
	Begin(ctx context.Context, documentID uuid.UUID, stageName string) (*StageRun, error)
	Complete(ctx context.Context, id int64, output map[string]any, confidence *float64) (*StageRun, error)
	Fail(ctx context.Context, id int64, message string) (*StageRun, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]StageRun, error)
}

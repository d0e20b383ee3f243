package lineage

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for lineage operations.
type System interface {
	Append(ctx context.Context, cmd AppendCommand) (*Event, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Event, error)
}

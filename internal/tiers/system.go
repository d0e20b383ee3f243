package tiers

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for tier snapshot operations.
type System interface {
	Append(ctx context.Context, cmd AppendCommand) (*Snapshot, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Snapshot, error)
}

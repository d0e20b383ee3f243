package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/Kayanalsakkaf/BasiraAajil/internal/lineage"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/stageruns"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/tiers"
	"github.com/Kayanalsakkaf/BasiraAajil/pkg/pagination"
)

// Dispatcher starts asynchronous pipeline processing for a document.
// Implemented by the pipeline package; accepted as an interface so the
// handler stays decoupled from orchestration.
type Dispatcher interface {
	Dispatch(id uuid.UUID)
}

// System defines the public contract for document domain operations.
// The stage-mutation operations (SetStage, SetType, Complete, Fail) are
// invoked by the pipeline orchestrator and commit immediately.
type System interface {
	Handler(deps HandlerDeps) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)

	SetStage(ctx context.Context, id uuid.UUID, stage string) error
	SetType(ctx context.Context, id uuid.UUID, documentType string) error
	Complete(ctx context.Context, id uuid.UUID) error
	Fail(ctx context.Context, id uuid.UUID, message string) error
}

// HandlerDeps bundles the collaborator systems the HTTP handler needs beyond
// the document system itself: upload dispatch and the child-record systems
// surfaced by the detail endpoint.
type HandlerDeps struct {
	StageRuns     stageruns.System
	Lineage       lineage.System
	Tiers         tiers.System
	Dispatcher    Dispatcher
	MaxUploadSize int64
}

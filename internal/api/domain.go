package api

import (
	"github.com/Kayanalsakkaf/BasiraAajil/internal/config"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/documents"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/lineage"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/pipeline"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/stageruns"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/tiers"
	"github.com/Kayanalsakkaf/BasiraAajil/pkg/pdftext"
)

// Domain holds all domain systems that comprise the API, plus the pipeline
// dispatcher that connects uploads to asynchronous processing.
type Domain struct {
	Documents  documents.System
	StageRuns  stageruns.System
	Lineage    lineage.System
	Tiers      tiers.System
	Dispatcher *pipeline.Dispatcher
}

// NewDomain creates all domain systems from the API runtime and wires the
// pipeline dispatcher. Dispatched runs observe the lifecycle context and are
// drained during shutdown.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	docsSystem := documents.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)
	runsSystem := stageruns.New(db, runtime.Logger)
	lineageSystem := lineage.New(db, runtime.Logger)
	tiersSystem := tiers.New(db, runtime.Logger)

	rt := &pipeline.Runtime{
		Documents: docsSystem,
		StageRuns: runsSystem,
		Lineage:   lineageSystem,
		Tiers:     tiersSystem,
		Extractor: pdftext.New(runtime.Storage, runtime.Logger),
		Logger:    runtime.Logger.With("system", "pipeline"),
	}

	dispatcher := pipeline.NewDispatcher(
		rt,
		runtime.Lifecycle.Context(),
		int64(cfg.Pipeline.MaxConcurrency),
	)

	runtime.Lifecycle.OnShutdown(func() {
		<-runtime.Lifecycle.Context().Done()
		dispatcher.Drain()
	})

	return &Domain{
		Documents:  docsSystem,
		StageRuns:  runsSystem,
		Lineage:    lineageSystem,
		Tiers:      tiersSystem,
		Dispatcher: dispatcher,
	}
}

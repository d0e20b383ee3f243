package api

import (
	"net/http"

	"github.com/Kayanalsakkaf/BasiraAajil/internal/config"
	"github.com/Kayanalsakkaf/BasiraAajil/internal/documents"
	"github.com/Kayanalsakkaf/BasiraAajil/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	deps := documents.HandlerDeps{
		StageRuns:     domain.StageRuns,
		Lineage:       domain.Lineage,
		Tiers:         domain.Tiers,
		Dispatcher:    domain.Dispatcher,
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
	}

	routes.Register(
		mux,
		domain.Documents.Handler(deps).Routes(),
	)
}

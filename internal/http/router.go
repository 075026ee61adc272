package httpx

import (
	"encoding/json"
	"net/http"

	"paygate/internal/http/handlers"
	middlewarex "paygate/internal/http/middleware"
	"paygate/internal/metrics"
	"paygate/internal/provider"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	APIToken         string
	ProviderRegistry *provider.Registry
	Watchlist        handlers.Watcher        // optional
	Snapshots        handlers.SnapshotReader // optional
}

// NewRouter creates the HTTP router exposing the connector operations
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "ok",
			"providers": deps.ProviderRegistry.ListProviders(),
		})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// API routes (protected by API token)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarex.APIKeyAuth(deps.APIToken))

		r.Get("/checkout", handlers.Checkout(deps.ProviderRegistry))
		r.Get("/errors/{code}", handlers.DescribeError(deps.ProviderRegistry))
		r.Post("/transactions/verify", handlers.VerifyReport(deps.ProviderRegistry))
		r.Get("/transactions/{sessionID}", handlers.GetState(deps.ProviderRegistry))

		if deps.Watchlist != nil {
			r.Post("/transactions/{sessionID}/watch", handlers.Watch(deps.Watchlist))
		}
		if deps.Snapshots != nil {
			r.Get("/transactions/{sessionID}/snapshot", handlers.LatestSnapshot(deps.Snapshots))
			r.Get("/transactions/{sessionID}/snapshots", handlers.ListSnapshots(deps.Snapshots))
		}
	})

	return r
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chatgenius-context/internal/handlers"
	"chatgenius-context/internal/retrieval"
	"chatgenius-context/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine           retrieval.Engine
	Assistant        service.AssistantService
	HealthChecker    handlers.CollectionChecker
	HealthCollection []string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	retrieveHandler := handlers.NewRetrieveHandler(deps.Engine)
	assistHandler := handlers.NewAssistHandler(deps.Assistant)
	healthHandler := handlers.NewHealthHandler(deps.HealthChecker, deps.HealthCollection...)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/retrieve", retrieveHandler)
		r.Method(http.MethodPost, "/assist", assistHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

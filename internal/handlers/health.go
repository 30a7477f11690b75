package handlers

import (
	"context"
	"net/http"

	"chatgenius-context/internal/contextutil"
)

// CollectionChecker reports whether a vector index collection exists.
type CollectionChecker interface {
	CollectionExists(ctx context.Context, collection string) (bool, error)
}

// HealthHandler reports service health including vector index readiness.
type HealthHandler struct {
	checker     CollectionChecker
	collections []string
}

// NewHealthHandler creates a new HealthHandler checking the given
// collections.
func NewHealthHandler(checker CollectionChecker, collections ...string) *HealthHandler {
	return &HealthHandler{checker: checker, collections: collections}
}

// HealthResponse represents the health check payload.
type HealthResponse struct {
	Status      string          `json:"status"`
	Collections map[string]bool `json:"collections"`
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	resp := HealthResponse{
		Status:      "ok",
		Collections: make(map[string]bool, len(h.collections)),
	}

	for _, collection := range h.collections {
		exists, err := h.checker.CollectionExists(ctx, collection)
		if err != nil {
			logger.WarnContext(ctx, "collection check failed", "collection", collection, "error", err)
			exists = false
		}
		resp.Collections[collection] = exists
		if !exists {
			resp.Status = "degraded"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

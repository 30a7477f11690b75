package handlers

import (
	"encoding/json"
	"net/http"

	"chatgenius-context/internal/contextutil"
	"chatgenius-context/internal/retrieval"
)

// RetrieveHandler handles HTTP requests for context retrieval.
type RetrieveHandler struct {
	engine retrieval.Engine
}

// NewRetrieveHandler creates a new RetrieveHandler.
func NewRetrieveHandler(engine retrieval.Engine) *RetrieveHandler {
	return &RetrieveHandler{engine: engine}
}

// RetrieveRequest represents the HTTP request payload for retrieval.
type RetrieveRequest struct {
	Query       string  `json:"query"`
	UserID      string  `json:"user_id"`
	ChannelID   string  `json:"channel_id"`
	ChannelType string  `json:"channel_type"`
	TopK        int     `json:"top_k"`
	Threshold   float32 `json:"threshold"`
}

// ServeHTTP handles POST /api/retrieve.
func (h *RetrieveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.TopK == 0 {
		req.TopK = 10
	}
	if req.Threshold == 0 {
		req.Threshold = 0.3
	}

	result, err := h.engine.Retrieve(ctx, retrieval.Query{
		Text:        req.Query,
		UserID:      req.UserID,
		ChannelID:   req.ChannelID,
		ChannelType: req.ChannelType,
		TopK:        req.TopK,
		Threshold:   req.Threshold,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to retrieve context")
		return
	}

	// Degraded stages still produce a 200 with whatever items survived.
	writeJSON(w, http.StatusOK, result)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"chatgenius-context/internal/contextutil"
	"chatgenius-context/internal/service"
)

// AssistHandler handles HTTP requests for grounded assistant replies.
type AssistHandler struct {
	assistant service.AssistantService
}

// NewAssistHandler creates a new AssistHandler.
func NewAssistHandler(assistant service.AssistantService) *AssistHandler {
	return &AssistHandler{assistant: assistant}
}

// AssistRequest represents the HTTP request payload for the assistant.
type AssistRequest struct {
	Message     string `json:"message"`
	UserID      string `json:"user_id"`
	ChannelID   string `json:"channel_id"`
	ChannelType string `json:"channel_type"`
}

// AssistResponse represents the HTTP response payload for the assistant.
type AssistResponse struct {
	Response    string  `json:"response"`
	ContextUsed int     `json:"context_used"`
	Confidence  float32 `json:"confidence"`
}

// ServeHTTP handles POST /api/assist.
func (h *AssistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AssistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.assistant.Assist(ctx, service.AssistRequest{
		Message:     req.Message,
		UserID:      req.UserID,
		ChannelID:   req.ChannelID,
		ChannelType: req.ChannelType,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process assist request")
		return
	}

	writeJSON(w, http.StatusOK, AssistResponse{
		Response:    resp.Response,
		ContextUsed: resp.ContextUsed,
		Confidence:  resp.Confidence,
	})
}

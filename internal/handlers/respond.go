package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"chatgenius-context/internal/contextutil"
	"chatgenius-context/internal/retrieval"
	"chatgenius-context/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// handleServiceError maps service and retrieval errors to HTTP status codes.
// Provider degradation never reaches here; only validation and hard
// completion failures do.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var retrievalValidation *retrieval.ValidationError
	if errors.As(err, &retrievalValidation) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", retrievalValidation.Error()))
		return
	}

	var serviceValidation *service.ValidationError
	if errors.As(err, &serviceValidation) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", serviceValidation.Error()))
		return
	}

	if errors.Is(err, retrieval.ErrInvalidInput) || errors.Is(err, service.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if errors.Is(err, service.ErrExternalService) {
		writeError(w, http.StatusBadGateway, "External service error")
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
}

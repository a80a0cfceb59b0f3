package engagement

import (
	"errors"
	"log/slog"
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/core/reactions"
)

// handleServiceError converts service errors to appropriate HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *reactions.ValidationError
	switch {
	case errors.As(err, &validationErr):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", validationErr.Field+" "+validationErr.Message)
	case errors.Is(err, reactions.ErrUnauthenticated):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
	default:
		// Internal server error - log the actual error for debugging
		slog.Error("engagement handler error", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}

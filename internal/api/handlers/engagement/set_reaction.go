package engagement

import (
	"encoding/json"
	"net/http"

	"Agora/internal/api/handlers"
	"Agora/internal/api/middleware"
	"Agora/internal/core/reactions"
)

// maxRequestBody caps the reaction request body
const maxRequestBody = 1 << 10

// SetReactionHandler handles reaction writes
type SetReactionHandler struct {
	service reactions.Service
}

// NewSetReactionHandler creates a new set reaction handler
func NewSetReactionHandler(service reactions.Service) *SetReactionHandler {
	return &SetReactionHandler{service: service}
}

// HandleSetReaction sets, switches or clears the viewer's reaction
// POST /engagement
//
// Request body: { "entityKind": "post" | "comment", "entityId": 1, "reaction": "none" | "liked" | "disliked" }
// Response: the entity's summary after the write
func (h *SetReactionHandler) HandleSetReaction(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetViewerID(r)
	if viewerID <= 0 {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	var req reactions.SetReactionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.Reaction == nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "reaction is required")
		return
	}

	summary, err := h.service.SetReaction(r.Context(), viewerID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, summary)
}

package engagement

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Agora/internal/api/handlers"
	"Agora/internal/api/middleware"
	"Agora/internal/core/engagement"
	"Agora/internal/core/reactions"
)

// GetEngagementHandler serves an entity's totals and the viewer's reaction
type GetEngagementHandler struct {
	service reactions.Service
}

// NewGetEngagementHandler creates a new get engagement handler
func NewGetEngagementHandler(service reactions.Service) *GetEngagementHandler {
	return &GetEngagementHandler{service: service}
}

// HandleGetEngagement returns the engagement summary of a post or comment
// GET /engagement/{kind}/{id}
//
// Response: { "totalLikes": 3, "totalDislikes": 1, "viewerReaction": "none" | "liked" | "disliked" }
func (h *GetEngagementHandler) HandleGetEngagement(w http.ResponseWriter, r *http.Request) {
	kind, err := engagement.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "kind must be post or comment")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "id must be a positive integer")
		return
	}

	// Anonymous viewers get viewerReaction "none"
	viewerID := middleware.GetViewerID(r)

	summary, err := h.service.GetSummary(r.Context(), engagement.EntityRef{Kind: kind, ID: id}, viewerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, summary)
}

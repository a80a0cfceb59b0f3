package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"Agora/internal/api/handlers/engagement"
	"Agora/internal/api/middleware"
	"Agora/internal/core/reactions"
)

// RegisterEngagementRoutes registers the reaction endpoints on the router
// Reads are public (anonymous viewers see reaction "none"); writes require a token
func RegisterEngagementRoutes(r chi.Router, service reactions.Service, authMiddleware *middleware.AuthMiddleware, allowedOrigins []string) {
	getHandler := engagement.NewGetEngagementHandler(service)
	setHandler := engagement.NewSetReactionHandler(service)

	r.Group(func(r chi.Router) {
		// The browser client calls from its own origin
		r.Use(corsMiddleware(allowedOrigins))

		r.With(authMiddleware.OptionalAuth).Get("/engagement/{kind}/{id}", getHandler.HandleGetEngagement)
		r.With(authMiddleware.RequireAuth).Post("/engagement", setHandler.HandleSetReaction)

		// CORS preflight for the routes above
		r.Options("/engagement", noContent)
		r.Options("/engagement/{kind}/{id}", noContent)
	})
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// corsMiddleware creates a CORS middleware for the browser client's origins
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"accessToken",
		},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})
}

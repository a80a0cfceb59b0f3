package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"Agora/internal/auth"
)

// Context keys for storing viewer information
type contextKey string

const (
	ViewerIDKey    contextKey = "viewer_id"
	TokenClaimsKey contextKey = "token_claims"
)

// legacyTokenHeader is the header older browser clients send the raw token in
const legacyTokenHeader = "accessToken"

// AuthMiddleware enforces bearer token authentication for protected routes.
// Tokens are HS256 JWTs signed with the service secret and are read from
// "Authorization: Bearer <token>" or the legacy "accessToken: <token>" header.
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates a new auth middleware verifying tokens with secret
func NewAuthMiddleware(secret []byte) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

// RequireAuth middleware ensures the viewer is authenticated with a valid token.
// If not authenticated, returns 401.
// If authenticated, injects the viewer id and token claims into context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractToken(r)
		if !ok {
			writeAuthError(w, "Missing access token")
			return
		}

		claims, err := auth.VerifyToken(m.secret, token)
		if err != nil {
			log.Printf("[AUTH_FAILURE] type=verification_failed ip=%s method=%s path=%s error=%v",
				r.RemoteAddr, r.Method, r.URL.Path, err)
			writeAuthError(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuth middleware loads viewer info if authenticated, but doesn't require it.
// Engagement reads work for anonymous viewers, who simply have no reaction.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.VerifyToken(m.secret, token)
		if err != nil {
			// Invalid token - continue as anonymous
			log.Printf("Optional auth failed: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	// VerifyToken already rejected non-numeric subjects
	viewerID, _ := claims.ViewerID()

	ctx = context.WithValue(ctx, ViewerIDKey, viewerID)
	ctx = context.WithValue(ctx, TokenClaimsKey, claims)
	return ctx
}

// extractToken reads the token from the Authorization header, falling back to
// the legacy accessToken header
func extractToken(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return "", false
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		return token, token != ""
	}

	token := strings.TrimSpace(r.Header.Get(legacyTokenHeader))
	return token, token != ""
}

// GetViewerID extracts the viewer id from the request context.
// Returns 0 if not authenticated.
func GetViewerID(r *http.Request) int64 {
	id, _ := r.Context().Value(ViewerIDKey).(int64)
	return id
}

// GetTokenClaims extracts the token claims from the request context.
// Returns nil if not authenticated.
func GetTokenClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(TokenClaimsKey).(*auth.Claims)
	return claims
}

// SetTestViewerID sets the viewer id in the context for testing purposes.
// This function should ONLY be used in tests to mock authenticated viewers.
func SetTestViewerID(ctx context.Context, viewerID int64) context.Context {
	return context.WithValue(ctx, ViewerIDKey, viewerID)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	response := `{"error":"AuthenticationRequired","message":"` + message + `"}`
	if _, err := w.Write([]byte(response)); err != nil {
		log.Printf("Failed to write auth error response: %v", err)
	}
}

package auth

import (
	"sync"
	"time"

	"Agora/internal/core/engagement"
)

// Session holds the current viewer's bearer token on the client side.
// It answers who the viewer is and supplies the token to outgoing requests.
// An expired token counts as logged out.
type Session struct {
	mu     sync.RWMutex
	token  string
	claims *Claims
	now    func() time.Time
}

var _ engagement.Authenticator = (*Session)(nil)

// NewSession creates an anonymous session.
func NewSession() *Session {
	return &Session{now: time.Now}
}

// SetToken logs the session in with token. The token's claims are read but not
// verified; the server does that.
func (s *Session) SetToken(token string) error {
	claims, err := ParseToken(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = stripBearerPrefix(token)
	s.claims = claims
	return nil
}

// Clear logs the session out.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.claims = nil
}

// Token returns the bearer token, or "" when logged out or expired.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked() {
		return ""
	}
	return s.token
}

// CurrentViewer returns the logged-in viewer.
func (s *Session) CurrentViewer() (engagement.Viewer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked() {
		return engagement.Viewer{}, false
	}

	id, err := s.claims.ViewerID()
	if err != nil {
		return engagement.Viewer{}, false
	}
	return engagement.Viewer{ID: id, Username: s.claims.Username}, true
}

// IsAuthenticated reports whether the session holds an unexpired token.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validLocked()
}

func (s *Session) validLocked() bool {
	if s.claims == nil {
		return false
	}
	if exp := s.claims.ExpiresAt; exp != nil && !s.now().Before(exp.Time) {
		return false
	}
	return true
}

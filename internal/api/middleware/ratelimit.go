package middleware

import (
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter table; the least recently seen
// client is forgotten first
const maxTrackedClients = 10000

// RateLimiter implements a per-client token bucket rate limiter.
// For multi-instance deployments, use a shared store instead.
type RateLimiter struct {
	clients *lru.Cache[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

// NewRateLimiter creates a new rate limiter
// requests: maximum number of requests allowed per window
// window: time window duration (e.g., 1 minute)
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	clients, err := lru.New[string, *rate.Limiter](maxTrackedClients)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}

	return &RateLimiter{
		clients: clients,
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
	}
}

// Middleware returns a rate limiting middleware
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := getClientIP(r)

		limiter := rl.limiterFor(clientID)
		if !limiter.Allow() {
			retryAfter := time.Duration(float64(time.Second) / float64(rl.limit))
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte(`{"error":"RateLimitExceeded","message":"Rate limit exceeded. Please try again later."}`)); err != nil {
				log.Printf("Failed to write rate limit response: %v", err)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

// limiterFor returns the client's limiter, creating it on first sight
func (rl *RateLimiter) limiterFor(clientID string) *rate.Limiter {
	if limiter, ok := rl.clients.Get(clientID); ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	// another request may have raced us; keep whichever landed first
	if existing, ok, _ := rl.clients.PeekOrAdd(clientID, limiter); ok {
		return existing
	}
	return limiter
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (if behind proxy); first hop is the client
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	// Check X-Real-IP header
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr without the port
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

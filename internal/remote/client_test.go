package remote

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"Agora/internal/core/engagement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.Timeout = 2 * time.Second

	client, err := NewClient(cfg, tokens, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "localhost:3001"

	_, err := NewClient(cfg, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidBaseURL)
}

func TestFetchEngagement(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/engagement/comment/12", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalLikes":4,"totalDislikes":1,"viewerReaction":"liked"}`))
	}, staticToken("tok"))

	snap, err := client.FetchEngagement(context.Background(), engagement.CommentRef(12))

	require.NoError(t, err)
	assert.Equal(t, engagement.Snapshot{
		TotalLikes:     4,
		TotalDislikes:  1,
		ViewerReaction: engagement.ReactionLiked,
	}, snap)
}

func TestFetchEngagement_Anonymous(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"totalLikes":0,"totalDislikes":0,"viewerReaction":"none"}`))
	}, staticToken(""))

	snap, err := client.FetchEngagement(context.Background(), engagement.PostRef(1))

	require.NoError(t, err)
	assert.Equal(t, engagement.ReactionNone, snap.ViewerReaction)
}

func TestSubmitReaction(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/engagement", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}, staticToken("tok"))

	err := client.SubmitReaction(context.Background(), engagement.PostRef(5), engagement.ReactionNone)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"entityKind": "post",
		"entityId":   float64(5),
		"reaction":   "none",
	}, got)
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		status  int
		wantErr error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusBadGateway, ErrServerError},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"SomeError","message":"details here"}`))
			}, staticToken("tok"))

			err := client.SubmitReaction(context.Background(), engagement.PostRef(1), engagement.ReactionLiked)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "details here")
		})
	}
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(statusError("submit", http.StatusUnauthorized, apiError{})))
	assert.True(t, IsAuthError(statusError("submit", http.StatusForbidden, apiError{})))
	assert.False(t, IsAuthError(statusError("submit", http.StatusNotFound, apiError{})))
	assert.False(t, IsAuthError(nil))
}

func TestCircuitOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)

	for i := 0; i < 3; i++ {
		_, err := client.FetchEngagement(context.Background(), engagement.PostRef(1))
		assert.ErrorIs(t, err, ErrServerError)
	}

	_, err := client.FetchEngagement(context.Background(), engagement.PostRef(1))
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(3), hits.Load())

	// operations trip independently
	err = client.SubmitReaction(context.Background(), engagement.PostRef(1), engagement.ReactionLiked)
	assert.ErrorIs(t, err, ErrServerError)
}

func TestCircuitIgnoresClientErrors(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, nil)

	for i := 0; i < 5; i++ {
		_, err := client.FetchEngagement(context.Background(), engagement.PostRef(1))
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, int32(5), hits.Load())
}

func TestFetchEngagement_InvalidRef(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	}, nil)

	_, err := client.FetchEngagement(context.Background(), engagement.PostRef(0))
	assert.ErrorIs(t, err, engagement.ErrInvalidEntity)
}

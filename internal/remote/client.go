package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"Agora/internal/core/engagement"
)

const (
	opFetch  = "fetch"
	opSubmit = "submit"

	// maxErrorBody caps how much of an error response is read
	maxErrorBody = 4 << 10
)

// TokenSource supplies the viewer's bearer token. An empty token means the
// request is sent anonymously.
type TokenSource interface {
	Token() string
}

// reactionRequest is the POST /engagement body
type reactionRequest struct {
	EntityKind engagement.Kind     `json:"entityKind"`
	EntityID   int64               `json:"entityId"`
	Reaction   engagement.Reaction `json:"reaction"`
}

// Client talks to the reaction service. It implements engagement.Remote.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	breaker    *circuitBreaker
	logger     *slog.Logger
}

var _ engagement.Remote = (*Client)(nil)

// NewClient creates a reaction service client. tokens may be nil for an
// anonymous client.
func NewClient(cfg Config, tokens TokenSource, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid remote config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tokens:  tokens,
		breaker: newCircuitBreaker(cfg.FailureThreshold, cfg.OpenDuration, logger),
		logger:  logger,
	}, nil
}

// FetchEngagement loads the server snapshot for ref as seen by the current viewer.
func (c *Client) FetchEngagement(ctx context.Context, ref engagement.EntityRef) (engagement.Snapshot, error) {
	if err := ref.Validate(); err != nil {
		return engagement.Snapshot{}, err
	}

	endpoint := c.baseURL + "/engagement/" + ref.Kind.String() + "/" + strconv.FormatInt(ref.ID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return engagement.Snapshot{}, fmt.Errorf("failed to create fetch request: %w", err)
	}

	var snap engagement.Snapshot
	if err := c.do(req, opFetch, &snap); err != nil {
		return engagement.Snapshot{}, err
	}
	return snap, nil
}

// SubmitReaction sets the viewer's reaction on ref. ReactionNone clears it.
func (c *Client) SubmitReaction(ctx context.Context, ref engagement.EntityRef, reaction engagement.Reaction) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(reactionRequest{
		EntityKind: ref.Kind,
		EntityID:   ref.ID,
		Reaction:   reaction,
	})
	if err != nil {
		return fmt.Errorf("failed to encode reaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/engagement", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, opSubmit, nil)
}

// do sends req through the circuit breaker and decodes a 2xx body into out.
func (c *Client) do(req *http.Request, op string, out any) error {
	if err := c.breaker.canAttempt(op); err != nil {
		return err
	}

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// a cancelled caller says nothing about the service
		if req.Context().Err() == nil {
			c.breaker.recordFailure(op, err)
		} else {
			c.breaker.releaseTrial(op)
		}
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body apiError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = json.Unmarshal(raw, &body)

		err := statusError(op, resp.StatusCode, body)
		if retryable(err) {
			c.breaker.recordFailure(op, err)
		} else {
			c.breaker.recordSuccess(op)
		}
		c.logger.Debug("reaction service returned error",
			"operation", op,
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"error", err)
		return err
	}

	c.breaker.recordSuccess(op)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

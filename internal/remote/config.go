package remote

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config validation errors
var (
	// ErrMissingBaseURL is returned when BaseURL is empty
	ErrMissingBaseURL = errors.New("BaseURL is required")
	// ErrInvalidBaseURL is returned when BaseURL is not an absolute http(s) URL
	ErrInvalidBaseURL = errors.New("BaseURL must be an absolute http or https URL")
	// ErrInvalidTimeout is returned when Timeout is not positive
	ErrInvalidTimeout = errors.New("Timeout must be positive")
	// ErrInvalidFailureThreshold is returned when FailureThreshold is not positive
	ErrInvalidFailureThreshold = errors.New("FailureThreshold must be positive")
	// ErrInvalidOpenDuration is returned when OpenDuration is not positive
	ErrInvalidOpenDuration = errors.New("OpenDuration must be positive")
)

// Config holds the configuration for the reaction service client.
type Config struct {
	// BaseURL is the origin of the reaction service (e.g., "http://localhost:3001").
	BaseURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold int

	// OpenDuration is how long the circuit stays open before a trial request.
	OpenDuration time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		BaseURL:          "http://localhost:3001",
		Timeout:          10 * time.Second,
		FailureThreshold: 3,
		OpenDuration:     30 * time.Second,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: got %q", ErrInvalidBaseURL, c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeout, c.Timeout)
	}
	if c.FailureThreshold <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidFailureThreshold, c.FailureThreshold)
	}
	if c.OpenDuration <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidOpenDuration, c.OpenDuration)
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing or invalid environment variables.
//
// Environment variables:
//   - REACTIONS_API_URL: reaction service origin (default: http://localhost:3001)
//   - REACTIONS_API_TIMEOUT_SECONDS: per-request timeout (default: 10)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("REACTIONS_API_URL"); v != "" {
		cfg.BaseURL = v
	}

	if v := os.Getenv("REACTIONS_API_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Second
		} else {
			slog.Warn("[REMOTE] invalid REACTIONS_API_TIMEOUT_SECONDS value, using default",
				"value", v,
				"default_seconds", int(cfg.Timeout.Seconds()),
				"error", err,
			)
		}
	}

	return cfg
}

package engagement

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config validation errors
var (
	// ErrInvalidNotificationDuration is returned when NotificationDuration is not positive
	ErrInvalidNotificationDuration = errors.New("NotificationDuration must be positive")
	// ErrInvalidHydrationConcurrency is returned when HydrationConcurrency is not positive
	ErrInvalidHydrationConcurrency = errors.New("HydrationConcurrency must be positive")
	// ErrInvalidHydrationRate is returned when HydrationRate is negative
	ErrInvalidHydrationRate = errors.New("HydrationRate cannot be negative")
	// ErrInvalidHydrationBurst is returned when HydrationBurst is not positive while a rate is set
	ErrInvalidHydrationBurst = errors.New("HydrationBurst must be positive when HydrationRate is set")
)

// Config holds the tunables of the engagement engine.
type Config struct {
	// NotificationDuration is how long the login notification stays visible.
	NotificationDuration time.Duration

	// HydrationConcurrency caps the number of engagement fetches in flight.
	HydrationConcurrency int

	// HydrationRate limits engagement fetches per second. 0 disables pacing.
	HydrationRate float64

	// HydrationBurst is the pacing burst size. Only used when HydrationRate > 0.
	HydrationBurst int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		NotificationDuration: DefaultNotificationDuration,
		HydrationConcurrency: 8,
		HydrationRate:        0,
		HydrationBurst:       4,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.NotificationDuration <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidNotificationDuration, c.NotificationDuration)
	}
	if c.HydrationConcurrency <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidHydrationConcurrency, c.HydrationConcurrency)
	}
	if c.HydrationRate < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidHydrationRate, c.HydrationRate)
	}
	if c.HydrationRate > 0 && c.HydrationBurst <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidHydrationBurst, c.HydrationBurst)
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing or invalid environment variables.
//
// Environment variables:
//   - ENGAGEMENT_NOTIFICATION_MS: login notification lifetime in ms (default: 3000)
//   - ENGAGEMENT_HYDRATION_CONCURRENCY: max concurrent engagement fetches (default: 8)
//   - ENGAGEMENT_HYDRATION_RPS: max engagement fetches per second, 0 for no limit (default: 0)
//   - ENGAGEMENT_HYDRATION_BURST: burst size for the fetch rate limit (default: 4)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("ENGAGEMENT_NOTIFICATION_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NotificationDuration = time.Duration(n) * time.Millisecond
		} else {
			slog.Warn("[ENGAGEMENT] invalid ENGAGEMENT_NOTIFICATION_MS value, using default",
				"value", v,
				"default_ms", cfg.NotificationDuration.Milliseconds(),
				"error", err,
			)
		}
	}

	if v := os.Getenv("ENGAGEMENT_HYDRATION_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HydrationConcurrency = n
		} else {
			slog.Warn("[ENGAGEMENT] invalid ENGAGEMENT_HYDRATION_CONCURRENCY value, using default",
				"value", v,
				"default", cfg.HydrationConcurrency,
				"error", err,
			)
		}
	}

	if v := os.Getenv("ENGAGEMENT_HYDRATION_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.HydrationRate = f
		} else {
			slog.Warn("[ENGAGEMENT] invalid ENGAGEMENT_HYDRATION_RPS value, using default",
				"value", v,
				"default", cfg.HydrationRate,
				"error", err,
			)
		}
	}

	if v := os.Getenv("ENGAGEMENT_HYDRATION_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HydrationBurst = n
		} else {
			slog.Warn("[ENGAGEMENT] invalid ENGAGEMENT_HYDRATION_BURST value, using default",
				"value", v,
				"default", cfg.HydrationBurst,
				"error", err,
			)
		}
	}

	return cfg
}

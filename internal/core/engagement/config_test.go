package engagement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3*time.Second, cfg.NotificationDuration)
	assert.Equal(t, 8, cfg.HydrationConcurrency)
	assert.Zero(t, cfg.HydrationRate)
	assert.Equal(t, 4, cfg.HydrationBurst)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "zero notification duration",
			modify:  func(c *Config) { c.NotificationDuration = 0 },
			wantErr: ErrInvalidNotificationDuration,
		},
		{
			name:    "negative concurrency",
			modify:  func(c *Config) { c.HydrationConcurrency = -1 },
			wantErr: ErrInvalidHydrationConcurrency,
		},
		{
			name:    "negative rate",
			modify:  func(c *Config) { c.HydrationRate = -2 },
			wantErr: ErrInvalidHydrationRate,
		},
		{
			name: "rate without burst",
			modify: func(c *Config) {
				c.HydrationRate = 5
				c.HydrationBurst = 0
			},
			wantErr: ErrInvalidHydrationBurst,
		},
		{
			name:   "burst ignored without rate",
			modify: func(c *Config) { c.HydrationBurst = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ENGAGEMENT_NOTIFICATION_MS", "1500")
	t.Setenv("ENGAGEMENT_HYDRATION_CONCURRENCY", "3")
	t.Setenv("ENGAGEMENT_HYDRATION_RPS", "2.5")
	t.Setenv("ENGAGEMENT_HYDRATION_BURST", "6")

	cfg := ConfigFromEnv()

	assert.Equal(t, 1500*time.Millisecond, cfg.NotificationDuration)
	assert.Equal(t, 3, cfg.HydrationConcurrency)
	assert.Equal(t, 2.5, cfg.HydrationRate)
	assert.Equal(t, 6, cfg.HydrationBurst)
}

func TestConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENGAGEMENT_NOTIFICATION_MS", "soon")
	t.Setenv("ENGAGEMENT_HYDRATION_CONCURRENCY", "0")
	t.Setenv("ENGAGEMENT_HYDRATION_RPS", "-1")
	t.Setenv("ENGAGEMENT_HYDRATION_BURST", "x")

	assert.Equal(t, DefaultConfig(), ConfigFromEnv())
}

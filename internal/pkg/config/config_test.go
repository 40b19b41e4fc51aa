//go:build unit

package config_test

import (
	"os"
	"testing"
	"time"

	"room-contention/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("STORE_SEED_ROOMS", "6b0f8f4e-0c1e-4c39-9a55-2d1f0d6f0101,6b0f8f4e-0c1e-4c39-9a55-2d1f0d6f0102")
	t.Setenv("WAITLIST_GRACE_PERIOD", "30m")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Len(t, cfg.Store.SeedRooms, 2)
	assert.Equal(t, 30*time.Minute, cfg.Waitlist.GracePeriod)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notify.KafkaBrokers)
	assert.Equal(t, "local", cfg.Lock.Driver)
	assert.Equal(t, 2*time.Second, cfg.Lock.Timeout)
}

func TestLoadConfig_MissingPort(t *testing.T) {
	t.Setenv("PORT", "unused")
	require.NoError(t, os.Unsetenv("PORT"))

	_, err := config.LoadConfig()

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{"test config is valid", func(*config.Config) {}, ""},
		{"unknown store driver", func(c *config.Config) { c.Store.Driver = "sqlite" }, "STORE_DRIVER"},
		{"unknown lock driver", func(c *config.Config) { c.Lock.Driver = "etcd" }, "LOCK_DRIVER"},
		{"unknown notify driver", func(c *config.Config) { c.Notify.Driver = "sms" }, "NOTIFY_DRIVER"},
		{"zero lock timeout", func(c *config.Config) { c.Lock.Timeout = 0 }, "LOCK_TIMEOUT"},
		{"negative retries", func(c *config.Config) { c.Lock.Retries = -1 }, "LOCK_RETRIES"},
		{"zero grace period", func(c *config.Config) { c.Waitlist.GracePeriod = 0 }, "WAITLIST_GRACE_PERIOD"},
		{"zero interval with workers on", func(c *config.Config) {
			c.Waitlist.WorkersEnabled = true
			c.Waitlist.ReaperInterval = 0
		}, "REAPER_INTERVAL"},
		{"zero interval with workers off", func(c *config.Config) { c.Waitlist.ReaperInterval = 0 }, ""},
		{"zero batch size", func(c *config.Config) { c.Waitlist.SweepBatchSize = 0 }, "SWEEP_BATCH_SIZE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

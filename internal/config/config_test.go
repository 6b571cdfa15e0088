package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "/api/2.0/mlflow", cfg.Tracking.APIPrefix)
		assert.Equal(t, 30, cfg.Tracking.TimeoutSeconds)
		assert.Equal(t, 30*time.Second, cfg.Tracking.Timeout())
		assert.Equal(t, 1000, cfg.Dump.MaxResults)
		assert.Equal(t, 1, cfg.Dump.Concurrency)
		assert.Equal(t, "tracedump-exports", cfg.Storage.Bucket)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.False(t, cfg.Storage.Enabled())
		assert.False(t, cfg.Sentry.Enabled())
		assert.False(t, cfg.Tracking.HasAuth())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TRACKING_URL", "http://mlflow.internal:5000")
		t.Setenv("TRACKING_USERNAME", "alice")
		t.Setenv("TRACKING_PASSWORD", "s3cret")
		t.Setenv("DUMP_OUTPUT", "out.json")
		t.Setenv("DUMP_CONCURRENCY", "8")
		t.Setenv("STORAGE_ENDPOINT", "minio.internal:9000")
		t.Setenv("LOG_FORMAT", "json")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "http://mlflow.internal:5000", cfg.Tracking.URL)
		assert.True(t, cfg.Tracking.HasAuth())
		assert.Equal(t, "out.json", cfg.Dump.Output)
		assert.Equal(t, 8, cfg.Dump.Concurrency)
		assert.True(t, cfg.Storage.Enabled())
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("trailing slash is trimmed from the tracking URL", func(t *testing.T) {
		t.Setenv("TRACKING_URL", "http://localhost:5000/")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5000", cfg.Tracking.URL)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Tracking: TrackingConfig{
				URL:            "http://localhost:5000",
				TimeoutSeconds: 30,
			},
			Dump: DumpConfig{
				MaxResults:  1000,
				Concurrency: 1,
			},
		}
	}

	t.Run("valid configuration passes", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing tracking URL fails", func(t *testing.T) {
		cfg := valid()
		cfg.Tracking.URL = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("malformed tracking URL fails", func(t *testing.T) {
		cfg := valid()
		cfg.Tracking.URL = "not a url"
		require.Error(t, cfg.Validate())
	})

	t.Run("concurrency above the cap fails", func(t *testing.T) {
		cfg := valid()
		cfg.Dump.Concurrency = 128
		require.Error(t, cfg.Validate())
	})

	t.Run("max results above the server cap fails", func(t *testing.T) {
		cfg := valid()
		cfg.Dump.MaxResults = 5000
		require.Error(t, cfg.Validate())
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2*time.Hour, cfg.Predictor.Window)
	assert.Equal(t, 15*time.Minute, cfg.Predictor.TimetableThreshold)
	assert.Equal(t, 0, cfg.Predictor.MaxHops)
	assert.Equal(t, 8, cfg.Trainer.FetchConcurrency)
	assert.Equal(t, 28, cfg.Trainer.HistoryDays)
	assert.Equal(t, BackendFile, cfg.Models.Backend)
	assert.Equal(t, 30*time.Second, cfg.Realtime.Refresh)
	assert.Equal(t, 5, cfg.Realtime.Consumers)
	assert.Equal(t, 200, cfg.Realtime.BatchSize)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trainpredict.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
predictor:
  window: PT90M
  timetable_threshold: 10m
  max_hops: 6
network:
  file: /etc/trainpredict/network.yaml
  equivalents:
    TM_1: TM
    TM_2: TM
  platform_insensitive:
    - KGX
models:
  backend: MongoDB
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 90*time.Minute, cfg.Predictor.Window)
	assert.Equal(t, 10*time.Minute, cfg.Predictor.TimetableThreshold)
	assert.Equal(t, 6, cfg.Predictor.MaxHops)
	assert.Equal(t, "/etc/trainpredict/network.yaml", cfg.Network.File)
	assert.Equal(t, map[string]string{"TM_1": "TM", "TM_2": "TM"}, cfg.Network.Equivalents)
	assert.Equal(t, []string{"KGX"}, cfg.Network.PlatformInsensitive)
	assert.Equal(t, BackendMongoDB, cfg.Models.Backend)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("TRAVIGO_PREDICTOR_WINDOW", "45m")
	t.Setenv("TRAVIGO_TRAINER_FETCH_CONCURRENCY", "3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 45*time.Minute, cfg.Predictor.Window)
	assert.Equal(t, 3, cfg.Trainer.FetchConcurrency)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("TRAVIGO_REALTIME_REFRESH", "soon")
	_, err = Load("")
	assert.ErrorContains(t, err, "realtime.refresh")
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{"2h", 2 * time.Hour},
		{"90s", 90 * time.Second},
		{"PT2H", 2 * time.Hour},
		{"PT15M", 15 * time.Minute},
		{"pt1h30m", 90 * time.Minute},
		{"P1D", 24 * time.Hour},
	}

	for _, test := range tests {
		parsed, err := ParseDuration(test.value)
		require.NoError(t, err, test.value)
		assert.Equal(t, test.expected, parsed, test.value)
	}

	_, err := ParseDuration("PX")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"window", func(c *Config) { c.Predictor.Window = 0 }, "predictor.window"},
		{"threshold", func(c *Config) { c.Predictor.TimetableThreshold = -time.Minute }, "predictor.timetable_threshold"},
		{"hops", func(c *Config) { c.Predictor.MaxHops = -1 }, "predictor.max_hops"},
		{"concurrency", func(c *Config) { c.Trainer.FetchConcurrency = 0 }, "trainer.fetch_concurrency"},
		{"backend", func(c *Config) { c.Models.Backend = "s3" }, "models.backend"},
		{"directory", func(c *Config) { c.Models.Directory = "" }, "models.directory"},
		{"consumers", func(c *Config) { c.Realtime.Consumers = 0 }, "realtime.consumers"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)

			test.modify(cfg)
			assert.ErrorContains(t, cfg.Validate(), test.errMsg)
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"WINNOW_CONFIG", "WINNOW_BACKEND", "WINNOW_ENDPOINT", "WINNOW_TOKEN",
	"WINNOW_TIMEOUT", "WINNOW_RATE_LIMIT", "WINNOW_DIVERSE_COUNT",
	"WINNOW_CACHE", "WINNOW_CACHE_PATH", "WINNOW_OUTPUT_STDOUT",
	"WINNOW_OUTPUT_PRETTY", "WINNOW_OUTPUT_FILE", "WINNOW_WEBHOOK_URL",
	"WINNOW_VERBOSITY", "WINNOW_OUTPUT_ASYNC", "WINNOW_LOG_LEVEL",
	"WINNOW_LOG_FORMAT", "WINNOW_METRICS_ADDR",
}

// clearEnv blanks every WINNOW_* variable for the test's duration.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "winnow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Backend.Provider)
	assert.Equal(t, "http://localhost:8004", cfg.Backend.Endpoint)
	assert.Equal(t, 60*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 10, cfg.Session.DiverseCount)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "standard", cfg.Output.Verbosity)
	assert.False(t, cfg.Output.Pretty)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
backend:
  endpoint: http://classifier:9000
  timeout: 5s
  rate_limit: 2.5
session:
  diverse_count: 4
cache:
  backend: sqlite
  path: /tmp/winnow.db
output:
  file: events.jsonl
  verbosity: minimal
log:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Backend.Provider, "unset keys keep defaults")
	assert.Equal(t, "http://classifier:9000", cfg.Backend.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 2.5, cfg.Backend.RateLimit)
	assert.Equal(t, 4, cfg.Session.DiverseCount)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, "events.jsonl", cfg.Output.File)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ConfigFromEnvPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("WINNOW_CONFIG", writeYAML(t, "session:\n  diverse_count: 7\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Session.DiverseCount)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "backend:\n  endpoint: http://from-yaml\nsession:\n  diverse_count: 4\n")
	t.Setenv("WINNOW_ENDPOINT", "http://from-env")
	t.Setenv("WINNOW_DIVERSE_COUNT", "12")
	t.Setenv("WINNOW_OUTPUT_PRETTY", "true")
	t.Setenv("WINNOW_TIMEOUT", "90s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env", cfg.Backend.Endpoint)
	assert.Equal(t, 12, cfg.Session.DiverseCount)
	assert.True(t, cfg.Output.Pretty)
	assert.Equal(t, 90*time.Second, cfg.Backend.Timeout)
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("WINNOW_DIVERSE_COUNT", "many")
	t.Setenv("WINNOW_OUTPUT_PRETTY", "maybe")
	t.Setenv("WINNOW_TIMEOUT", "soon")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Session.DiverseCount)
	assert.False(t, cfg.Output.Pretty)
	assert.Equal(t, 60*time.Second, cfg.Backend.Timeout)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeYAML(t, "session: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestValidate_SqliteNeedsPath(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "sqlite"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WINNOW_CACHE_PATH")
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Backend.Provider = ""
	cfg.Session.DiverseCount = 0
	cfg.Output.Verbosity = "loud"
	cfg.Log.Format = "xml"
	cfg.Cache.Backend = "redis"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"WINNOW_BACKEND", "diverse_count", "verbosity", "log format", "cache backend"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_NegativeValues(t *testing.T) {
	cfg := Default()
	cfg.Backend.Timeout = -time.Second
	cfg.Backend.RateLimit = -1
	cfg.Output.MaxSize = -5

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	assert.Contains(t, err.Error(), "rate_limit")
	assert.Contains(t, err.Error(), "max_size")
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback int
		want     int
	}{
		{"empty uses fallback", "", 10, 10},
		{"valid int", "25", 10, 25},
		{"zero", "0", 10, 0},
		{"invalid falls back", "abc", 10, 10},
	}

	const key = "WINNOW_TEST_GETENVINT"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			assert.Equal(t, tt.want, getenvInt(key, tt.fallback))
		})
	}
}

func TestVersionIsSet(t *testing.T) {
	assert.NotEmpty(t, Version)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Version is the winnow release version.
const Version = "0.3.0"

// Config holds all winnow configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	Cache   CacheConfig   `yaml:"cache"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// BackendConfig selects and configures the classifier backend.
type BackendConfig struct {
	Provider  string            `yaml:"provider"`
	Endpoint  string            `yaml:"endpoint"`
	Token     string            `yaml:"token"`
	Timeout   time.Duration     `yaml:"timeout"`
	RateLimit float64           `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Extra     map[string]string `yaml:"extra"`
}

// SessionConfig holds labeling session settings.
type SessionConfig struct {
	DiverseCount int `yaml:"diverse_count"`
}

// CacheConfig selects the item content cache.
type CacheConfig struct {
	Backend string `yaml:"backend"` // "memory" or "sqlite"
	Path    string `yaml:"path"`
}

// OutputConfig holds session event destinations.
type OutputConfig struct {
	Stdout    bool   `yaml:"stdout"`
	Pretty    bool   `yaml:"pretty"`
	File      string `yaml:"file"`
	MaxSize   int64  `yaml:"max_size"`
	Webhook   string `yaml:"webhook"`
	Verbosity string `yaml:"verbosity"` // "minimal", "standard", "full"
	Async     bool   `yaml:"async"`
}

// LogConfig holds slog settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// MetricsConfig holds the Prometheus listener address; empty disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend: BackendConfig{
			Provider: "http",
			Endpoint: "http://localhost:8004",
			Timeout:  60 * time.Second,
		},
		Session: SessionConfig{DiverseCount: 10},
		Cache:   CacheConfig{Backend: "memory"},
		Output:  OutputConfig{Verbosity: "standard"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// $WINNOW_CONFIG when path is empty), then WINNOW_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("WINNOW_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Backend.Provider = getenv("WINNOW_BACKEND", cfg.Backend.Provider)
	cfg.Backend.Endpoint = getenv("WINNOW_ENDPOINT", cfg.Backend.Endpoint)
	cfg.Backend.Token = getenv("WINNOW_TOKEN", cfg.Backend.Token)
	cfg.Backend.Timeout = getenvDuration("WINNOW_TIMEOUT", cfg.Backend.Timeout)
	cfg.Backend.RateLimit = getenvFloat("WINNOW_RATE_LIMIT", cfg.Backend.RateLimit)

	cfg.Session.DiverseCount = getenvInt("WINNOW_DIVERSE_COUNT", cfg.Session.DiverseCount)

	cfg.Cache.Backend = getenv("WINNOW_CACHE", cfg.Cache.Backend)
	cfg.Cache.Path = getenv("WINNOW_CACHE_PATH", cfg.Cache.Path)

	cfg.Output.Stdout = getenvBool("WINNOW_OUTPUT_STDOUT", cfg.Output.Stdout)
	cfg.Output.Pretty = getenvBool("WINNOW_OUTPUT_PRETTY", cfg.Output.Pretty)
	cfg.Output.File = getenv("WINNOW_OUTPUT_FILE", cfg.Output.File)
	cfg.Output.Webhook = getenv("WINNOW_WEBHOOK_URL", cfg.Output.Webhook)
	cfg.Output.Verbosity = getenv("WINNOW_VERBOSITY", cfg.Output.Verbosity)
	cfg.Output.Async = getenvBool("WINNOW_OUTPUT_ASYNC", cfg.Output.Async)

	cfg.Log.Level = getenv("WINNOW_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getenv("WINNOW_LOG_FORMAT", cfg.Log.Format)

	cfg.Metrics.Addr = getenv("WINNOW_METRICS_ADDR", cfg.Metrics.Addr)
}

// Validate reports every unusable value at once.
func (c Config) Validate() error {
	var errs []error
	if c.Backend.Provider == "" {
		errs = append(errs, errors.New("backend provider must be set (WINNOW_BACKEND)"))
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, fmt.Errorf("backend timeout must be non-negative, got %v", c.Backend.Timeout))
	}
	if c.Backend.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("backend rate_limit must be non-negative, got %v", c.Backend.RateLimit))
	}
	if c.Session.DiverseCount < 1 {
		errs = append(errs, fmt.Errorf("session diverse_count must be at least 1, got %d", c.Session.DiverseCount))
	}
	switch c.Cache.Backend {
	case "memory":
	case "sqlite":
		if c.Cache.Path == "" {
			errs = append(errs, errors.New("cache path is required for the sqlite backend (WINNOW_CACHE_PATH)"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache backend must be memory or sqlite, got %q", c.Cache.Backend))
	}
	switch strings.ToLower(c.Output.Verbosity) {
	case "minimal", "standard", "full":
	default:
		errs = append(errs, fmt.Errorf("output verbosity must be minimal, standard or full, got %q", c.Output.Verbosity))
	}
	if c.Output.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("output max_size must be non-negative, got %d", c.Output.MaxSize))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

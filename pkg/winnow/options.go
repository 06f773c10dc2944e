package winnow

import (
	"log/slog"
	"time"

	"github.com/crimson-sun/winnow/internal/config"
)

// Option configures a Session.
type Option func(*config.Config, *extras)

type extras struct {
	logger *slog.Logger
}

// WithEndpoint sets the classifier base URL. Default: http://localhost:8004.
func WithEndpoint(url string) Option {
	return func(c *config.Config, _ *extras) { c.Backend.Endpoint = url }
}

// WithToken sets the bearer token sent to the classifier.
func WithToken(token string) Option {
	return func(c *config.Config, _ *extras) { c.Backend.Token = token }
}

// WithTimeout bounds each classifier request. Default: 60s.
func WithTimeout(d time.Duration) Option {
	return func(c *config.Config, _ *extras) { c.Backend.Timeout = d }
}

// WithDiverseCount sets how many diverse suggestions are requested on
// Initialize. Default: 10.
func WithDiverseCount(n int) Option {
	return func(c *config.Config, _ *extras) { c.Session.DiverseCount = n }
}

// WithCacheFile persists fetched item code in a SQLite file.
func WithCacheFile(path string) Option {
	return func(c *config.Config, _ *extras) {
		c.Cache = config.CacheConfig{Backend: "sqlite", Path: path}
	}
}

// WithEventFile appends session events as JSON lines to path.
func WithEventFile(path string) Option {
	return func(c *config.Config, _ *extras) { c.Output.File = path }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(_ *config.Config, e *extras) { e.logger = l }
}

// Package pipeline assembles a labeling session from configuration: the
// backend, the content cache, the event outputs and the metrics.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/crimson-sun/winnow/internal/cache"
	"github.com/crimson-sun/winnow/internal/config"
	"github.com/crimson-sun/winnow/internal/connector"
	"github.com/crimson-sun/winnow/internal/metrics"
	"github.com/crimson-sun/winnow/internal/output"
	"github.com/crimson-sun/winnow/internal/output/async"
	"github.com/crimson-sun/winnow/internal/output/file"
	"github.com/crimson-sun/winnow/internal/output/multi"
	"github.com/crimson-sun/winnow/internal/output/stdout"
	"github.com/crimson-sun/winnow/internal/output/webhook"
	"github.com/crimson-sun/winnow/internal/session"
)

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	registry prometheus.Registerer
	backend  connector.Backend
	extra    []output.Output
}

// WithLogger sets the logger handed to the session.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegisterer registers session metrics on r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.registry = r }
}

// WithBackend bypasses the provider registry.
func WithBackend(b connector.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithOutput adds an event output next to the configured ones.
func WithOutput(out output.Output) Option {
	return func(o *options) { o.extra = append(o.extra, out) }
}

// Pipeline owns a session store and the resources feeding it.
type Pipeline struct {
	store   *session.Store
	content *cache.Content
	out     output.Output
}

// New builds a Pipeline from cfg. Resources opened before a failure are
// released before New returns.
func New(cfg config.Config, opts ...Option) (*Pipeline, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = Backend(cfg.Backend)
		if err != nil {
			return nil, err
		}
	}

	store, err := openCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	content := cache.New(backend, store)

	out, err := Outputs(cfg.Output, o.extra...)
	if err != nil {
		content.Close()
		return nil, err
	}

	p := &Pipeline{content: content, out: out}
	p.store = session.NewStore(backend,
		session.WithLogger(o.logger),
		session.WithOutput(out),
		session.WithMetrics(metrics.NewSession(o.registry)),
		session.WithContentCache(content),
		session.WithDiverseCount(cfg.Session.DiverseCount),
	)
	return p, nil
}

// Backend resolves the configured provider through the connector registry.
func Backend(cfg config.BackendConfig) (connector.Backend, error) {
	ctor, err := connector.Get(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	b, err := ctor(connector.ConnectorConfig{
		Provider:  cfg.Provider,
		APIKey:    cfg.Token,
		Endpoint:  cfg.Endpoint,
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		Extra:     cfg.Extra,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: backend %s: %w", cfg.Provider, err)
	}
	return b, nil
}

func openCache(cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return cache.NewMemory(), nil
	case "sqlite":
		s, err := cache.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("pipeline: unknown cache backend %q", cfg.Backend)
}

// Outputs builds the configured event outputs plus extra, fanned out
// through multi and optionally made asynchronous. With nothing configured
// events are discarded.
func Outputs(cfg config.OutputConfig, extra ...output.Output) (output.Output, error) {
	verbosity := output.ParseVerbosity(cfg.Verbosity)
	var outs []output.Output
	if cfg.Stdout {
		outs = append(outs, stdout.New(verbosity, cfg.Pretty))
	}
	if cfg.File != "" {
		var fopts []file.Option
		if cfg.MaxSize > 0 {
			fopts = append(fopts, file.WithMaxSize(cfg.MaxSize))
		}
		f, err := file.New(cfg.File, verbosity, fopts...)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		outs = append(outs, f)
	}
	if cfg.Webhook != "" {
		outs = append(outs, webhook.New(cfg.Webhook, webhook.WithVerbosity(verbosity)))
	}
	outs = append(outs, extra...)

	if len(outs) == 0 {
		return output.Discard{}, nil
	}
	var out output.Output = multi.New(outs...)
	if cfg.Async {
		out = async.New(out)
	}
	return out, nil
}

// Store returns the session store.
func (p *Pipeline) Store() *session.Store { return p.store }

// Close flushes the outputs and closes the content cache.
func (p *Pipeline) Close() error {
	return errors.Join(p.out.Close(), p.content.Close())
}

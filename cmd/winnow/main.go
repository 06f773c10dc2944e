package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/winnow/internal/config"
	"github.com/crimson-sun/winnow/internal/logging"
	"github.com/crimson-sun/winnow/internal/pipeline"

	// Register backend implementations.
	_ "github.com/crimson-sun/winnow/internal/connector/classifierapi"
)

var (
	configPath  string
	metricsAddr string
	logLevel    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "winnow",
		Short:        "Interactive active-learning labeling sessions",
		Version:      config.Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $WINNOW_CONFIG)")
	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(newRunCmd(), newReplCmd(), newProvidersCmd(), newHealthCmd())
	return root
}

// loadConfig applies flag overrides on top of file and environment settings.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config:\n%w", err)
	}
	return cfg, nil
}

// openSession builds the pipeline and starts the metrics listener if one is
// configured. The returned cleanup closes both.
func openSession(cfg config.Config) (*pipeline.Pipeline, func(), error) {
	logger := logging.Init(cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	reg := prometheus.NewRegistry()
	p, err := pipeline.New(cfg, pipeline.WithLogger(logger), pipeline.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}

	var srv *http.Server
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("serving metrics", "addr", cfg.Metrics.Addr)
	}

	cleanup := func() {
		if srv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}
		if err := p.Close(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
	logger.Debug("session ready", "session_id", p.Store().ID())
	return p, cleanup, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/winnow/internal/connector"
	"github.com/crimson-sun/winnow/internal/pipeline"
)

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List registered backend providers",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range connector.Providers() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

type healthChecker interface {
	Health(ctx context.Context) error
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the configured backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			b, err := pipeline.Backend(cfg.Backend)
			if err != nil {
				return err
			}
			hc, ok := b.(healthChecker)
			if !ok {
				return errors.New("backend does not report health")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := hc.Health(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s backend at %s is healthy\n", cfg.Backend.Provider, cfg.Backend.Endpoint)
			return nil
		},
	}
}

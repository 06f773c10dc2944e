package main

import (
	"github.com/spf13/cobra"

	"github.com/crimson-sun/winnow/internal/script"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Replay a labeling script against the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Load(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			p, cleanup, err := openSession(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			exec := script.NewExecutor(p.Store(), cmd.OutOrStdout(), nil)
			return exec.Run(ctx, s)
		},
	}
}

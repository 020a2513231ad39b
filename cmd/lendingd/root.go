package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/config"
)

// app carries what every subcommand needs after the persistent pre-run.
type app struct {
	envFiles []string
	cfg      config.Config
	logger   *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "lendingd",
		Short:        "Library lending engine",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.envFiles...)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = newLogger(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
			slog.SetDefault(a.logger)

			return nil
		},
	}

	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "env files to load before the environment (default .env)")

	root.AddCommand(
		newMigrateCommand(a),
		newServeCommand(a),
		newSweepCommand(a),
		newTokenCommand(a),
	)

	return root
}

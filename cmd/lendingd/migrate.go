package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the events table and its indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx, a.cfg, a.logger, storeObservability{})
			if err != nil {
				return err
			}
			defer store.close()

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrating %s event store: %w", a.cfg.DBDriver, err)
			}

			a.logger.InfoContext(ctx, "event store migrated", "driver", a.cfg.DBDriver)

			return nil
		},
	}
}

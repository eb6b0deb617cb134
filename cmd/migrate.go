package cmd

import (
	"context"
	"fmt"
	"time"

	"hotel-reservation/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Create or update the PostgreSQL schema",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup(rootOpts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			db, err := database.InitDB(ctx, config.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			if err := database.Migrate(ctx, db); err != nil {
				return err
			}

			logger.Info("Schema applied", zap.String("database", config.Database.Name))
			return nil
		},
	}
}

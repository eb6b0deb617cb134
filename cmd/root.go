package cmd

import (
	"context"
	"fmt"
	"os"

	"hotel-reservation/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hotel-reservation",
		Short: "Hotel room reservation and availability service",
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env", ".env", "path to the env file; environment variables override it")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config and the logger shared by every command.
func setup(opts *RootOptions) (*utils.Config, *zap.Logger, error) {
	config, err := utils.LoadConfigFrom(opts.EnvFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v. Using production logger.\n", err)
		logger, _ = zap.NewProduction()
	}
	return config, logger, nil
}

// Package cli implements the vocabflash command line.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/vocabflash/internal/config"
	"github.com/vytor/vocabflash/internal/logger"
)

// Version is set via -ldflags at build time.
var Version = "(devel)"

type contextKey struct{}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "vocabflash",
		Short:         "Spaced-repetition vocabulary trainer",
		Long:          "vocabflash drills vocabulary in small groups and schedules reviews on a forgetting curve.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger.SetDefault(logger.New(
				logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
				logger.WithColors(true),
			))
			cmd.SetContext(context.WithValue(cmd.Context(), contextKey{}, cfg))
			return nil
		},
	}

	root.PersistentFlags().String("db", "", "Path to the SQLite database (overrides DB_PATH)")
	root.PersistentFlags().String("log-level", "", "Log level: DEBUG, INFO, WARN or ERROR (overrides LOG_LEVEL)")

	root.AddCommand(
		newServeCommand(),
		newCatalogCommand(),
		newExportCommand(),
		newImportCommand(),
		newRestoreCommand(),
		newStatsCommand(),
		newScheduleCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// loadConfig reads the environment and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

func configFrom(cmd *cobra.Command) config.Config {
	if cfg, ok := cmd.Context().Value(contextKey{}).(config.Config); ok {
		return cfg
	}
	return config.Load()
}

func retention(cfg config.Config) time.Duration {
	return time.Duration(cfg.SessionRetentionDays) * 24 * time.Hour
}

package main

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mangashelf/internal/config"
	"mangashelf/internal/history"
	"mangashelf/internal/logger"
	"mangashelf/pkg/database"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     config.Config
	configErr  error

	logCloser io.Closer
}

func newRootCommand() *cobra.Command {
	var configFlag, logLevelFlag string
	ctx := &commandContext{configFlag: &configFlag, logLevelFlag: &logLevelFlag}

	rootCmd := &cobra.Command{
		Use:           "mangashelf",
		Short:         "Reconcile a manga library with a reference list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			level := cfg.Log.Level
			if strings.TrimSpace(logLevelFlag) != "" {
				level = logLevelFlag
			}
			closer, err := logger.Configure(level, cfg.Log.File)
			if err != nil {
				return err
			}
			ctx.logCloser = closer
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if ctx.logCloser != nil {
				return ctx.logCloser.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(newCompareCommand(ctx))
	rootCmd.AddCommand(newIngestCommand(ctx))
	rootCmd.AddCommand(newLookupCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newTokenCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))

	return rootCmd
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = config.Load(strings.TrimSpace(*c.configFlag))
	})
	return c.config, c.configErr
}

// withHistory opens the run history database for the duration of fn.
func (c *commandContext) withHistory(fn func(*history.Repo) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("run history is disabled (database.enabled=false)")
	}
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(history.NewRepo(db))
}

func openHistory(cfg config.Config) (*sql.DB, error) {
	db, err := database.OpenAndMigrate(database.Config{Path: cfg.Database.Path})
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return db, nil
}

// Command signpress turns product batch spreadsheets into printable
// shelf sign PDFs, tracking per-product state so only new or changed
// prices are printed.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"signpress/clean"
	"signpress/config"
	"signpress/fonts"
	canvasrenderer "signpress/render/canvas"
	"signpress/store"
	firestorestore "signpress/store/firestore"
	sqlitestore "signpress/store/sqlite"
)

var (
	flagConfig  string
	flagVerbose bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "signpress",
	Short:         "Print-ready shelf signs from product spreadsheets",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagVerbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "development-style logging")
	rootCmd.AddCommand(runCmd, previewCmd, stateCmd)
}

// openStore builds the configured state backend. The sqlite and
// firestore drivers are wrapped in the bounded retry; the in-process
// memory store has nothing transient to retry.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return store.NewMemory(), nil
	case config.DriverSQLite:
		st, err := sqlitestore.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		return store.WithRetry(st, cfg.Store.Attempts, cfg.Store.Backoff.Std()), nil
	case config.DriverFirestore:
		st, err := firestorestore.Open(ctx, cfg.Store.Project, cfg.Store.Collection)
		if err != nil {
			return nil, err
		}
		return store.WithRetry(st, cfg.Store.Attempts, cfg.Store.Backoff.Std()), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// newCleaner builds the collaborator, or nil when it is disabled or
// has no credential. A nil cleaner sends every name to the local
// fallback.
func newCleaner(ctx context.Context) clean.Cleaner {
	if cfg.Cleaner.Disabled {
		return nil
	}
	key := cfg.Cleaner.APIKey()
	if key == "" {
		logger.Warn("no cleaner credential, names degrade to the local fallback",
			zap.String("env", cfg.Cleaner.APIKeyEnv))
		return nil
	}
	g, err := clean.NewGemini(ctx, key, cfg.Cleaner.Model)
	if err != nil {
		logger.Warn("cleaner unavailable", zap.Error(err))
		return nil
	}
	return clean.WithRetry(g, cfg.Cleaner.Attempts, cfg.Cleaner.Backoff.Std(), cfg.Cleaner.Timeout.Std())
}

// newRenderer loads the configured font set and builds the PDF
// renderer, which doubles as the layout measurer.
func newRenderer() (*canvasrenderer.Renderer, error) {
	set := fonts.Builtin()
	if cfg.FontsDir != "" {
		var err error
		set, err = fonts.Dir(cfg.FontsDir)
		if err != nil {
			return nil, err
		}
	}
	return canvasrenderer.New(set)
}

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcarding/internal/app"
	"github.com/abhisek/flashcarding/internal/config"
	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/logger"
	"github.com/abhisek/flashcarding/internal/screen"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves settings from files, environment and the command's flags.
func loadConfig(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	file, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(config.Options{File: file, EnvFile: envFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// openApp loads configuration and opens the application container.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	a, err := app.Open(commandContext(cmd), cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// withApp opens the container, runs fn and closes it again. Mutating
// commands save a snapshot afterwards, even when fn failed part way.
func withApp(cmd *cobra.Command, mutates bool, fn func(ctx context.Context, a *app.App) error) (err error) {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()

	ctx := commandContext(cmd)
	err = fn(ctx, a)
	if mutates {
		if perr := a.Persist(ctx); perr != nil {
			err = errors.Join(err, fmt.Errorf("save: %w", perr))
		}
	}
	return err
}

// runInteractive launches the terminal UI. A nil screen opens the set list.
func runInteractive(cmd *cobra.Command, open func(*app.App) (screen.Screen, error)) error {
	return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
		var initial screen.Screen
		if open != nil {
			s, err := open(a)
			if err != nil {
				return err
			}
			initial = s
		}
		return a.Run(ctx, initial)
	})
}

// scopeFlag registers --lecture for commands that take a lecture scope.
func scopeFlag(cmd *cobra.Command) {
	cmd.Flags().StringSlice("lecture", nil, "Restrict to these lecture IDs (default: every lecture in the set)")
}

func scopeFrom(cmd *cobra.Command) deck.Scope {
	ids, _ := cmd.Flags().GetStringSlice("lecture")
	if len(ids) == 0 {
		return deck.AllLectures
	}
	return deck.Lectures(ids...)
}

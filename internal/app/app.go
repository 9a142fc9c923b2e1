// Package app wires configuration, logging, the world and a presentation
// together into a playable game.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/tatianab/adventure/internal/config"
	"github.com/tatianab/adventure/internal/console"
	"github.com/tatianab/adventure/internal/engine"
	"github.com/tatianab/adventure/internal/logger"
	"github.com/tatianab/adventure/internal/models"
	"github.com/tatianab/adventure/internal/render"
	"github.com/tatianab/adventure/internal/tui"
	"github.com/tatianab/adventure/worlds"
)

// Run plays one game configured by args. The console presentation reads
// from in and writes to out.
func Run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	err = logger.Initialize(logger.Config{
		Level:          cfg.LogLevel,
		FilePath:       cfg.LogFile,
		FileMaxSizeMB:  10,
		FileMaxBackups: 3,
		FileMaxAgeDays: 28,
		Console:        cfg.UI != config.UITUI,
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Close()

	var opts []models.LoadOption
	if cfg.FoldCase {
		opts = append(opts, models.WithCaseFolding())
	}
	load := func() (*models.World, error) {
		return worlds.Load(cfg.WorldPath, opts...)
	}

	w, err := load()
	if err != nil {
		logger.Error("failed to load world", "world", cfg.WorldPath, "error", err)
		return err
	}
	logger.Info("world loaded", "world", cfg.WorldPath, "rooms", len(w.Rooms), "ui", cfg.UI)

	eng := engine.NewEngine(engine.Options{
		View:     render.Options{Width: cfg.WrapWidth},
		WarpUnit: cfg.WarpUnit,
	})

	if cfg.UI == config.UITUI {
		return tui.Run(eng, w, load)
	}
	return eng.Run(ctx, engine.NewSession(w), console.New(in, out))
}

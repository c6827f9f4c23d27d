// Package bootstrap wires the chirp components together: logger, config,
// snapshot store, repository, and feed engine. The process entry point owns
// the resulting App and hands it to the shell; nothing reaches for global
// state.
package bootstrap

import (
	"fmt"

	"chirp/config"
	"chirp/core"
	"chirp/feed"
	"chirp/storage"

	"go.uber.org/zap"
)

// App represents the chirp application with all its components.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger

	Clock core.Clock
	Store *storage.SnapshotStore
	Repo  *storage.Repository
	Feed  *feed.Engine
}

// NewApp creates a new application instance and initializes all components.
// A missing snapshot means a fresh install; an unreadable one is reported
// and the app starts with an empty repository.
func NewApp(configFile string) (*App, error) {
	logger, sugar, level := InitLogger()
	app := &App{
		Logger: logger,
		Sugar:  sugar,
		Clock:  core.SystemClock{},
	}

	cfg, err := InitConfig(configFile, sugar, level)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	if err := EnsureDataDirectories(cfg, sugar); err != nil {
		return nil, fmt.Errorf("pre-flight check failed: %w", err)
	}

	app.Store = storage.NewSnapshotStore(cfg.GetSnapshotPath(), sugar)
	app.Repo = storage.Open(app.Store, app.Clock, sugar)
	app.Feed = feed.NewEngine(app.Repo, sugar)

	sugar.Infow("repository ready",
		"users", app.Repo.UserCount(),
		"snapshot", app.Store.Path())

	if cfg.SeedDemo && app.Repo.UserCount() == 0 {
		if err := SeedDemo(app.Repo, sugar); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	return app, nil
}

// Shutdown flushes a final snapshot and the logger.
func (a *App) Shutdown() {
	if err := a.Repo.Save(); err != nil {
		a.Sugar.Errorw("final snapshot save failed", "error", err)
	}
	_ = a.Logger.Sync()
}

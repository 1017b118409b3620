// Package app assembles the storage chain and goal store from configuration.
package app

import (
	"errors"
	"fmt"

	"github.com/existflow/lifelist/internal/config"
	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/storage"
	"github.com/existflow/lifelist/internal/store"
)

// App holds the opened store and the resources behind it
type App struct {
	Config  *config.Config
	Store   *store.Store
	Log     *logger.Logger
	adapter storage.Adapter
}

// Open builds the storage adapters and loads the store. The configured image
// defaults seed the store when none have been saved yet.
func Open(cfg *config.Config, log *logger.Logger) (*App, error) {
	adapter, err := storage.Open(cfg, log)
	if err != nil {
		return nil, err
	}

	st, err := store.New(adapter, store.Options{Logger: log})
	if err != nil {
		_ = storage.Close(adapter)
		return nil, fmt.Errorf("failed to load goal store: %w", err)
	}

	if _, err := adapter.Get(storage.KeyImageSettings); errors.Is(err, storage.ErrNotFound) {
		img := model.ImageSettings{Quality: cfg.ImageQuality, MaxWidth: cfg.ImageMaxWidth, Format: cfg.ImageFormat}
		if err := st.SetImageDefaults(img); err != nil {
			log.Warn("Ignoring invalid image defaults in config", logger.F("error", err))
		}
	}

	return &App{Config: cfg, Store: st, Log: log, adapter: adapter}, nil
}

// Close releases the storage adapters
func (a *App) Close() error {
	return storage.Close(a.adapter)
}

// LoggerConfig maps the user config onto the file logger's settings
func LoggerConfig(cfg *config.Config) logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = logger.ParseLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		lc.FilePath = cfg.LogFile
	}
	lc.Console = cfg.LogConsole
	return lc
}

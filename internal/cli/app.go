// Package cli wires the application together for the Cobra commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/bnema/nexus/internal/config"
	"github.com/bnema/nexus/internal/favicon"
	"github.com/bnema/nexus/internal/logging"
	"github.com/bnema/nexus/internal/shortcut"
	"github.com/bnema/nexus/internal/storage"
	"github.com/bnema/nexus/internal/widget"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Store     *storage.QuotaSafeStore
	Shortcuts *shortcut.Store
	Icons     *favicon.Cache
	Resolver  *favicon.Resolver
	Notes     *widget.Notes
	Todos     *widget.Todos
	Settings  *widget.Settings
	Currency  *widget.Currency

	backend storage.Backend
	ctx     context.Context
}

// NewApp creates a new CLI application with all dependencies. With
// ephemeral set, state lives in memory and is discarded on exit.
func NewApp(ephemeral bool) (*App, error) {
	cfg := loadConfig()

	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	})
	ctx := logging.WithContext(context.Background(), logger)

	var backend storage.Backend
	if ephemeral {
		backend = storage.NewMemoryBackend(cfg.Storage.QuotaBytes)
	} else {
		dbPath := cfg.Storage.Path
		if dbPath == "" {
			var err error
			dbPath, err = config.GetDatabaseFile()
			if err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
		}
		var err error
		backend, err = storage.NewSQLiteBackend(dbPath, cfg.Storage.QuotaBytes)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		logger.Debug().Str("path", dbPath).Msg("storage opened")
	}

	store := storage.NewQuotaSafeStore(backend, func(message string) {
		fmt.Fprintln(os.Stderr, message)
	})

	icons := favicon.NewCache(backend)
	fetcher := favicon.NewFetcherWithTimeout(cfg.Favicon.FetchTimeout)
	resolver := favicon.NewResolver(icons, fetcher)

	shortcuts := shortcut.NewStore(ctx, store)
	resolver.SetShortcuts(shortcuts.List())

	// Expired cache entries are swept once per process start.
	if removed := icons.SweepExpired(ctx); removed > 0 {
		logger.Debug().Int("removed", removed).Msg("swept expired icon cache entries")
	}

	return &App{
		Config:    cfg,
		Store:     store,
		Shortcuts: shortcuts,
		Icons:     icons,
		Resolver:  resolver,
		Notes:     widget.NewNotes(store),
		Todos:     widget.NewTodos(store),
		Settings:  widget.NewSettings(store),
		Currency:  widget.NewCurrency(store, nil, cfg.Currency.APIURL, cfg.Currency.APIKey),
		backend:   backend,
		ctx:       ctx,
	}, nil
}

// Close drains pending quota notifications and releases all resources.
func (a *App) Close() error {
	if a.Store != nil {
		a.Store.Flush()
	}
	if a.backend != nil {
		return a.backend.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// loadConfig loads configuration from standard locations, falling back
// to defaults when no manager can be built.
func loadConfig() *config.Config {
	mgr, err := config.NewManager()
	if err != nil {
		return config.DefaultConfig()
	}
	if err := mgr.Load(); err != nil {
		return config.DefaultConfig()
	}
	return mgr.Get()
}

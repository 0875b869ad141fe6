package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/erazemk/itemize/internal/config"
	"github.com/erazemk/itemize/internal/db"
	"github.com/erazemk/itemize/internal/demo"
	"github.com/erazemk/itemize/internal/imagestore"
	"github.com/erazemk/itemize/internal/inventory"
	"github.com/erazemk/itemize/internal/prefs"
	"github.com/erazemk/itemize/internal/validation"
)

// DBHandle wraps the database with shutdown capability.
type DBHandle struct {
	*sql.DB
}

// Shutdown implements do.Shutdownable.
func (h *DBHandle) Shutdown() error {
	return h.Close()
}

// newContainer creates the DI container for cfg.
func newContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.Provide(injector, provideLogger)
	do.Provide(injector, provideDB)
	do.Provide(injector, provideImageStore)
	do.Provide(injector, providePrefs)
	do.Provide(injector, provideValidator)
	do.Provide(injector, provideDemoManager)
	do.Provide(injector, provideInventory)

	return injector
}

func provideLogger(i do.Injector) (*slog.Logger, error) {
	return slog.Default(), nil
}

func provideDB(i do.Injector) (*DBHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(context.Background(), database); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	log.Debug("database ready", "path", cfg.DatabasePath())
	return &DBHandle{DB: database}, nil
}

func provideImageStore(i do.Injector) (*imagestore.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)
	return imagestore.New(cfg.ImagesDir(), log)
}

func providePrefs(i do.Injector) (*prefs.Prefs, error) {
	handle := do.MustInvoke[*DBHandle](i)
	log := do.MustInvoke[*slog.Logger](i)
	return prefs.New(prefs.NewSQLBackend(handle.DB), log), nil
}

func provideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

func provideDemoManager(i do.Injector) (*demo.Manager, error) {
	handle := do.MustInvoke[*DBHandle](i)
	p := do.MustInvoke[*prefs.Prefs](i)
	images := do.MustInvoke[*imagestore.Store](i)
	log := do.MustInvoke[*slog.Logger](i)
	return demo.NewManager(handle.DB, p, images, log), nil
}

func provideInventory(i do.Injector) (*inventory.Service, error) {
	handle := do.MustInvoke[*DBHandle](i)
	images := do.MustInvoke[*imagestore.Store](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)
	return inventory.NewService(handle.DB, images, v, log), nil
}

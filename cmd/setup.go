package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/chitchat/emojikit/internal/config"
	"github.com/chitchat/emojikit/internal/emoji"
	"github.com/chitchat/emojikit/internal/filter"
	"github.com/chitchat/emojikit/internal/localization"
	"github.com/chitchat/emojikit/internal/logging"
	"github.com/chitchat/emojikit/internal/picker"
	"github.com/chitchat/emojikit/internal/storage"
	"github.com/chitchat/emojikit/internal/suggestions"
)

// appRuntime bundles the collaborators a command needs.
type appRuntime struct {
	cfg        *config.Config
	logger     *logging.SlogLogger
	catalog    *emoji.Catalog
	store      storage.Store
	session    *picker.Session
	translator *localization.Translator
	engine     *filter.Engine
}

// newRuntime builds the full picker stack from the loaded configuration.
// Any failure is fatal to the command; nothing here retries.
func newRuntime() (*appRuntime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	})

	catalog, store, err := openCatalog(cfg)
	if err != nil {
		return nil, err
	}

	engine, err := filter.NewEngine()
	if err != nil {
		store.Close()
		return nil, err
	}

	translator, err := localization.NewTranslator(cfg.Locale)
	if err != nil {
		store.Close()
		return nil, err
	}

	tracker := suggestions.NewTracker(store,
		suggestions.WithRecentLimit(suggestions.DefaultLimit),
		suggestions.WithFrequentLimit(suggestions.DefaultLimit))

	session, err := picker.NewSession(catalog, tracker, engine, translator,
		picker.WithSettings(cfg.PickerSettings()),
		picker.WithLogger(logger.WithComponent("picker")))
	if err != nil {
		store.Close()
		return nil, err
	}

	return &appRuntime{
		cfg:        cfg,
		logger:     logger,
		catalog:    catalog,
		store:      store,
		session:    session,
		translator: translator,
		engine:     engine,
	}, nil
}

// close releases the runtime's resources.
func (rt *appRuntime) close() {
	rt.session.Close()
	rt.store.Close()
}

// openCatalog opens the configured storage backend and returns the catalog.
// The SQLite backend is seeded with the embedded catalog on first open and
// then serves as the catalog source; the memory backend reads the embedded
// bundle directly.
func openCatalog(cfg *config.Config) (*emoji.Catalog, storage.Store, error) {
	embedded, err := emoji.LoadDefaultCatalog()
	if err != nil {
		return nil, nil, fmt.Errorf("loading embedded catalog: %w", err)
	}

	if cfg.Storage.Driver == "memory" {
		return embedded, storage.NewMemoryStore(), nil
	}

	if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating storage directory: %w", err)
		}
	}

	store, err := storage.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := store.SeedCatalog(embedded.All()); err != nil {
		store.Close()
		return nil, nil, err
	}
	catalog, err := store.LoadCatalog()
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return catalog, store, nil
}

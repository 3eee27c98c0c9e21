package main

import (
	"context"
	"fmt"
	"os"

	"github.com/juanfelareal/tranki/internal/config"
	"github.com/juanfelareal/tranki/internal/engine"
	"github.com/juanfelareal/tranki/internal/extract"
	"github.com/juanfelareal/tranki/internal/storage"

	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion
// and auto-migration.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/tranki/tranki.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine builds the categorization engine over the given store with the
// built-in lexicon.
func initEngine(store *storage.SQLiteStorage) *engine.Engine {
	return engine.New(store, engine.DefaultLexicon())
}

// initExtractor builds the Gemini vision extractor from config. The API key
// comes from config or the GEMINI_API_KEY environment variable.
func initExtractor(ctx context.Context) (*extract.GeminiExtractor, error) {
	apiKey := viper.GetString("gemini.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	return extract.NewGeminiExtractor(ctx, apiKey, viper.GetString("gemini.model"))
}

// currentTenant resolves the tenant identifier for store operations.
func currentTenant() string {
	if tenant := viper.GetString("tenant"); tenant != "" {
		return tenant
	}
	return "local"
}

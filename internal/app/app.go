// Package app wires the store, generator and pipeline from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdulachik/amanecer/internal/config"
	"github.com/abdulachik/amanecer/internal/db"
	"github.com/abdulachik/amanecer/internal/generator"
	"github.com/abdulachik/amanecer/internal/phrase"
	"github.com/abdulachik/amanecer/internal/pipeline"
	"github.com/abdulachik/amanecer/internal/postgres"
	"github.com/abdulachik/amanecer/internal/reader"
	"github.com/abdulachik/amanecer/internal/scheduler"
	"github.com/abdulachik/amanecer/internal/supabase"
)

// Health components reported by the app.
const (
	ComponentStore     = "store"
	ComponentGenerator = "generator"
)

// App is the main application container holding all dependencies.
type App struct {
	Config    *config.Config
	Store     phrase.Gateway
	Generator *generator.Generator
	Pipeline  *pipeline.Pipeline
	Reader    *reader.Service

	// SQLite is set only for the sqlite backend.
	SQLite *db.Store

	close func() error
}

// New creates a new application instance with all dependencies wired up.
// The schema is created or migrated for the sqlite and postgres backends.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	switch cfg.StoreBackend {
	case config.BackendSQLite:
		store, err := db.NewStore(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		a.Store, a.SQLite, a.close = store, store, store.Close

	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		gw := postgres.NewGateway(pool)
		if err := gw.EnsureSchema(ctx); err != nil {
			gw.Close()
			return nil, err
		}
		a.Store, a.close = gw, gw.Close

	case config.BackendSupabase:
		if !cfg.SupabaseConfigured() {
			slog.Warn("supabase settings missing, using placeholders", "url", cfg.SupabaseURL)
		}
		a.Store = supabase.New(supabase.Config{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseKey})

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	a.Generator = generator.New(generator.Config{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	})
	if !a.Generator.Enabled() {
		slog.Warn("GEMINI_API_KEY not set, the fallback phrase will be used")
	}

	a.Pipeline = pipeline.New(pipeline.Config{Store: a.Store, Generator: a.Generator})
	a.Reader = reader.New(a.Store)

	slog.Debug("app initialized", "backend", cfg.StoreBackend, "ai", a.Generator.Enabled())
	return a, nil
}

// ProbeStore checks the store answers and records the result in health.
func (a *App) ProbeStore(ctx context.Context, health *scheduler.Health) (int64, error) {
	count, err := a.Store.Count(ctx)
	if err != nil {
		err = fmt.Errorf("probe store: %w", err)
		health.SetUnhealthy(ComponentStore, err)
		return 0, err
	}
	health.SetHealthy(ComponentStore, fmt.Sprintf("%s: %d phrases", a.Config.StoreBackend, count))
	return count, nil
}

// Close closes all resources.
func (a *App) Close() error {
	if a.close != nil {
		return a.close()
	}
	return nil
}

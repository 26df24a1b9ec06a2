package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

// Placeholders used when Supabase settings are missing. They keep the client
// constructible so commands like check can report what is wrong.
const (
	PlaceholderSupabaseURL = "https://your-project.supabase.co"
	PlaceholderSupabaseKey = "your-anon-key"
)

// Config holds all application configuration.
type Config struct {
	// Store
	StoreBackend string
	DatabasePath string // SQLite file (default: data/amanecer.db)
	DatabaseURL  string // Postgres DSN

	// Supabase (PostgREST)
	SupabaseURL string
	SupabaseKey string

	// Gemini API
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// Read API
	HTTPAddr     string
	APIRateLimit float64

	// Scheduler
	RunOnStart bool

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:  getEnv("DATABASE_PATH", "data/amanecer.db"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SupabaseURL:   firstEnv("SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"),
		SupabaseKey:   firstEnv("SUPABASE_SERVICE_ROLE_KEY", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"),
		GeminiAPIKey:  firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash-lite"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	cfg.StoreBackend = getEnv("STORE_BACKEND", deriveBackend(cfg))

	if cfg.SupabaseURL == "" {
		cfg.SupabaseURL = PlaceholderSupabaseURL
	}
	if cfg.SupabaseKey == "" {
		cfg.SupabaseKey = PlaceholderSupabaseKey
	}

	var err error
	cfg.GeminiTimeout, err = time.ParseDuration(getEnv("GEMINI_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid GEMINI_TIMEOUT: %w", err)
	}

	cfg.APIRateLimit, err = strconv.ParseFloat(getEnv("API_RATE_LIMIT", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid API_RATE_LIMIT: %w", err)
	}

	cfg.RunOnStart, err = strconv.ParseBool(getEnv("RUN_ON_START", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid RUN_ON_START: %w", err)
	}

	return cfg, nil
}

// SupabaseConfigured reports whether real Supabase settings were provided.
func (c *Config) SupabaseConfigured() bool {
	return c.SupabaseURL != PlaceholderSupabaseURL && c.SupabaseKey != PlaceholderSupabaseKey
}

// Validate checks that the selected store backend is usable.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendSupabase:
		if c.SupabaseURL == PlaceholderSupabaseURL {
			return fmt.Errorf("SUPABASE_URL is required for the supabase backend")
		}
		if c.SupabaseKey == PlaceholderSupabaseKey {
			return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY or SUPABASE_ANON_KEY is required for the supabase backend")
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %s (must be 'sqlite', 'postgres' or 'supabase')", c.StoreBackend)
	}
	return nil
}

// ValidateForServe checks configuration needed for serve mode.
func (c *Config) ValidateForServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required for serve")
	}
	if c.APIRateLimit <= 0 {
		return fmt.Errorf("API_RATE_LIMIT must be positive, got %v", c.APIRateLimit)
	}
	return nil
}

func deriveBackend(c *Config) string {
	switch {
	case c.SupabaseURL != "":
		return BackendSupabase
	case c.DatabaseURL != "":
		return BackendPostgres
	default:
		return BackendSQLite
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

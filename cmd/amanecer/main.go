package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abdulachik/amanecer/internal/app"
	"github.com/abdulachik/amanecer/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "amanecer",
	Short: "Daily motivational phrase generator",
	Long: `Amanecer generates one motivational phrase in Spanish per day with the
Gemini API, stores it for the following date and serves published phrases.`,
	SilenceUsage: true,
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	// Set up logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// openApp loads and validates configuration, then wires the application.
func openApp(ctx context.Context, validate func(*config.Config) error) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	slog.Info("opening store", "backend", cfg.StoreBackend)
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open app: %w", err)
	}
	return a, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/amanecer/internal/app"
	"github.com/abdulachik/amanecer/internal/config"
	"github.com/abdulachik/amanecer/internal/generator"
	"github.com/abdulachik/amanecer/internal/scheduler"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration, store access and the Gemini API",
	Long: `Report which settings are present, verify the store can be read and ask
Gemini for one phrase without storing it.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func present(ok bool) string {
	if ok {
		return "set"
	}
	return "missing"
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Println("=== Configuration ===")
	fmt.Println()
	fmt.Printf("Backend: %s\n", cfg.StoreBackend)
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		fmt.Printf("DATABASE_PATH: %s\n", cfg.DatabasePath)
	case config.BackendPostgres:
		fmt.Printf("DATABASE_URL: %s\n", present(cfg.DatabaseURL != ""))
	case config.BackendSupabase:
		fmt.Printf("SUPABASE_URL: %s\n", present(cfg.SupabaseURL != config.PlaceholderSupabaseURL))
		fmt.Printf("SUPABASE key: %s\n", present(cfg.SupabaseKey != config.PlaceholderSupabaseKey))
	}
	fmt.Printf("GEMINI_API_KEY: %s\n", present(cfg.GeminiAPIKey != ""))
	fmt.Printf("GEMINI_MODEL: %s\n", cfg.GeminiModel)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open app: %w", err)
	}
	defer a.Close()

	fmt.Println("=== Store ===")
	fmt.Println()
	health := scheduler.NewHealth()
	count, storeErr := a.ProbeStore(ctx, health)
	if storeErr != nil {
		fmt.Printf("FAIL: %v\n", storeErr)
	} else {
		fmt.Printf("OK: %d phrases readable\n", count)
	}
	fmt.Println()

	fmt.Println("=== Gemini ===")
	fmt.Println()
	genCtx, cancel := context.WithTimeout(ctx, cfg.GeminiTimeout+5*time.Second)
	defer cancel()

	out, err := a.Generator.Compose(genCtx)
	switch {
	case errors.Is(err, generator.ErrNoAPIKey):
		fmt.Println("SKIP: no API key, the fallback phrase will be used")
	case err != nil:
		fmt.Printf("FAIL: %v\n", err)
	default:
		fmt.Printf("OK: \"%s\" - %s (%s)\n", out.Content, out.Author, out.Category)
	}
	fmt.Println()

	if storeErr != nil {
		return fmt.Errorf("store check failed: %w", storeErr)
	}
	return nil
}

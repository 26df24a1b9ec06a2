package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/amanecer/internal/config"
	"github.com/abdulachik/amanecer/internal/generator"
	"github.com/abdulachik/amanecer/internal/phrase"
)

var generateDryRun bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate tomorrow's phrase",
	Long: `Generate the phrase for tomorrow and store it, unless one is already stored.
Meant to be run once a day by cron or a CI schedule.

Examples:
  amanecer generate            # Fill tomorrow's slot
  amanecer generate --dry-run  # Show a generated phrase without storing it`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Generate and print a phrase without touching the store")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if generateDryRun {
		return runGenerateDryRun(ctx)
	}

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("generate phrase: %w", err)
	}

	fmt.Printf("Date: %s\n", res.Date)
	fmt.Printf("State: %s\n", res.State)
	if res.Phrase != nil {
		fmt.Println()
		fmt.Printf("\"%s\"\n\n- %s\n", res.Phrase.Content, res.Phrase.Author)
	}
	return nil
}

func runGenerateDryRun(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gen := generator.New(generator.Config{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	})

	slog.Info("generating phrase", "dry_run", true, "ai", gen.Enabled())
	out := gen.Generate(ctx)

	source := "fallback"
	if out.IsAI {
		source = "gemini"
	}

	fmt.Println()
	fmt.Println("=== Phrase ===")
	fmt.Println()
	fmt.Printf("\"%s\"\n\n- %s\n", out.Content, out.Author)
	fmt.Println()
	fmt.Printf("Category: %s\n", out.Category)
	fmt.Printf("Source: %s\n", source)
	fmt.Printf("Date: %s\n", phrase.Tomorrow(time.Now()))
	fmt.Println()
	fmt.Println("=== DRY RUN - Not stored ===")
	return nil
}

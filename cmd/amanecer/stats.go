package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/amanecer/internal/config"
	"github.com/abdulachik/amanecer/internal/phrase"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show phrase statistics",
	Long:  `Display how many phrases are stored, the latest one and whether tomorrow's slot is filled.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	total, err := a.Store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count phrases: %w", err)
	}

	tomorrow := a.Pipeline.TargetDate()
	tomorrowFilled := true
	if _, err := a.Store.GetByDate(ctx, tomorrow); err != nil {
		if !errors.Is(err, phrase.ErrNotFound) {
			slog.Warn("failed to look up tomorrow's phrase", "error", err)
		}
		tomorrowFilled = false
	}

	latest, err := a.Store.GetMostRecent(ctx)
	if err != nil && !errors.Is(err, phrase.ErrNotFound) {
		slog.Warn("failed to get latest phrase", "error", err)
	}

	// Print stats
	fmt.Println("=== Amanecer Statistics ===")
	fmt.Println()
	fmt.Printf("Backend: %s\n", a.Config.StoreBackend)
	if a.Config.StoreBackend == config.BackendSQLite {
		fmt.Printf("Database: %s\n", a.Config.DatabasePath)
	}
	fmt.Println()
	fmt.Println("Phrases:")
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Today: %s\n", phrase.FormatDate(time.Now()))
	fmt.Printf("  Tomorrow (%s) filled: %t\n", tomorrow, tomorrowFilled)
	if latest != nil {
		fmt.Printf("  Latest: %s \"%s\" - %s\n", latest.CreatedAt, latest.Content, latest.Author)
	}
	fmt.Println()

	if a.SQLite != nil {
		byCategory, err := a.SQLite.CountPhrasesByCategory(ctx)
		if err != nil {
			return fmt.Errorf("count phrases by category: %w", err)
		}
		if len(byCategory) > 0 {
			fmt.Println("  By category:")
			for _, row := range byCategory {
				name := row.Category
				if name == "" {
					name = "(none)"
				}
				fmt.Printf("    %s: %d\n", name, row.Count)
			}
			fmt.Println()
		}
	}

	return nil
}

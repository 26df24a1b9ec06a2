package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdulachik/amanecer/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the phrases schema",
	Long: `Run pending migrations for the sqlite backend or create the phrases table
and its date index for the postgres backend. The supabase backend is
managed from the Supabase dashboard and is left untouched.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Opening the app applies the schema for backends that own one.
	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Config.StoreBackend == config.BackendSupabase {
		slog.Info("supabase backend has no local migrations")
		return nil
	}

	if a.SQLite != nil {
		versions, err := a.SQLite.AppliedMigrations(ctx)
		if err != nil {
			return err
		}
		slog.Info("migrations completed successfully", "backend", a.Config.StoreBackend, "applied", len(versions))
		return nil
	}

	slog.Info("migrations completed successfully", "backend", a.Config.StoreBackend)
	return nil
}

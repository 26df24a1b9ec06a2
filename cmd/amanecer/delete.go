package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdulachik/amanecer/internal/config"
	"github.com/abdulachik/amanecer/internal/phrase"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored phrase",
	Long: `Delete a phrase by ID. Its date slot becomes free again, so the next
generate run for that date will fill it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := openApp(ctx, (*config.Config).Validate)
	if err != nil {
		return err
	}
	defer a.Close()

	id := args[0]
	if err := a.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, phrase.ErrNotFound) {
			return fmt.Errorf("no phrase with id %s", id)
		}
		return fmt.Errorf("delete phrase: %w", err)
	}

	fmt.Printf("Deleted phrase %s\n", id)
	return nil
}

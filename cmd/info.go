package cmd

import (
	"context"
	"fmt"

	"simples-mirror/core/config"
	"simples-mirror/core/database"
	"simples-mirror/feature/registry"

	"github.com/spf13/cobra"
)

// infoCmd prints a summary of the currently loaded dataset.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the loaded dataset release and row count",
	RunE:  runInfo,
}

func init() {
	RootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !database.Exists(cfg.Database) {
		fmt.Println("Local store not found. Run 'simples-mirror refresh' first.")
		return nil
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	svc := registry.NewService(registry.NewStore(db), nil)

	sum, err := svc.Summarize(ctx)
	if err != nil {
		return err
	}

	release := sum.ReleaseDate
	if release == "" {
		release = "unknown"
	}
	loaded := sum.LoadedAt
	if loaded == "" {
		loaded = "never"
	}

	fmt.Printf("Release date: %s\n", release)
	fmt.Printf("Loaded at:    %s\n", loaded)
	fmt.Printf("Rows:         %d\n", sum.Rows)
	return nil
}

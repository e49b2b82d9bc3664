package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"simples-mirror/core/config"
	"simples-mirror/core/database"
	"simples-mirror/feature/registry"
	"simples-mirror/feature/registry/models"

	"github.com/spf13/cobra"
)

// lookupCmd queries a single CNPJ against the local store.
var lookupCmd = &cobra.Command{
	Use:   "lookup <identifier>",
	Short: "Look up a CNPJ in the local registry",
	Long: `Look up a CNPJ in the local registry snapshot.

The identifier may be formatted (11.222.333/0001-81) or digits only; it is
normalized to its 8-digit base before the lookup. A missing record is a
message, not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	RootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
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

	rec, err := svc.Lookup(ctx, args[0])
	if errors.Is(err, registry.ErrNotFound) {
		fmt.Printf("CNPJ %s not found in the local registry.\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	printRecord(rec)
	return nil
}

func printRecord(rec *models.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "CNPJ base\t%s\n", rec.CNPJBase)
	fmt.Fprintf(w, "Simples option\t%s\n", rec.SimplesOption)
	fmt.Fprintf(w, "Simples option date\t%s\n", rec.SimplesOptionDate)
	fmt.Fprintf(w, "Simples exclusion date\t%s\n", rec.SimplesExclusionDate)
	fmt.Fprintf(w, "MEI option\t%s\n", rec.MEIOption)
	fmt.Fprintf(w, "MEI option date\t%s\n", rec.MEIOptionDate)
	fmt.Fprintf(w, "MEI exclusion date\t%s\n", rec.MEIExclusionDate)
	_ = w.Flush()
}

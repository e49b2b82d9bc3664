package cmd

import (
	"context"
	"fmt"

	"simples-mirror/core/config"
	"simples-mirror/core/database"
	"simples-mirror/core/logger"
	"simples-mirror/feature/registry"
	"simples-mirror/feature/registry/discovery"
	"simples-mirror/feature/registry/reconcile"
	"simples-mirror/feature/registry/transfer"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// refreshCmd reconciles the local store against the latest remote release.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Check for a newer dataset release and import it",
	Long: `Check the Receita Federal file index for a newer dataset release.

When the remote release date is newer than the locally loaded one (or no
load has ever completed), the archive is downloaded, extracted, and imported
into a freshly rebuilt store. Otherwise no action is taken.`,
	RunE: runRefresh,
}

func init() {
	RootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	tmpDir, err := cfg.Source.ResolveTmpDir()
	if err != nil {
		return err
	}

	store := registry.NewStore(db)
	importBar := newByteBar("Importing dataset")
	downloadBar := newByteBar("Downloading archive")

	loader := registry.NewLoader(store, cfg.Source.BatchSize, l, importBar)
	disc := discovery.NewClient(cfg.Source.IndexURL, cfg.Source.ArchiveName)
	tr := transfer.NewClient()

	r := reconcile.New(store, loader, disc, tr, l, reconcile.Options{
		TmpDir:           tmpDir,
		ArchiveName:      cfg.Source.ArchiveName,
		DownloadProgress: downloadBar,
	})

	out, err := r.Run(ctx)
	downloadBar.finish()
	importBar.finish()

	printVersionStatus(out)

	if err != nil {
		// Report and exit cleanly: a failed reconciliation is a user-visible
		// condition, re-invoked manually, not a process crash.
		l.Error("Refresh failed", zap.Error(err))
		return nil
	}

	switch out.State {
	case reconcile.StateUpToDate:
		fmt.Println("The local store is already up to date.")
	case reconcile.StateDone:
		fmt.Printf("Refresh complete: %d rows loaded (%d dropped).\n",
			out.Load.Rows, out.Load.Dropped)
	}
	return nil
}

// printVersionStatus renders the remote vs local version panel.
func printVersionStatus(out *reconcile.Outcome) {
	if out.RemoteDate.IsZero() {
		return
	}
	local := "absent"
	if out.LocalDate != nil {
		local = out.LocalDate.Format("2006-01-02 15:04:05")
	}
	fmt.Printf("Remote release: %s\n", out.RemoteDate.Format("2006-01-02 15:04:05"))
	fmt.Printf("Local release:  %s\n", local)
}

// byteBar renders progress.Reporter events as a terminal byte progress bar.
// The bar is created lazily on the first event, when the total is known.
type byteBar struct {
	desc string
	bar  *progressbar.ProgressBar
}

func newByteBar(desc string) *byteBar {
	return &byteBar{desc: desc}
}

func (b *byteBar) Report(completed, total int64) {
	if b.bar == nil {
		b.bar = progressbar.DefaultBytes(total, b.desc)
	}
	_ = b.bar.Set64(completed)
}

func (b *byteBar) finish() {
	if b.bar != nil {
		_ = b.bar.Finish()
		fmt.Println()
	}
}

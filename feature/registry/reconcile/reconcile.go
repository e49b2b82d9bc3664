package reconcile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"simples-mirror/core/progress"
	"simples-mirror/feature/registry"
	"simples-mirror/feature/registry/discovery"
	"simples-mirror/feature/registry/models"

	"go.uber.org/zap"
)

// State identifies where a reconciliation attempt is, or where it stopped.
type State string

const (
	StateChecking    State = "checking"
	StateUpToDate    State = "up_to_date"
	StateDownloading State = "downloading"
	StateExtracting  State = "extracting"
	StateRebuilding  State = "rebuilding"
	StateLoading     State = "loading"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Discoverer finds the most recent remote release.
type Discoverer interface {
	Latest(ctx context.Context) (discovery.Release, error)
	ArchiveURL(rel discovery.Release) string
}

// Transferer downloads and extracts dataset archives.
type Transferer interface {
	Download(ctx context.Context, url, dest string, reporter progress.Reporter) error
	Unzip(src, destDir string) error
}

// Options configures a reconciliation run.
type Options struct {
	// TmpDir is the working directory staging the archive and its contents.
	TmpDir string
	// ArchiveName is the fixed archive filename within a release.
	ArchiveName string
	// DownloadProgress receives transfer byte events. May be nil. Import
	// progress is reported by the loader itself.
	DownloadProgress progress.Reporter
}

// Outcome reports the terminal state of a reconciliation attempt.
type Outcome struct {
	// State is the terminal state reached.
	State State
	// RemoteDate is the discovered remote release date, when discovery ran.
	RemoteDate time.Time
	// LocalDate is the locally persisted release date; nil when absent.
	LocalDate *time.Time
	// Load summarizes the import, when one ran.
	Load *registry.LoadResult
}

// Reconciler compares the remote release against the local store and, when
// the remote is newer or the store has never been loaded, drives the full
// download, extract, rebuild and import pipeline.
type Reconciler struct {
	store  *registry.Store
	loader *registry.Loader
	disc   Discoverer
	tr     Transferer
	logger *zap.Logger
	opts   Options
}

// New creates a reconciler over the given collaborators.
func New(store *registry.Store, loader *registry.Loader, disc Discoverer, tr Transferer, logger *zap.Logger, opts Options) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{store: store, loader: loader, disc: disc, tr: tr, logger: logger, opts: opts}
}

// LocalReleaseDate returns the release date of the currently loaded dataset,
// or nil when the store has never completed a load. A metadata row whose
// date does not parse is treated as absent, forcing a reload.
func (r *Reconciler) LocalReleaseDate(ctx context.Context) (*time.Time, error) {
	meta, err := r.store.LatestMetadata(ctx)
	if errors.Is(err, registry.ErrNoMetadata) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	date, parseErr := time.Parse(models.TimestampLayout, meta.DataBase)
	if parseErr != nil {
		r.logger.Warn("Unparseable local release date, treating as absent",
			zap.String("data_base", meta.DataBase))
		return nil, nil
	}
	return &date, nil
}

// Run executes one reconciliation attempt. Errors in discovery, transfer,
// extraction or loading are terminal for the attempt; nothing retries
// automatically. The returned Outcome is valid even when err is non-nil.
func (r *Reconciler) Run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{State: StateChecking}

	latest, err := r.disc.Latest(ctx)
	if err != nil {
		out.State = StateFailed
		return out, fmt.Errorf("discovery failed: %w", err)
	}
	out.RemoteDate = latest.Date

	local, err := r.LocalReleaseDate(ctx)
	if err != nil {
		out.State = StateFailed
		return out, err
	}
	out.LocalDate = local

	// Reload iff the local release date is absent or the remote is newer.
	if local != nil && !latest.Date.After(*local) {
		out.State = StateUpToDate
		r.logger.Info("Local store is up to date",
			zap.Time("local", *local), zap.Time("remote", latest.Date))
		return out, nil
	}

	tmpDir := r.opts.TmpDir
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		out.State = StateFailed
		return out, fmt.Errorf("failed to create working directory: %w", err)
	}
	archivePath := filepath.Join(tmpDir, r.opts.ArchiveName)

	out.State = StateDownloading
	url := r.disc.ArchiveURL(latest)
	r.logger.Info("Downloading dataset archive", zap.String("url", url))
	if err := r.tr.Download(ctx, url, archivePath, r.opts.DownloadProgress); err != nil {
		out.State = StateFailed
		return out, err
	}

	out.State = StateExtracting
	r.logger.Info("Extracting archive", zap.String("dir", tmpDir))
	unzipErr := r.tr.Unzip(archivePath, tmpDir)
	r.removeBestEffort(archivePath)
	if unzipErr != nil {
		out.State = StateFailed
		return out, unzipErr
	}

	dataPath, err := findDataFile(tmpDir)
	if err != nil {
		out.State = StateFailed
		return out, err
	}

	out.State = StateRebuilding
	r.logger.Info("Rebuilding store schema")
	if err := r.store.Reset(ctx); err != nil {
		out.State = StateFailed
		return out, err
	}

	out.State = StateLoading
	r.logger.Info("Importing dataset", zap.String("file", dataPath),
		zap.Time("release", latest.Date))
	result, err := r.loader.LoadFile(ctx, dataPath, latest.Date)
	if err != nil {
		out.State = StateFailed
		return out, err
	}
	out.Load = result

	out.State = StateDone
	r.removeBestEffort(dataPath)

	return out, nil
}

// removeBestEffort deletes a staging file; failure is reported, not fatal.
func (r *Reconciler) removeBestEffort(path string) {
	if err := os.Remove(path); err != nil {
		r.logger.Warn("Failed to remove temporary file",
			zap.String("path", path), zap.Error(err))
	}
}

// findDataFile locates the extracted dataset file in the working directory.
func findDataFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list working directory: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.Contains(e.Name(), "SIMPLES") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no SIMPLES data file found in %s", dir)
}

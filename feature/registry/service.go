package registry

import (
	"context"
	"errors"
	"strings"

	"simples-mirror/feature/registry/models"

	"go.uber.org/zap"
)

// PrefixLength is the number of digits identifying a business entity,
// independent of any longer identifier format.
const PrefixLength = 8

// NormalizeID strips all non-digit characters from a raw identifier and
// returns the first 8 digits. Fewer digits are returned as-is; the lookup
// will simply not match.
func NormalizeID(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == PrefixLength {
				break
			}
		}
	}
	return b.String()
}

// Service exposes the read-only query operations over the store.
type Service struct {
	store  *Store
	logger *zap.Logger
}

// NewService creates a new registry query service.
func NewService(store *Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Lookup normalizes the raw identifier to its 8-digit prefix and returns the
// matching record, or ErrNotFound.
func (s *Service) Lookup(ctx context.Context, rawID string) (*models.Record, error) {
	prefix := NormalizeID(rawID)
	return s.store.Lookup(ctx, prefix)
}

// Summary describes the currently loaded dataset.
type Summary struct {
	// ReleaseDate is the publisher release date of the loaded dataset, or
	// empty when no load has completed.
	ReleaseDate string `json:"release_date"`
	// LoadedAt is when the local import completed, or empty.
	LoadedAt string `json:"loaded_at"`
	// Rows is the total number of loaded records.
	Rows int64 `json:"rows"`
}

// Summarize reports the current release date and row count. An absent or
// never-loaded store yields an empty release date and zero rows, not an
// error; storage failures are propagated.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	meta, err := s.store.LatestMetadata(ctx)
	switch {
	case errors.Is(err, ErrNoMetadata):
		// Data without a commit marker reads as "nothing loaded".
	case err != nil:
		return nil, err
	default:
		summary.ReleaseDate = meta.DataBase
		summary.LoadedAt = meta.DataDownload
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	summary.Rows = count

	return summary, nil
}

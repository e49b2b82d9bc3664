package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"simples-mirror/feature/registry/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound indicates that no record exists for the requested prefix.
	ErrNotFound = errors.New("registry: record not found")
	// ErrNoMetadata indicates that no release has been loaded yet: the store
	// is missing, empty, or was left without a commit marker by an aborted
	// import. Callers treat all three the same way (a reload is needed).
	ErrNoMetadata = errors.New("registry: no release metadata")
)

// insertChunk bounds the rows per INSERT statement so the bind-variable
// count stays under SQLite's limit (7 columns per row).
const insertChunk = 500

// Store is the indexed local store for registry records and release
// metadata. It assumes a single writer; bulk loads are not safe to run
// concurrently with queries.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Reset destroys and recreates the store schema. Every reload starts here;
// record rows are never deleted individually.
func (s *Store) Reset(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	if err := db.Migrator().DropTable(&models.Record{}, &models.ReleaseMetadata{}); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	if err := db.AutoMigrate(&models.Record{}, &models.ReleaseMetadata{}); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// PrepareBulk relaxes durability settings for the duration of a bulk load.
// A crash mid-load is recovered by a full reload, not partial repair, so
// throughput wins over intra-load crash safety. No-op for non-SQLite drivers.
func (s *Store) PrepareBulk(ctx context.Context) error {
	if s.db.Dialector.Name() != "sqlite" {
		return nil
	}
	db := s.db.WithContext(ctx)
	if err := db.Exec("PRAGMA synchronous = OFF").Error; err != nil {
		return fmt.Errorf("failed to set synchronous pragma: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode = MEMORY").Error; err != nil {
		return fmt.Errorf("failed to set journal_mode pragma: %w", err)
	}
	return nil
}

// UpsertBatch applies one batch of records in a single transaction with
// insert-or-replace semantics keyed by cnpj_base. A repeated key within the
// batch results in the last-applied values winning.
func (s *Store) UpsertBatch(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cnpj_base"}},
			UpdateAll: true,
		}).CreateInBatches(records, insertChunk).Error
	})
	if err != nil {
		return fmt.Errorf("failed to upsert batch of %d records: %w", len(records), err)
	}
	return nil
}

// EnsureIndex builds the prefix index if it is not already present.
func (s *Store) EnsureIndex(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if db.Migrator().HasIndex(&models.Record{}, "idx_cnpj_base") {
		return nil
	}
	if err := db.Exec("CREATE INDEX idx_cnpj_base ON simples (cnpj_base ASC)").Error; err != nil {
		return fmt.Errorf("failed to create prefix index: %w", err)
	}
	return nil
}

// AppendMetadata appends the commit marker for a completed load. It must be
// called only after all batches are applied and the index exists.
func (s *Store) AppendMetadata(ctx context.Context, releaseDate, loadedAt time.Time) error {
	row := models.ReleaseMetadata{
		DataBase:     releaseDate.Format(models.TimestampLayout),
		DataDownload: loadedAt.Format(models.TimestampLayout),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to append release metadata: %w", err)
	}
	return nil
}

// LatestMetadata returns the most recently appended metadata row, or
// ErrNoMetadata when the table is missing or empty.
func (s *Store) LatestMetadata(ctx context.Context) (*models.ReleaseMetadata, error) {
	db := s.db.WithContext(ctx)

	if !db.Migrator().HasTable(&models.ReleaseMetadata{}) {
		return nil, ErrNoMetadata
	}

	var rows []models.ReleaseMetadata
	if err := db.Order("data_download DESC").Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read release metadata: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoMetadata
	}
	return &rows[0], nil
}

// Count returns the total number of loaded records. A missing record table
// counts as zero rather than a storage error.
func (s *Store) Count(ctx context.Context) (int64, error) {
	db := s.db.WithContext(ctx)

	if !db.Migrator().HasTable(&models.Record{}) {
		return 0, nil
	}

	var count int64
	if err := db.Model(&models.Record{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// Lookup returns the record for an exact 8-character prefix, or ErrNotFound.
func (s *Store) Lookup(ctx context.Context, prefix string) (*models.Record, error) {
	db := s.db.WithContext(ctx)

	if !db.Migrator().HasTable(&models.Record{}) {
		return nil, ErrNotFound
	}

	var rec models.Record
	err := db.Where("cnpj_base = ?", prefix).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", prefix, err)
	}
	return &rec, nil
}

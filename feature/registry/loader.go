package registry

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"simples-mirror/core/progress"
	"simples-mirror/feature/registry/models"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DefaultBatchSize is the number of accepted rows applied per transaction.
const DefaultBatchSize = 100000

// reportStep is the byte granularity for progress events during an import.
const reportStep = 1 << 20

// Loader streams the raw dataset into the store in fixed-size batches.
// It assumes exclusive access to the store for the duration of a load.
type Loader struct {
	store     *Store
	batchSize int
	logger    *zap.Logger
	reporter  progress.Reporter
}

// LoadResult summarizes a completed import.
type LoadResult struct {
	// Rows is the number of accepted rows applied to the store.
	Rows int64
	// Dropped counts rows discarded for wrong field arity.
	Dropped int64
	// Bytes is the total raw bytes consumed from the input.
	Bytes int64
}

// NewLoader creates a loader writing to store. A non-positive batchSize
// falls back to DefaultBatchSize; logger and reporter may be nil.
func NewLoader(store *Store, batchSize int, logger *zap.Logger, reporter progress.Reporter) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if reporter == nil {
		reporter = progress.Discard
	}
	return &Loader{store: store, batchSize: batchSize, logger: logger, reporter: reporter}
}

// LoadFile imports the dataset file at path, stamping the store with
// releaseDate on success.
func (l *Loader) LoadFile(ctx context.Context, path string, releaseDate time.Time) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat dataset file: %w", err)
	}

	return l.Load(ctx, f, info.Size(), releaseDate)
}

// Load consumes the raw ;-delimited, "-quoted, Latin-1 dataset from r and
// applies it to the store in batches. Rows whose field count differs from 7
// are dropped. On success one metadata row stamped with releaseDate and the
// current wall-clock time is appended as the commit marker.
//
// Byte progress is reported against size (use -1 when unknown) at 1 MiB
// granularity, with a final event carrying the exact totals.
func (l *Loader) Load(ctx context.Context, r io.Reader, size int64, releaseDate time.Time) (*LoadResult, error) {
	if err := l.store.PrepareBulk(ctx); err != nil {
		return nil, err
	}

	throttled := progress.Throttle(l.reporter, reportStep)
	counting := progress.NewReader(r, size, throttled)

	// The source uses a legacy 8-bit encoding; decode to UTF-8 so accented
	// text survives storage. Byte progress tracks the raw input, not the
	// decoded stream.
	reader := csv.NewReader(transform.NewReader(counting, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	result := &LoadResult{}
	batch := make([]models.Record, 0, l.batchSize)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			result.Dropped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset: %w", err)
		}

		if len(row) != models.FieldCount {
			result.Dropped++
			continue
		}

		batch = append(batch, models.DecodeRow(row))
		result.Rows++

		if len(batch) >= l.batchSize {
			if err := l.store.UpsertBatch(ctx, batch); err != nil {
				return nil, err
			}
			batch = batch[:0]
		}
	}

	if err := l.store.UpsertBatch(ctx, batch); err != nil {
		return nil, err
	}

	result.Bytes = counting.N()
	throttled.Flush()

	l.logger.Info("Building prefix index")
	if err := l.store.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	// The metadata row is the commit marker: a crash before this point
	// leaves the store reading as "needs reload" on the next reconciliation.
	if err := l.store.AppendMetadata(ctx, releaseDate, time.Now()); err != nil {
		return nil, err
	}

	l.logger.Info("Import finished",
		zap.Int64("rows", result.Rows),
		zap.Int64("dropped", result.Dropped),
		zap.Int64("bytes", result.Bytes),
	)

	return result, nil
}

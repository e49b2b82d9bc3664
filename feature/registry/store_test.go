package registry_test

import (
	"context"
	"testing"
	"time"

	"simples-mirror/core/database"
	"simples-mirror/feature/registry"
	"simples-mirror/feature/registry/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *registry.Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	store := registry.NewStore(db)
	require.NoError(t, store.Reset(context.Background()))
	return store
}

func TestStore_UpsertAndLookup(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	recs := []models.Record{
		{CNPJBase: "11222333", SimplesOption: "S", SimplesOptionDate: "01/01/2020"},
		{CNPJBase: "44555666", SimplesOption: "N"},
	}
	require.NoError(t, store.UpsertBatch(ctx, recs))

	got, err := store.Lookup(ctx, "11222333")
	require.NoError(t, err)
	assert.Equal(t, "S", got.SimplesOption)
	assert.Equal(t, "01/01/2020", got.SimplesOptionDate)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestStore_Lookup_NotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.Lookup(context.Background(), "00000000")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestStore_UpsertBatch_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	// Same key twice within one batch: the last-applied values must survive.
	recs := []models.Record{
		models.DecodeRow([]string{"11222333", "S", "20200101", "", "N", "", ""}),
		models.DecodeRow([]string{"11222333", "N", "", "20210101", "S", "20210202", ""}),
	}
	require.NoError(t, store.UpsertBatch(ctx, recs))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := store.Lookup(ctx, "11222333")
	require.NoError(t, err)
	assert.Equal(t, "N", got.SimplesOption)
	assert.Equal(t, "S", got.MEIOption)
	assert.Equal(t, "01/01/2021", got.SimplesExclusionDate)
	assert.Equal(t, "02/02/2021", got.MEIOptionDate)
}

func TestStore_UpsertBatch_ReplacesAcrossBatches(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	require.NoError(t, store.UpsertBatch(ctx, []models.Record{
		{CNPJBase: "11222333", SimplesOption: "S"},
	}))
	require.NoError(t, store.UpsertBatch(ctx, []models.Record{
		{CNPJBase: "11222333", SimplesOption: "N", MEIOption: "S"},
	}))

	got, err := store.Lookup(ctx, "11222333")
	require.NoError(t, err)
	assert.Equal(t, "N", got.SimplesOption)
	assert.Equal(t, "S", got.MEIOption)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStore_Reset_WipesData(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	require.NoError(t, store.UpsertBatch(ctx, []models.Record{{CNPJBase: "11222333"}}))
	require.NoError(t, store.AppendMetadata(ctx, time.Now(), time.Now()))

	require.NoError(t, store.Reset(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = store.LatestMetadata(ctx)
	assert.ErrorIs(t, err, registry.ErrNoMetadata)
}

func TestStore_EnsureIndex_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	require.NoError(t, store.EnsureIndex(ctx))
	require.NoError(t, store.EnsureIndex(ctx))
}

func TestStore_Metadata(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	_, err := store.LatestMetadata(ctx)
	assert.ErrorIs(t, err, registry.ErrNoMetadata)

	older := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.AppendMetadata(ctx, older, older.Add(time.Hour)))
	require.NoError(t, store.AppendMetadata(ctx, newer, newer.Add(time.Hour)))

	meta, err := store.LatestMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01 10:00:00", meta.DataBase)
}

func TestStore_Count_EmptyStore(t *testing.T) {
	// A fresh connection with no schema: count reads as zero, not an error.
	db, err := database.Connect(database.Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	count, err := registry.NewStore(db).Count(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_Count_StorageError(t *testing.T) {
	// Distinguish a real storage failure from an absent/empty store.
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	// Expect queries - relaxed matching
	// The dialector reads the engine version on open.
	mock.ExpectQuery(".*").WillReturnRows(
		sqlmock.NewRows([]string{"sqlite_version()"}).AddRow("3.45.1"))

	db, err := gorm.Open(sqlite.New(sqlite.Config{Conn: conn}), &gorm.Config{})
	require.NoError(t, err)

	// HasTable check reports the table present.
	mock.ExpectQuery(".*").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	// The count itself fails.
	mock.ExpectQuery(".*").WillReturnError(assert.AnError)

	_, err = registry.NewStore(db).Count(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, registry.ErrNoMetadata)
}

func TestStore_PrepareBulk(t *testing.T) {
	store := setupStore(t)
	assert.NoError(t, store.PrepareBulk(context.Background()))
}

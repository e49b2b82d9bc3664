package registry_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"simples-mirror/core/database"
	"simples-mirror/feature/registry"
	"simples-mirror/feature/registry/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, *registry.Store) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	store := registry.NewStore(db)
	require.NoError(t, store.Reset(context.Background()))

	app := fiber.New()
	feature := registry.NewFeature(db, nil)
	require.NoError(t, feature.Register(app))

	return app, store
}

func TestHandleLookup(t *testing.T) {
	app, store := setupApp(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertBatch(ctx, []models.Record{
		{CNPJBase: "11222333", SimplesOption: "S", SimplesOptionDate: "01/01/2020"},
	}))

	resp, err := app.Test(httptest.NewRequest("GET", "/registry/11.222.333-0001-81", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var rec models.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, "11222333", rec.CNPJBase)
	assert.Equal(t, "01/01/2020", rec.SimplesOptionDate)
}

func TestHandleLookup_NotFound(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/registry/00000000", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleSummary(t *testing.T) {
	app, store := setupApp(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertBatch(ctx, []models.Record{{CNPJBase: "11222333"}}))
	release := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendMetadata(ctx, release, release))

	resp, err := app.Test(httptest.NewRequest("GET", "/registry/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var summary registry.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, "2024-06-01 10:00:00", summary.ReleaseDate)
	assert.Equal(t, int64(1), summary.Rows)
}

func TestHandleSummary_EmptyStore(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/registry/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var summary registry.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, "unknown", summary.ReleaseDate)
	assert.Zero(t, summary.Rows)
}

package registry_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"simples-mirror/feature/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventCapture struct {
	events [][2]int64
}

func (c *eventCapture) Report(completed, total int64) {
	c.events = append(c.events, [2]int64{completed, total})
}

const sampleCSV = `"11222333";"S";"20200101";"";"N";"";""
"44555666";"N";"";"20210101";"S";"20210202";""
"77888999";"S";"20190315";"";"N";"";""
`

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	rep := &eventCapture{}
	loader := registry.NewLoader(store, 2, nil, rep)

	release := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	result, err := loader.Load(ctx, strings.NewReader(sampleCSV), int64(len(sampleCSV)), release)
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Rows)
	assert.Zero(t, result.Dropped)
	assert.Equal(t, int64(len(sampleCSV)), result.Bytes)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	rec, err := store.Lookup(ctx, "44555666")
	require.NoError(t, err)
	assert.Equal(t, "01/01/2021", rec.SimplesExclusionDate)
	assert.Equal(t, "02/02/2021", rec.MEIOptionDate)

	// Metadata commits the load with the supplied release date.
	meta, err := store.LatestMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01 10:00:00", meta.DataBase)

	// Final progress event reports the exact byte total.
	require.NotEmpty(t, rep.events)
	last := rep.events[len(rep.events)-1]
	assert.Equal(t, int64(len(sampleCSV)), last[0])
}

func TestLoader_Load_DropsWrongArity(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	input := `"11222333";"S";"20200101";"";"N";"";""
"too";"short";"row";"with";"six";"fields"
"too";"long";"row";"with";"eight";"fields";"x";"y"
"44555666";"N";"";"";"N";"";""
`
	loader := registry.NewLoader(store, 0, nil, nil)
	result, err := loader.Load(ctx, strings.NewReader(input), int64(len(input)), time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Rows)
	assert.Equal(t, int64(2), result.Dropped)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestLoader_Load_Latin1Input(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	// "ÃO" in Latin-1: 0xC3 is a bare high byte, not valid UTF-8.
	raw := []byte(`"11222333";"N`)
	raw = append(raw, 0xC3, 0x4F)
	raw = append(raw, []byte(`";"";"";"N";"";""`+"\n")...)

	loader := registry.NewLoader(store, 0, nil, nil)
	result, err := loader.Load(ctx, bytes.NewReader(raw), int64(len(raw)), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Rows)

	rec, err := store.Lookup(ctx, "11222333")
	require.NoError(t, err)
	// Each Latin-1 byte maps to one rune after decoding.
	assert.Equal(t, "NÃO", rec.SimplesOption)
}

func TestLoader_Load_LastWriteWinsWithinBatch(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	input := `"11222333";"S";"20200101";"";"N";"";""
"11222333";"N";"";"20210101";"S";"20210202";""
`
	loader := registry.NewLoader(store, 0, nil, nil)
	result, err := loader.Load(ctx, strings.NewReader(input), int64(len(input)), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Rows)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rec, err := store.Lookup(ctx, "11222333")
	require.NoError(t, err)
	assert.Equal(t, "N", rec.SimplesOption)
	assert.Equal(t, "S", rec.MEIOption)
}

func TestLoader_Load_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	loader := registry.NewLoader(store, 0, nil, nil)

	_, err := loader.Load(ctx, strings.NewReader(sampleCSV), int64(len(sampleCSV)), time.Now())
	require.NoError(t, err)
	first, err := store.Count(ctx)
	require.NoError(t, err)

	// A full reload starts from a reset store and must land identically.
	require.NoError(t, store.Reset(ctx))
	_, err = loader.Load(ctx, strings.NewReader(sampleCSV), int64(len(sampleCSV)), time.Now())
	require.NoError(t, err)
	second, err := store.Count(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	rec, err := store.Lookup(ctx, "77888999")
	require.NoError(t, err)
	assert.Equal(t, "15/03/2019", rec.SimplesOptionDate)
}

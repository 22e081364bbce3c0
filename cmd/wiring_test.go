package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/chrisdamba/menusight/internal/models"
	"github.com/chrisdamba/menusight/internal/repositories/file"
	"github.com/chrisdamba/menusight/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenKeyValueStore(t *testing.T) {
	ctx := context.Background()

	kv, err := openKeyValueStore(ctx, models.StorageConfig{Backend: "file", FileDir: t.TempDir(), Namespace: "bistro"})
	require.NoError(t, err)
	assert.IsType(t, &file.KVRepository{}, kv)

	_, err = openKeyValueStore(ctx, models.StorageConfig{Backend: "sqlite"})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestAttachLanguageModel(t *testing.T) {
	var opts store.Options
	require.NoError(t, attachLanguageModel(&opts, models.LLMConfig{Provider: "none"}))
	assert.Nil(t, opts.Advisor)

	require.Error(t, attachLanguageModel(&opts, models.LLMConfig{Provider: "openai"}))
	require.ErrorIs(t, attachLanguageModel(&opts, models.LLMConfig{Provider: "palm"}), models.ErrValidation)
}

func TestDecodeMenuFile(t *testing.T) {
	raws, err := decodeMenuFile([]byte(`[{"name":"Tea","cost":1,"price":3}]`))
	require.NoError(t, err)
	require.Len(t, raws, 1)

	raws, err = decodeMenuFile([]byte(`{"menuItems":[{"name":"Tea","cost":1,"price":3},{"name":"Cake","cost":2,"price":5}]}`))
	require.NoError(t, err)
	assert.Len(t, raws, 2)

	_, err = decodeMenuFile([]byte(`nonsense`))
	require.ErrorIs(t, err, models.ErrParse)
}

func TestOpenAppWithMemoryBackend(t *testing.T) {
	cfg := &models.Config{
		Seed:             3,
		SeriesDays:       30,
		PeriodComparison: "none",
		Storage:          models.StorageConfig{Backend: "memory"},
		Events:           models.EventsConfig{Sink: "none"},
	}
	a, err := openApp(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.store.ReplaceAll(context.Background(), []models.RawMenuItem{{Name: "Tea", Cost: 1, Price: 3, SalesCount: 10}})
	require.NoError(t, err)
	st := a.store.Snapshot()
	assert.Len(t, st.RevenueData, 30)
	assert.Equal(t, models.ProvenanceNone, st.DashboardStats.ChangeProvenance)

	var buf bytes.Buffer
	jsonOutput = false
	require.NoError(t, printItems(&buf, st.MenuItems))
	assert.Contains(t, buf.String(), "Tea")
}

package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	value := []byte("1")
	require.NoError(t, store.PutAll(ctx, map[string][]byte{"a": value}))
	value[0] = '2'

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))

	require.NoError(t, store.DeleteAll(ctx, []string{"a"}))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
